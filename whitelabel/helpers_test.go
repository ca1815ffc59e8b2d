package whitelabel

func strp(s string) *string { return &s }
func u16p(v uint16) *uint16 { return &v }

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalU16Ptr(a, b *uint16) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStructs(a, b *Struct) bool {
	return equalU16Ptr(a.VendorID, b.VendorID) &&
		equalU16Ptr(a.ProductID, b.ProductID) &&
		equalU16Ptr(a.BCDDevice, b.BCDDevice) &&
		equalU16Ptr(a.LanguageID, b.LanguageID) &&
		equalStrPtr(a.Manufacturer, b.Manufacturer) &&
		equalStrPtr(a.Product, b.Product) &&
		equalStrPtr(a.SerialNumber, b.SerialNumber) &&
		equalU16Ptr(a.AttrPower, b.AttrPower) &&
		equalStrPtr(a.VolumeLabel, b.VolumeLabel) &&
		equalStrPtr(a.SCSIVendor, b.SCSIVendor) &&
		equalStrPtr(a.SCSIProduct, b.SCSIProduct) &&
		equalStrPtr(a.SCSIVersion, b.SCSIVersion) &&
		equalStrPtr(a.RedirectURL, b.RedirectURL) &&
		equalStrPtr(a.RedirectName, b.RedirectName) &&
		equalStrPtr(a.UF2Model, b.UF2Model) &&
		equalStrPtr(a.UF2BoardID, b.UF2BoardID)
}
