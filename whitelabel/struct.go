package whitelabel

// Struct is the high-level white-label description: a mapping from field
// index (0..15) to an optional value. A nil pointer means "not provided",
// which is distinct from "provided equal to the field's documented
// default" — Struct never silently substitutes defaults.
//
// Numeric fields hold their already-packed 16-bit payload (BCD16 digits
// packed into nibbles; U16_M attributes in the low byte, max power in
// the high byte). Packing decimal or hex-string JSON input into that
// form is the job of the façade, not of Struct itself.
type Struct struct {
	VendorID     *uint16
	ProductID    *uint16
	BCDDevice    *uint16
	LanguageID   *uint16
	Manufacturer *string
	Product      *string
	SerialNumber *string
	AttrPower    *uint16
	VolumeLabel  *string
	SCSIVendor   *string
	SCSIProduct  *string
	SCSIVersion  *string
	RedirectURL  *string
	RedirectName *string
	UF2Model     *string
	UF2BoardID   *string
}

// u16At returns the value at index i if field i is a populated u16-kind
// slot, else nil.
func (s *Struct) u16At(i int) *uint16 {
	switch i {
	case IndexUSBVendorID:
		return s.VendorID
	case IndexUSBProductID:
		return s.ProductID
	case IndexUSBBCDDevice:
		return s.BCDDevice
	case IndexUSBLanguageID:
		return s.LanguageID
	case IndexUSBAttrPower:
		return s.AttrPower
	default:
		return nil
	}
}

// setU16At stores v into the u16-kind slot at index i.
func (s *Struct) setU16At(i int, v uint16) {
	switch i {
	case IndexUSBVendorID:
		s.VendorID = &v
	case IndexUSBProductID:
		s.ProductID = &v
	case IndexUSBBCDDevice:
		s.BCDDevice = &v
	case IndexUSBLanguageID:
		s.LanguageID = &v
	case IndexUSBAttrPower:
		s.AttrPower = &v
	}
}

// stringAt returns the value at index i if field i is a populated
// string-kind slot, else nil.
func (s *Struct) stringAt(i int) *string {
	switch i {
	case IndexUSBManufacturer:
		return s.Manufacturer
	case IndexUSBProduct:
		return s.Product
	case IndexUSBSerialNumber:
		return s.SerialNumber
	case IndexVolumeLabel:
		return s.VolumeLabel
	case IndexSCSIVendor:
		return s.SCSIVendor
	case IndexSCSIProduct:
		return s.SCSIProduct
	case IndexSCSIVersion:
		return s.SCSIVersion
	case IndexRedirectURL:
		return s.RedirectURL
	case IndexRedirectName:
		return s.RedirectName
	case IndexUF2Model:
		return s.UF2Model
	case IndexUF2BoardID:
		return s.UF2BoardID
	default:
		return nil
	}
}

// setStringAt stores v into the string-kind slot at index i.
func (s *Struct) setStringAt(i int, v string) {
	switch i {
	case IndexUSBManufacturer:
		s.Manufacturer = &v
	case IndexUSBProduct:
		s.Product = &v
	case IndexUSBSerialNumber:
		s.SerialNumber = &v
	case IndexVolumeLabel:
		s.VolumeLabel = &v
	case IndexSCSIVendor:
		s.SCSIVendor = &v
	case IndexSCSIProduct:
		s.SCSIProduct = &v
	case IndexSCSIVersion:
		s.SCSIVersion = &v
	case IndexRedirectURL:
		s.RedirectURL = &v
	case IndexRedirectName:
		s.RedirectName = &v
	case IndexUF2Model:
		s.UF2Model = &v
	case IndexUF2BoardID:
		s.UF2BoardID = &v
	}
}

// present reports whether field i carries a value.
func (s *Struct) present(i int) bool {
	if Fields[i].IsString() {
		return s.stringAt(i) != nil
	}
	return s.u16At(i) != nil
}
