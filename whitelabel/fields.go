// Package whitelabel implements the bidirectional codec between a JSON
// description of an RP2350 USB "white label" configuration and the
// 16-row OTP header (plus trailing string arena) consumed by the
// BOOTSEL boot ROM.
package whitelabel

// FieldKind identifies how a header slot's 16-bit payload is interpreted.
type FieldKind int

const (
	// KindU16 is a plain 16-bit value (vid, pid, lang_id).
	KindU16 FieldKind = iota
	// KindBCD16 packs two decimal digits per byte (bcd_device).
	KindBCD16
	// KindU16M packs attributes in the low byte and max power in the high byte.
	KindU16M
	// KindStrDefA is an ASCII-only string descriptor.
	KindStrDefA
	// KindStrDefU is a string descriptor that may fall back to UTF-16.
	KindStrDefU
	// KindStrDef is an ASCII-only string descriptor (SCSI vendor field).
	KindStrDef
)

// Field describes one of the 16 slots in the white-label header.
type Field struct {
	Index    int
	Name     string
	Kind     FieldKind
	MaxChars int    // 0 for non-string kinds
	Default  string // documentation only, never substituted
}

// IsString reports whether the field's slot holds a STRDEF descriptor.
func (f Field) IsString() bool {
	switch f.Kind {
	case KindStrDefA, KindStrDefU, KindStrDef:
		return true
	default:
		return false
	}
}

// SupportsUTF16 reports whether the field may fall back to 16-bit encoding.
func (f Field) SupportsUTF16() bool {
	return f.Kind == KindStrDefU
}

// NumFields is the fixed size of the white-label header.
const NumFields = 16

// Field indices, matching the slot position inside the 16-row header.
const (
	IndexUSBVendorID = iota
	IndexUSBProductID
	IndexUSBBCDDevice
	IndexUSBLanguageID
	IndexUSBManufacturer
	IndexUSBProduct
	IndexUSBSerialNumber
	IndexUSBAttrPower
	IndexVolumeLabel
	IndexSCSIVendor
	IndexSCSIProduct
	IndexSCSIVersion
	IndexRedirectURL
	IndexRedirectName
	IndexUF2Model
	IndexUF2BoardID
)

// Fields is the static field catalog, indexed by slot position.
var Fields = [NumFields]Field{
	IndexUSBVendorID:     {IndexUSBVendorID, "usb_vendor_id", KindU16, 0, "0x2E8A"},
	IndexUSBProductID:    {IndexUSBProductID, "usb_product_id", KindU16, 0, "0x000F"},
	IndexUSBBCDDevice:    {IndexUSBBCDDevice, "usb_bcd_device", KindBCD16, 0, "0x0100"},
	IndexUSBLanguageID:   {IndexUSBLanguageID, "usb_language_id", KindU16, 0, "0x0409"},
	IndexUSBManufacturer: {IndexUSBManufacturer, "usb_manufacturer", KindStrDefU, 30, "Raspberry Pi"},
	IndexUSBProduct:      {IndexUSBProduct, "usb_product", KindStrDefU, 30, "RP2350 Boot"},
	IndexUSBSerialNumber: {IndexUSBSerialNumber, "usb_serial_number", KindStrDefU, 30, "device-id"},
	IndexUSBAttrPower:    {IndexUSBAttrPower, "usb_attr_power", KindU16M, 0, "0xFA80"},
	IndexVolumeLabel:     {IndexVolumeLabel, "volume_label", KindStrDefA, 11, "RP2350"},
	IndexSCSIVendor:      {IndexSCSIVendor, "scsi_vendor", KindStrDef, 8, "RPI"},
	IndexSCSIProduct:     {IndexSCSIProduct, "scsi_product", KindStrDefA, 16, "RP2350"},
	IndexSCSIVersion:     {IndexSCSIVersion, "scsi_version", KindStrDefA, 4, "1"},
	IndexRedirectURL:     {IndexRedirectURL, "redirect_url", KindStrDefA, 127, ""},
	IndexRedirectName:    {IndexRedirectName, "redirect_name", KindStrDefA, 127, ""},
	IndexUF2Model:        {IndexUF2Model, "uf2_model", KindStrDefA, 127, ""},
	IndexUF2BoardID:      {IndexUF2BoardID, "uf2_board_id", KindStrDefA, 127, ""},
}

// WhiteLabelAddrValidBit is the bit position, within the 32-bit USB boot
// flags word, marking that WHITE_LABEL_ADDR points at valid data. Derived
// from the vendor sample output (0x0040FF77 implies bit 22).
const WhiteLabelAddrValidBit = 22
