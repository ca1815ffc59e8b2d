package whitelabel

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

var (
	hexU16Pattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,4}$`)
	hexU8Pattern  = regexp.MustCompile(`^0x[0-9a-fA-F]{1,2}$`)
)

// defaultAttrs and defaultMaxPower fill in whichever half of the packed
// attrs/max-power word is missing when only one of the two JSON fields is
// supplied, matching the documented default for field 7 (0xFA80:
// attributes 0x80, max power 0xFA).
const (
	defaultAttrs    byte = 0x80
	defaultMaxPower byte = 0xFA
)

type jsonDevice struct {
	VID          *string  `json:"vid,omitempty" cbor:"vid,omitempty"`
	PID          *string  `json:"pid,omitempty" cbor:"pid,omitempty"`
	BCD          *float64 `json:"bcd,omitempty" cbor:"bcd,omitempty"`
	LangID       *string  `json:"lang_id,omitempty" cbor:"lang_id,omitempty"`
	Manufacturer *string  `json:"manufacturer,omitempty" cbor:"manufacturer,omitempty"`
	Product      *string  `json:"product,omitempty" cbor:"product,omitempty"`
	SerialNumber *string  `json:"serial_number,omitempty" cbor:"serial_number,omitempty"`
	MaxPower     *string  `json:"max_power,omitempty" cbor:"max_power,omitempty"`
	Attributes   *string  `json:"attributes,omitempty" cbor:"attributes,omitempty"`
}

type jsonSCSI struct {
	Vendor  *string `json:"vendor,omitempty" cbor:"vendor,omitempty"`
	Product *string `json:"product,omitempty" cbor:"product,omitempty"`
	Version *string `json:"version,omitempty" cbor:"version,omitempty"`
}

type jsonVolume struct {
	Label        *string `json:"label,omitempty" cbor:"label,omitempty"`
	RedirectURL  *string `json:"redirect_url,omitempty" cbor:"redirect_url,omitempty"`
	RedirectName *string `json:"redirect_name,omitempty" cbor:"redirect_name,omitempty"`
	Model        *string `json:"model,omitempty" cbor:"model,omitempty"`
	BoardID      *string `json:"board_id,omitempty" cbor:"board_id,omitempty"`
}

type jsonDocument struct {
	Device *jsonDevice `json:"device,omitempty" cbor:"device,omitempty"`
	SCSI   *jsonSCSI   `json:"scsi,omitempty" cbor:"scsi,omitempty"`
	Volume *jsonVolume `json:"volume,omitempty" cbor:"volume,omitempty"`
}

// FromJSON parses the nested device/scsi/volume JSON shape into a
// Struct, hand-validating the hex-string and decimal-BCD fields the
// generic decoder can't express.
func FromJSON(text []byte) (*Struct, error) {
	var doc jsonDocument
	if err := json.Unmarshal(text, &doc); err != nil {
		return nil, &InvalidJSONError{err.Error()}
	}
	return docToStruct(&doc)
}

// FromCBOR is FromJSON's counterpart for the CBOR encoding of the same
// nested device/scsi/volume shape, for tooling that archives white
// label descriptions alongside other CBOR-encoded build artifacts.
func FromCBOR(data []byte) (*Struct, error) {
	var doc jsonDocument
	if err := cbor.Unmarshal(data, &doc); err != nil {
		return nil, &InvalidJSONError{err.Error()}
	}
	return docToStruct(&doc)
}

func docToStruct(doc *jsonDocument) (*Struct, error) {
	s := &Struct{}

	if doc.Device != nil {
		d := doc.Device
		if d.VID != nil {
			v, err := parseHexU16(IndexUSBVendorID, *d.VID)
			if err != nil {
				return nil, err
			}
			s.VendorID = &v
		}
		if d.PID != nil {
			v, err := parseHexU16(IndexUSBProductID, *d.PID)
			if err != nil {
				return nil, err
			}
			s.ProductID = &v
		}
		if d.BCD != nil {
			v, err := bcdFromFloat(IndexUSBBCDDevice, *d.BCD)
			if err != nil {
				return nil, err
			}
			s.BCDDevice = &v
		}
		if d.LangID != nil {
			v, err := parseHexU16(IndexUSBLanguageID, *d.LangID)
			if err != nil {
				return nil, err
			}
			s.LanguageID = &v
		}
		if d.Manufacturer != nil {
			s.Manufacturer = d.Manufacturer
		}
		if d.Product != nil {
			s.Product = d.Product
		}
		if d.SerialNumber != nil {
			s.SerialNumber = d.SerialNumber
		}
		if v, err := mergeAttrPower(d.Attributes, d.MaxPower); err != nil {
			return nil, err
		} else if v != nil {
			s.AttrPower = v
		}
	}

	if doc.SCSI != nil {
		sc := doc.SCSI
		s.SCSIVendor = sc.Vendor
		s.SCSIProduct = sc.Product
		s.SCSIVersion = sc.Version
	}

	if doc.Volume != nil {
		vol := doc.Volume
		s.VolumeLabel = vol.Label
		s.RedirectURL = vol.RedirectURL
		s.RedirectName = vol.RedirectName
		s.UF2Model = vol.Model
		s.UF2BoardID = vol.BoardID
	}

	return s, nil
}

// ToJSON renders a Struct back into the canonical nested JSON shape,
// omitting any field that was never set.
func ToJSON(s *Struct) ([]byte, error) {
	return json.Marshal(structToDoc(s))
}

// ToCBOR is ToJSON's counterpart for the CBOR encoding of the same
// nested shape.
func ToCBOR(s *Struct) ([]byte, error) {
	return cbor.Marshal(structToDoc(s))
}

func structToDoc(s *Struct) jsonDocument {
	var doc jsonDocument

	dev := jsonDevice{}
	haveDevice := false
	if s.VendorID != nil {
		v := fmt.Sprintf("0x%04X", *s.VendorID)
		dev.VID = &v
		haveDevice = true
	}
	if s.ProductID != nil {
		v := fmt.Sprintf("0x%04X", *s.ProductID)
		dev.PID = &v
		haveDevice = true
	}
	if s.BCDDevice != nil {
		v := bcdToFloat(*s.BCDDevice)
		dev.BCD = &v
		haveDevice = true
	}
	if s.LanguageID != nil {
		v := fmt.Sprintf("0x%04X", *s.LanguageID)
		dev.LangID = &v
		haveDevice = true
	}
	if s.Manufacturer != nil {
		dev.Manufacturer = s.Manufacturer
		haveDevice = true
	}
	if s.Product != nil {
		dev.Product = s.Product
		haveDevice = true
	}
	if s.SerialNumber != nil {
		dev.SerialNumber = s.SerialNumber
		haveDevice = true
	}
	if s.AttrPower != nil {
		attrs := fmt.Sprintf("0x%02X", byte(*s.AttrPower&0xFF))
		power := fmt.Sprintf("0x%02X", byte(*s.AttrPower>>8))
		dev.Attributes = &attrs
		dev.MaxPower = &power
		haveDevice = true
	}
	if haveDevice {
		doc.Device = &dev
	}

	scsi := jsonSCSI{s.SCSIVendor, s.SCSIProduct, s.SCSIVersion}
	if s.SCSIVendor != nil || s.SCSIProduct != nil || s.SCSIVersion != nil {
		doc.SCSI = &scsi
	}

	vol := jsonVolume{s.VolumeLabel, s.RedirectURL, s.RedirectName, s.UF2Model, s.UF2BoardID}
	if s.VolumeLabel != nil || s.RedirectURL != nil || s.RedirectName != nil || s.UF2Model != nil || s.UF2BoardID != nil {
		doc.Volume = &vol
	}

	return doc
}

// ToOTPRows is a thin shim over Encode, returning only the row sequence.
func ToOTPRows(s *Struct) ([]uint16, error) {
	rows, _, err := Encode(s)
	return rows, err
}

// FromOTPRows is a thin shim over Decode.
func FromOTPRows(rows []uint16, bootFlags uint32) (*Struct, error) {
	return Decode(rows, bootFlags)
}

// USBBootFlags is a thin shim over Encode, returning only the boot
// flags word Encode would compute for s.
func USBBootFlags(s *Struct) (uint32, error) {
	_, flags, err := Encode(s)
	return flags, err
}

func parseHexU16(index int, s string) (uint16, error) {
	if !hexU16Pattern.MatchString(s) {
		return 0, &InvalidFieldError{index, fmt.Sprintf("expected 1-4 hex digits prefixed with 0x, got %q", s)}
	}
	v, err := strconv.ParseUint(s[2:], 16, 16)
	if err != nil {
		return 0, &InvalidFieldError{index, err.Error()}
	}
	return uint16(v), nil
}

func parseHexU8(index int, s string) (byte, error) {
	if !hexU8Pattern.MatchString(s) {
		return 0, &InvalidFieldError{index, fmt.Sprintf("expected 1-2 hex digits prefixed with 0x, got %q", s)}
	}
	v, err := strconv.ParseUint(s[2:], 16, 8)
	if err != nil {
		return 0, &InvalidFieldError{index, err.Error()}
	}
	return byte(v), nil
}

// mergeAttrPower packs the attrs/max-power JSON fields into field 7's
// single 16-bit payload. Setting only one of the pair auto-derives the
// other from the documented default, matching how the rest of the tool
// chain treats max_power and attributes as a dependent pair.
func mergeAttrPower(attrs, maxPower *string) (*uint16, error) {
	if attrs == nil && maxPower == nil {
		return nil, nil
	}

	var a, p byte
	if attrs != nil {
		v, err := parseHexU8(IndexUSBAttrPower, *attrs)
		if err != nil {
			return nil, err
		}
		a = v
	} else {
		a = defaultAttrs
	}
	if maxPower != nil {
		v, err := parseHexU8(IndexUSBAttrPower, *maxPower)
		if err != nil {
			return nil, err
		}
		p = v
	} else {
		p = defaultMaxPower
	}

	packed := uint16(a) | uint16(p)<<8
	return &packed, nil
}

// bcdFromFloat converts a decimal version number (e.g. 2.34) into the
// packed BCD16 form: integer part's two decimal digits in the high
// byte's nibbles, fractional part's two decimal digits in the low
// byte's nibbles.
func bcdFromFloat(index int, v float64) (uint16, error) {
	if v < 0 || v > 99.99 {
		return 0, &InvalidFieldError{index, fmt.Sprintf("bcd value %.2f out of range 0.00..99.99", v)}
	}
	s := fmt.Sprintf("%05.2f", v)
	top := (s[0]-'0')<<4 | (s[1] - '0')
	bottom := (s[3]-'0')<<4 | (s[4] - '0')
	return uint16(top)<<8 | uint16(bottom), nil
}

// bcdToFloat is the inverse of bcdFromFloat.
func bcdToFloat(v uint16) float64 {
	top := byte(v >> 8)
	bottom := byte(v)
	intPart := int(top>>4)*10 + int(top&0xF)
	fracPart := int(bottom>>4)*10 + int(bottom&0xF)
	return float64(intPart) + float64(fracPart)/100
}
