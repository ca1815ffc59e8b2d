package whitelabel

import "fmt"

type pendingString struct {
	index     int
	rowOffset int
	length    int
	utf16     bool
	rows      []uint16
}

// Encode turns a validated high-level description into the flat row
// sequence the OTP header and string arena occupy, plus the 32-bit USB
// boot flags word that enables it. Arena layout is stable: strings are
// laid out in ascending field index, so equal inputs always produce an
// identical byte sequence.
func Encode(s *Struct) (rows []uint16, bootFlags uint32, err error) {
	header := make([]uint16, NumFields)

	var pendings []pendingString
	offsetCursor := NumFields
	for i := 0; i < NumFields; i++ {
		f := Fields[i]
		if !f.IsString() {
			continue
		}
		text := s.stringAt(i)
		if text == nil {
			continue
		}

		useUTF16 := f.SupportsUTF16() && needsUTF16(*text)
		length := charCount(*text, useUTF16)
		if length > f.MaxChars {
			return nil, 0, &InvalidFieldError{i, fmt.Sprintf("string exceeds max length %d", f.MaxChars)}
		}

		var encRows []uint16
		if useUTF16 {
			encRows = encodeUTF16(*text)
		} else {
			encRows, err = encodeASCII(i, *text)
			if err != nil {
				return nil, 0, err
			}
		}

		if offsetCursor > maxDescriptorOffset {
			return nil, 0, &StringTooLongError{i}
		}
		pendings = append(pendings, pendingString{i, offsetCursor, length, useUTF16, encRows})
		offsetCursor += len(encRows)
	}

	for i := 0; i < NumFields; i++ {
		f := Fields[i]
		if f.IsString() {
			continue
		}
		v := s.u16At(i)
		if v == nil {
			continue
		}
		switch f.Kind {
		case KindU16:
			header[i] = *v
		case KindBCD16:
			if err := validateBCD16(*v); err != nil {
				return nil, 0, &InvalidFieldError{i, err.Error()}
			}
			header[i] = *v
		case KindU16M:
			if err := validateAttrPower(*v); err != nil {
				return nil, 0, &InvalidFieldError{i, err.Error()}
			}
			header[i] = *v
		}
	}

	for _, p := range pendings {
		header[p.index] = packDescriptor(p.rowOffset, p.length, p.utf16)
	}

	var flags uint32
	for i := 0; i < NumFields; i++ {
		if s.present(i) {
			flags |= 1 << uint(i)
		}
	}
	flags |= 1 << WhiteLabelAddrValidBit

	rows = append(rows, header...)
	for _, p := range pendings {
		rows = append(rows, p.rows...)
	}
	return rows, flags, nil
}

// validateBCD16 checks that every nibble of a packed BCD16 value is a
// decimal digit (0..9).
func validateBCD16(v uint16) error {
	digits := [4]int{
		int((v >> 12) & 0xF),
		int((v >> 8) & 0xF),
		int((v >> 4) & 0xF),
		int(v & 0xF),
	}
	for _, d := range digits {
		if d > 9 {
			return fmt.Errorf("bcd digit out of range: %04X", v)
		}
	}
	return nil
}

// legalAttrBytes are the four valid combinations of the USB configuration
// attributes byte (bit 7 reserved-set, bits 4..0 reserved-clear).
var legalAttrBytes = map[byte]bool{0x80: true, 0xA0: true, 0xC0: true, 0xE0: true}

// validateAttrPower checks the packed attrs/max-power word: the
// attributes byte must be one of the legal masks, and max power must be
// nonzero and within the self-powered-dependent ceiling.
func validateAttrPower(v uint16) error {
	attrs := byte(v & 0xFF)
	power := byte(v >> 8)
	if !legalAttrBytes[attrs] {
		return fmt.Errorf("invalid attributes byte 0x%02X", attrs)
	}
	maxPower := 500
	if attrs&0x40 != 0 {
		maxPower = 510
	}
	if power == 0 || int(power) > maxPower {
		return fmt.Errorf("max power %d outside 1..%d", power, maxPower)
	}
	return nil
}
