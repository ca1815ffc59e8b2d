package whitelabel

import "fmt"

// occupiedRange is a half-open [start, end) row range claimed by one
// string's arena payload, tracked to detect overlap between fields.
type occupiedRange struct {
	index      int
	start, end int
}

// Decode reconstructs a high-level description from a row sequence (the
// 16-row header plus whatever arena rows are needed) and the USB boot
// flags word that accompanied it. The boot-flags word is ground truth
// for field presence: any header slot whose bit is unset is ignored,
// even if it holds a nonzero value left over from a previous OTP write.
func Decode(rows []uint16, bootFlags uint32) (*Struct, error) {
	if len(rows) < NumFields {
		return nil, &TruncatedInputError{fmt.Sprintf("got %d rows, need at least %d for the header", len(rows), NumFields)}
	}

	s := &Struct{}
	var claimed []occupiedRange

	for i := 0; i < NumFields; i++ {
		if bootFlags&(1<<uint(i)) == 0 {
			continue
		}
		f := Fields[i]
		if !f.IsString() {
			s.setU16At(i, rows[i])
			continue
		}

		offset, length, utf16Flag := unpackDescriptor(rows[i])
		if offset < NumFields || offset > maxDescriptorOffset {
			return nil, &InternalInconsistencyError{fmt.Sprintf("descriptor offset inside header or out of range: field %d offset %d", i, offset)}
		}
		if length > f.MaxChars {
			return nil, &InvalidFieldError{i, fmt.Sprintf("descriptor length %d exceeds max %d", length, f.MaxChars)}
		}
		if utf16Flag && !f.SupportsUTF16() {
			return nil, &InvalidFieldError{i, "utf16 flag set on ascii-only field"}
		}

		bytesPerChar := 1
		if utf16Flag {
			bytesPerChar = 2
		}
		rowCount := (length*bytesPerChar + 1) / 2
		arenaStart := offset - NumFields
		if offset+rowCount > len(rows) {
			return nil, &TruncatedInputError{fmt.Sprintf("field %d descriptor needs %d rows starting at %d, got %d total rows", i, rowCount, offset, len(rows))}
		}

		for _, c := range claimed {
			if arenaStart < c.end && c.start < arenaStart+rowCount {
				return nil, &InternalInconsistencyError{fmt.Sprintf("string arena overlap between field %d and field %d", i, c.index)}
			}
		}
		claimed = append(claimed, occupiedRange{i, arenaStart, arenaStart + rowCount})

		arenaRows := rows[offset : offset+rowCount]
		var text string
		if utf16Flag {
			var err error
			text, err = decodeUTF16(arenaRows, length)
			if err != nil {
				return nil, err
			}
		} else {
			text = decodeASCII(arenaRows, length)
		}
		s.setStringAt(i, text)
	}

	return s, nil
}
