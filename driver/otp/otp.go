// Package otp provides access to the one-time-programmable memory on
// the rp2350 microcontroller, specialized to writing and reading back
// the USB white-label structure via the whitelabel package's codec.
package otp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unsafe"

	"github.com/piersf/rp2350wl/whitelabel"
)

const (
	// Predefined OTP rows.
	USB_BOOT_FLAGS       = 0x059
	USB_BOOT_FLAGS_R1    = 0x05a
	USB_BOOT_FLAGS_R2    = 0x05b
	USB_WHITE_LABEL_ADDR = 0x05c

	WHITE_LABEL_ADDR_VALID = 0b1 << whitelabel.WhiteLabelAddrValidBit

	// Flags.
	_IS_WRITE = 0x1
	_IS_ECC   = 0x2

	// Return codes.
	_BOOTROM_OK                             = 0
	_BOOTROM_ERROR_NOT_PERMITTED            = -4
	_BOOTROM_ERROR_BAD_ALIGNMENT            = -11
	_BOOTROM_ERROR_UNSUPPORTED_MODIFICATION = -18

	FirstUserRow = 0x0c0
	LastUserRow  = 0xf3f
	numRows      = 4096
)

type bootromError struct {
	errCode int
}

func (b *bootromError) Error() string {
	switch b.errCode {
	case _BOOTROM_ERROR_NOT_PERMITTED:
		return "otp: not permitted"
	case _BOOTROM_ERROR_UNSUPPORTED_MODIFICATION:
		return "otp: unsupported modification"
	case _BOOTROM_ERROR_BAD_ALIGNMENT:
		return "otp: bad alignment"
	default:
		return fmt.Sprintf("otp: unknown error: %d", b.errCode)
	}
}

func readECC(buf []byte, row uint16) error {
	return otpAccess(buf, row, _IS_ECC)
}

func writeECC(buf []uint8, row uint16) error {
	return otpAccess(buf, row, _IS_ECC|_IS_WRITE)
}

// WriteWhiteLabelStruct encodes s and writes its OTP header plus string
// arena at tblAddr, then enables it by writing the boot flags word
// (triplicated across the three raw rows the boot ROM majority-votes).
//
// PROCEED WITH CAUTION: OTP writes on RP2350 are permanent.
func WriteWhiteLabelStruct(tblAddr uint16, s *whitelabel.Struct) error {
	rows, flags, err := whitelabel.Encode(s)
	if err != nil {
		return err
	}
	if tblAddr < FirstUserRow || int(tblAddr)+len(rows)-1 > LastUserRow {
		return errors.New("otp: white label table does not fit in the unreserved OTP region")
	}

	buf := make([]byte, len(rows)*2)
	for i, row := range rows {
		binary.LittleEndian.PutUint16(buf[i*2:], row)
	}
	if err := writeECC(buf, tblAddr); err != nil {
		return err
	}
	if err := writeECCRow(USB_WHITE_LABEL_ADDR, tblAddr); err != nil {
		return err
	}
	for _, row := range []uint16{USB_BOOT_FLAGS, USB_BOOT_FLAGS_R1, USB_BOOT_FLAGS_R2} {
		if err := writeRow(row, flags); err != nil {
			return err
		}
	}
	return nil
}

// ReadWhiteLabelStruct reads the white-label header and just enough of
// the trailing string arena back from OTP, and decodes it with the same
// codec WriteWhiteLabelStruct used to write it. It returns a nil Struct
// and zero flags if no white-label table address has been set.
func ReadWhiteLabelStruct() (*whitelabel.Struct, uint32, error) {
	tblAddr, err := readECCRow(USB_WHITE_LABEL_ADDR)
	if err != nil || tblAddr == 0 {
		return nil, 0, err
	}
	flags, err := readOrRow(USB_BOOT_FLAGS, 3)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]uint16, whitelabel.NumFields)
	for i := range rows {
		if rows[i], err = readECCRow(tblAddr + uint16(i)); err != nil {
			return nil, 0, err
		}
	}

	// Extend the read to cover every present string's arena range
	// before decoding.
	need := whitelabel.NumFields
	for i, f := range whitelabel.Fields {
		if flags&(1<<uint(i)) == 0 || !f.IsString() {
			continue
		}
		desc := rows[i]
		offset := int(desc >> 8)
		low := byte(desc)
		length := int(low & 0x7f)
		bytesPerChar := 1
		if low&0x80 != 0 {
			bytesPerChar = 2
		}
		if end := offset + (length*bytesPerChar+1)/2; end > need {
			need = end
		}
	}
	for len(rows) < need {
		row, err := readECCRow(tblAddr + uint16(len(rows)))
		if err != nil {
			return nil, 0, err
		}
		rows = append(rows, row)
	}

	desc, err := whitelabel.Decode(rows, flags)
	return desc, flags, err
}

func readOrRow(row, redundancy uint16) (uint32, error) {
	var v uint32
	for i := range redundancy {
		rv, err := readRow(row + i)
		if err != nil {
			return 0, err
		}
		v |= rv
	}
	return v, nil
}

func writeRow(row uint16, val uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	return otpAccess(buf[:], row, _IS_WRITE)
}

func writeECCRow(row, val uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], val)
	return writeECC(buf[:], row)
}

func readRow(row uint16) (uint32, error) {
	var buf [4]byte
	if err := otpAccess(buf[:4], row, 0); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readECCRow(row uint16) (uint16, error) {
	var buf [2]byte
	if err := readECC(buf[:2], row); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func otpAccess(buf []byte, row uint16, flags int) error {
	var aligned []byte
	rowAndFlags := (uint32(flags) << 16) | uint32(row)
	if isECC := rowAndFlags&(_IS_ECC<<16) != 0; isECC {
		buf16 := make([]uint16, (len(buf)+1)/2)
		ptr := (*byte)(unsafe.Pointer(unsafe.SliceData(buf16)))
		aligned = unsafe.Slice(ptr, len(buf16)*2)
	} else {
		buf32 := make([]uint32, (len(buf)+3)/4)
		ptr := (*byte)(unsafe.Pointer(unsafe.SliceData(buf32)))
		aligned = unsafe.Slice(ptr, len(buf32)*4)
	}
	copy(aligned, buf)
	res := otp_access(unsafe.SliceData(aligned), uint32(len(aligned)), rowAndFlags)
	copy(buf, aligned)
	return toErr(int(res))
}

var otp_access func(buf *uint8, buf_len, row_and_flags uint32) int

func toErr(res int) error {
	if res == 0 {
		return nil
	}
	return &bootromError{res}
}
