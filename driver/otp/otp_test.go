package otp

import (
	"bytes"
	"encoding/hex"
	"runtime"
	"testing"
	"unsafe"

	"github.com/piersf/rp2350wl/whitelabel"
)

func strp(s string) *string { return &s }

func TestReadWrite(t *testing.T) {
	resetOTP()
	v, err := hex.DecodeString("deadbeef")
	if err != nil {
		panic(err)
	}
	if err := writeECC(v, FirstUserRow); err != nil {
		t.Fatal(err)
	}
	got := make([]byte, len(v))
	if err := readECC(got, FirstUserRow); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, got) {
		t.Errorf("wrote %x, got %x", v, got)
	}
	// Test that impossible OTP writes are caught: OTP bits can only
	// be flipped from 0 to 1.
	v[0] = 0xdc
	if err := writeECC(v, FirstUserRow); err == nil {
		t.Fatal("impossible OTP write accepted")
	}
}

func TestWriteWhiteLabelStructRejectsOutOfRangeAddr(t *testing.T) {
	resetOTP()
	s := &whitelabel.Struct{UF2Model: strp("test")}
	if err := WriteWhiteLabelStruct(0, s); err == nil {
		t.Fatal("expected error writing white label table into the reserved OTP region")
	}
}

func TestWriteAndReadWhiteLabelStruct(t *testing.T) {
	resetOTP()
	want := &whitelabel.Struct{
		Manufacturer: strp("Raspberry Pi"),
		Product:      strp("RP2350 Boot"),
		VolumeLabel:  strp("RP2350"),
		UF2Model:     strp("Raspberry Pi RP2350"),
		UF2BoardID:   strp("RPI-RP2"),
	}
	if err := WriteWhiteLabelStruct(FirstUserRow, want); err != nil {
		t.Fatal(err)
	}

	got, flags, err := ReadWhiteLabelStruct()
	if err != nil {
		t.Fatal(err)
	}
	if flags&WHITE_LABEL_ADDR_VALID == 0 {
		t.Error("white-label-address-valid bit was not set on read back")
	}
	if got.Manufacturer == nil || *got.Manufacturer != *want.Manufacturer {
		t.Errorf("manufacturer = %v, want %q", got.Manufacturer, *want.Manufacturer)
	}
	if got.UF2BoardID == nil || *got.UF2BoardID != *want.UF2BoardID {
		t.Errorf("uf2_board_id = %v, want %q", got.UF2BoardID, *want.UF2BoardID)
	}
}

func TestReadWhiteLabelStructWithNoAddressSet(t *testing.T) {
	resetOTP()
	s, flags, err := ReadWhiteLabelStruct()
	if err != nil {
		t.Fatal(err)
	}
	if s != nil || flags != 0 {
		t.Errorf("expected nil struct and zero flags, got %+v, 0x%x", s, flags)
	}
}

func resetOTP() {
	mem := make([]byte, numRows*3)
	otp_access = func(bufPtr *uint8, buf_len, row_and_flags uint32) int {
		isECC := row_and_flags&(_IS_ECC<<16) != 0
		// Pin the pointer just like C would, so the alignment can
		// be verified.
		var pinner runtime.Pinner
		pinner.Pin(bufPtr)
		defer pinner.Unpin()
		align := uintptr(4)
		if isECC {
			align = 2
		}
		if uintptr(unsafe.Pointer(bufPtr))%align != 0 {
			panic("unaligned access")
		}
		if uintptr(buf_len)%align != 0 {
			panic("unaligned length")
		}
		buf := unsafe.Slice(bufPtr, buf_len)
		startRow := int(row_and_flags & 0xffff)
		for i := range buf {
			row := i / 4
			off := i % 4
			if isECC {
				row = i / 2
				off = i % 2
			} else if off == 3 {
				// Rows are 24 bits wide.
				continue
			}
			idx := (startRow+row)*3 + off
			if row_and_flags&(_IS_WRITE<<16) != 0 {
				b := buf[i]
				if mem[idx]&^b != 0 {
					return _BOOTROM_ERROR_UNSUPPORTED_MODIFICATION
				}
				mem[idx] = b
			} else {
				buf[i] = mem[idx]
			}
		}
		return _BOOTROM_OK
	}
}
