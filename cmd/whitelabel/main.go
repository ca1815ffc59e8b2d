// Command whitelabel encodes and decodes the RP2350 USB white label
// structure consumed by the BOOTSEL boot ROM.
//
// Subcommand encode reads a JSON description and writes the OTP row
// bytes (plus the USB boot flags needed to enable them) that the
// vendor's reference tool would write to OTP. Subcommand decode does
// the reverse: given a raw row dump and its boot flags, it prints the
// JSON description the boot ROM would read out of it.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/piersf/rp2350wl/whitelabel"
	"github.com/tidwall/jsonc"
)

var (
	encodeCmd = flag.NewFlagSet("encode", flag.ExitOnError)
	encodeOut = encodeCmd.String("o", "", "write OTP row bytes to this file instead of printing a hex table")
	decodeCmd    = flag.NewFlagSet("decode", flag.ExitOnError)
	bootFlags    = decodeCmd.String("boot-flags", "", "USB boot flags word as read from OTP row 0x059, in hex (e.g. 0x0040ff77)")
	decodeOut    = decodeCmd.String("o", "", "write output to this file instead of stdout")
	decodeFormat = decodeCmd.String("format", "json", "output format: json or cbor")
)

func main() {
	if len(os.Args) <= 1 {
		fmt.Fprintf(os.Stderr, "whitelabel: specify 'encode' or 'decode' command\n")
		os.Exit(2)
	}
	args := os.Args[2:]
	var err error
	switch cmd := os.Args[1]; cmd {
	case "encode":
		if err := encodeCmd.Parse(args); err != nil {
			encodeCmd.Usage()
		}
		err = runEncode(encodeCmd.Args())
	case "decode":
		if err := decodeCmd.Parse(args); err != nil {
			decodeCmd.Usage()
		}
		err = runDecode(decodeCmd.Args())
	default:
		fmt.Fprintf(os.Stderr, "whitelabel: unknown command: %q\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "whitelabel: %v\n", err)
		os.Exit(2)
	}
}

func runEncode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("encode: specify a single JSON input file")
	}
	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("encode: %s: %v", path, err)
	}
	// Config files are hand-edited, so tolerate // and /* */ comments
	// the way a lot of embedded tooling configs do.
	clean := jsonc.ToJSON(raw)

	desc, err := whitelabel.FromJSON(clean)
	if err != nil {
		return fmt.Errorf("encode: %s: %v", path, err)
	}
	rows, flags, err := whitelabel.Encode(desc)
	if err != nil {
		return fmt.Errorf("encode: %s: %v", path, err)
	}

	if *encodeOut != "" {
		buf := make([]byte, len(rows)*2)
		for i, row := range rows {
			binary.LittleEndian.PutUint16(buf[i*2:], row)
		}
		if err := os.WriteFile(*encodeOut, buf, 0o644); err != nil {
			return fmt.Errorf("encode: %s: %v", *encodeOut, err)
		}
		fmt.Printf("wrote %d OTP rows (%d bytes) to %s\n", len(rows), len(buf), *encodeOut)
	} else {
		for i, row := range rows {
			fmt.Printf("0x%03x: 0x%04x\n", 0x100+i, row)
		}
	}
	fmt.Printf("usb_boot_flags = 0x%08x\n", flags)
	fmt.Printf("\nwrite usb_boot_flags to OTP rows 0x059, 0x05a and 0x05b (triplicated),\n")
	fmt.Printf("and the OTP rows above starting at your chosen WHITE_LABEL_ADDR.\n")
	fmt.Printf("PROCEED WITH CAUTION: OTP writes on RP2350 are permanent.\n")
	return nil
}

func runDecode(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("decode: specify a single raw OTP row dump file")
	}
	if *bootFlags == "" {
		return fmt.Errorf("decode: -boot-flags is required")
	}
	flags, err := strconv.ParseUint(*bootFlags, 0, 32)
	if err != nil {
		return fmt.Errorf("decode: invalid -boot-flags %q: %v", *bootFlags, err)
	}

	path := args[0]
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("decode: %s: %v", path, err)
	}
	if len(raw)%2 != 0 {
		return fmt.Errorf("decode: %s: odd number of bytes, expected 16-bit rows", path)
	}
	rows := make([]uint16, len(raw)/2)
	for i := range rows {
		rows[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}

	desc, err := whitelabel.Decode(rows, uint32(flags))
	if err != nil {
		return fmt.Errorf("decode: %s: %v", path, err)
	}

	var out []byte
	switch *decodeFormat {
	case "json":
		out, err = whitelabel.ToJSON(desc)
	case "cbor":
		out, err = whitelabel.ToCBOR(desc)
	default:
		return fmt.Errorf("decode: unknown -format %q, want json or cbor", *decodeFormat)
	}
	if err != nil {
		return fmt.Errorf("decode: %s: %v", path, err)
	}

	if *decodeOut != "" {
		return os.WriteFile(*decodeOut, out, 0o644)
	}
	if *decodeFormat == "json" {
		out = append(out, '\n')
	}
	_, err = os.Stdout.Write(out)
	return err
}
