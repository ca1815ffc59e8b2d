package whitelabel

import (
	"encoding/json"
	"testing"
)

func TestFromJSONParsesNestedShape(t *testing.T) {
	doc := []byte(`{
		"device": {"vid": "0x2E8A", "pid": "0x000F", "bcd": 1.0, "lang_id": "0x0409", "manufacturer": "Raspberry Pi"},
		"scsi": {"vendor": "RPI", "product": "RP2350", "version": "1"},
		"volume": {"label": "RP2350"}
	}`)
	s, err := FromJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	if s.VendorID == nil || *s.VendorID != 0x2E8A {
		t.Errorf("vid = %v, want 0x2E8A", s.VendorID)
	}
	if s.ProductID == nil || *s.ProductID != 0x000F {
		t.Errorf("pid = %v, want 0x000F", s.ProductID)
	}
	if s.BCDDevice == nil || *s.BCDDevice != 0x0100 {
		t.Errorf("bcd = %v, want 0x0100", s.BCDDevice)
	}
	if s.LanguageID == nil || *s.LanguageID != 0x0409 {
		t.Errorf("lang_id = %v, want 0x0409", s.LanguageID)
	}
	if !equalStrPtr(s.Manufacturer, strp("Raspberry Pi")) {
		t.Errorf("manufacturer = %v", s.Manufacturer)
	}
	if !equalStrPtr(s.SCSIVendor, strp("RPI")) || !equalStrPtr(s.SCSIProduct, strp("RP2350")) || !equalStrPtr(s.SCSIVersion, strp("1")) {
		t.Errorf("scsi fields did not parse: vendor=%v product=%v version=%v", s.SCSIVendor, s.SCSIProduct, s.SCSIVersion)
	}
	if !equalStrPtr(s.VolumeLabel, strp("RP2350")) {
		t.Errorf("volume.label = %v", s.VolumeLabel)
	}
}

func TestFromJSONRejectsMalformedHex(t *testing.T) {
	doc := []byte(`{"device": {"vid": "2E8A"}}`)
	if _, err := FromJSON(doc); err == nil {
		t.Fatal("expected error for hex field missing 0x prefix")
	}
	doc = []byte(`{"device": {"vid": "0x2E8A5"}}`)
	if _, err := FromJSON(doc); err == nil {
		t.Fatal("expected error for hex field with too many digits")
	}
}

func TestFromJSONRejectsMalformedStructure(t *testing.T) {
	if _, err := FromJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected InvalidJSONError")
	} else if _, ok := err.(*InvalidJSONError); !ok {
		t.Fatalf("got %T, want *InvalidJSONError", err)
	}
}

func TestAttrPowerDefaultPairing(t *testing.T) {
	// Only attributes given: max_power defaults to 0xFA.
	doc := []byte(`{"device": {"attributes": "0x80"}}`)
	s, err := FromJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	if s.AttrPower == nil || *s.AttrPower != 0xFA80 {
		t.Errorf("attr_power = %v, want 0xFA80", s.AttrPower)
	}

	// Only max_power given: attributes defaults to 0x80.
	doc = []byte(`{"device": {"max_power": "0x32"}}`)
	s, err = FromJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	if s.AttrPower == nil || *s.AttrPower != 0x3280 {
		t.Errorf("attr_power = %v, want 0x3280", s.AttrPower)
	}
}

func TestBCDFloatRoundTrip(t *testing.T) {
	cases := []float64{0, 1, 1.23, 99.99, 2.5}
	for _, v := range cases {
		packed, err := bcdFromFloat(IndexUSBBCDDevice, v)
		if err != nil {
			t.Fatalf("bcdFromFloat(%v): %v", v, err)
		}
		got := bcdToFloat(packed)
		if got != v {
			t.Errorf("bcdFromFloat/bcdToFloat round trip: %v -> 0x%04X -> %v", v, packed, got)
		}
	}
}

func TestBCDFloatRejectsOutOfRange(t *testing.T) {
	if _, err := bcdFromFloat(IndexUSBBCDDevice, 100.0); err == nil {
		t.Fatal("expected error for bcd value >= 100")
	}
	if _, err := bcdFromFloat(IndexUSBBCDDevice, -1.0); err == nil {
		t.Fatal("expected error for negative bcd value")
	}
}

func TestToJSONOmitsAbsentFields(t *testing.T) {
	s := &Struct{Manufacturer: strp("A")}
	out, err := ToJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	var doc jsonDocument
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.SCSI != nil || doc.Volume != nil {
		t.Errorf("expected scsi and volume to be omitted entirely, got %+v", doc)
	}
	if doc.Device == nil || doc.Device.Manufacturer == nil || *doc.Device.Manufacturer != "A" {
		t.Errorf("device.manufacturer not preserved: %+v", doc.Device)
	}
	if doc.Device.VID != nil {
		t.Errorf("vid should be absent, got %v", *doc.Device.VID)
	}
}

func TestToCBORFromCBORRoundTrip(t *testing.T) {
	s := &Struct{
		Manufacturer: strp("Raspberry Pi"),
		AttrPower:    u16p(0xFA80),
		UF2BoardID:   strp("RPI-RP2"),
	}
	data, err := ToCBOR(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromCBOR(data)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStructs(s, got) {
		t.Errorf("ToCBOR/FromCBOR round trip mismatch: got %+v, want %+v", got, s)
	}
}

func TestFromJSONToJSONRoundTrip(t *testing.T) {
	s := &Struct{
		VendorID:     u16p(0x2E8A),
		BCDDevice:    u16p(0x0234),
		Manufacturer: strp("Raspberry Pi"),
		AttrPower:    u16p(0xFA80),
		VolumeLabel:  strp("RP2350"),
		RedirectURL:  strp("https://rptl.io/rp2350-usb-wl"),
	}
	text, err := ToJSON(s)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FromJSON(text)
	if err != nil {
		t.Fatal(err)
	}
	if !equalStructs(s, got) {
		t.Errorf("FromJSON(ToJSON(s)) mismatch: got %+v, want %+v", got, s)
	}
}
