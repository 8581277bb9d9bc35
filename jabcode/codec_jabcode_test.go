package jabcode

import (
	"bytes"
	"testing"
)

func TestJABCodecRegistryRoundTrip(t *testing.T) {
	cfg := EncodeConfig{
		ColorNumber:     8,
		SymbolNumber:    1,
		ModuleSize:      12,
		SymbolVersions:  [][2]int{{1, 1}},
		SymbolECCLevels: []int{0},
	}
	codec, err := NewJABCodec(cfg)
	if err != nil {
		t.Fatalf("NewJABCodec: %v", err)
	}

	reg := &Registry{codecs: make(map[string]Codec)}
	reg.Register(codec)

	byName, err := reg.Get("jabcode")
	if err != nil {
		t.Fatalf("Get by name: %v", err)
	}
	byUID, err := reg.Get(codec.UID())
	if err != nil {
		t.Fatalf("Get by UID: %v", err)
	}
	if byName != byUID {
		t.Fatal("name and UID lookups returned different codecs")
	}

	msg := []byte("J")
	bmp, err := byName.Encode(msg, cfg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	data, status, err := byName.Decode(bmp, DefaultDecodeOptions())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if status != StatusFullyDecoded {
		t.Fatalf("status = %d, want StatusFullyDecoded", status)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("round trip mismatch: got %q, want %q", data, msg)
	}
}

func TestRegistryGetUnknown(t *testing.T) {
	reg := &Registry{codecs: make(map[string]Codec)}
	if _, err := reg.Get("nope"); err != ErrCodecNotFound {
		t.Fatalf("Get unknown: err = %v, want ErrCodecNotFound", err)
	}
}
