package jabcode

import (
	"bytes"
	"testing"
)

// synthesizeDecode runs DecodeSynthetic against the Symbol/Bitmap pair
// Generate just produced, the way a caller that already holds the encoder's
// output (no camera, no detection) is expected to.
func synthesizeDecode(t *testing.T, bmp *Bitmap, sym *Symbol, moduleSize int, opts DecodeOptions) ([]byte, int) {
	t.Helper()
	dec := NewDecoder()
	data, status, err := dec.DecodeSynthetic(bmp, sym.ColorNumber, sym.ECCLevel, moduleSize, sym.Width, sym.Height, sym.MaskType, sym.DataMap, sym.WC, sym.WR, sym.Palette, opts)
	if err != nil {
		t.Fatalf("DecodeSynthetic: %v", err)
	}
	return data, status
}

// Scenario 1 (§8): "Hello JABCode!", color_number=8, symbol_number=1,
// ecc_level=3, module_size=12, round-trips via the synthetic decode path.
func TestRoundTripScenario1(t *testing.T) {
	enc, err := NewEncoder(8, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.ModuleSize = 12
	enc.Config.SymbolECCLevels = []int{3}

	msg := []byte("Hello JABCode!")
	bmp, symbols, err := enc.Generate(msg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sym := symbols[0]

	data, status := synthesizeDecode(t, bmp, sym, 12, DefaultDecodeOptions())
	if status != StatusFullyDecoded {
		t.Fatalf("status = %d, want StatusFullyDecoded", status)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("round trip mismatch: got %q, want %q", data, msg)
	}
}

// Scenario 2 (§8): "A" with color_number=4, ecc_level=0 fits a v=1 (21x21)
// master symbol and round-trips.
func TestRoundTripScenario2SmallestVersion(t *testing.T) {
	enc, err := NewEncoder(4, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.SymbolECCLevels = []int{0}

	msg := []byte("A")
	bmp, symbols, err := enc.Generate(msg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sym := symbols[0]
	if sym.Width > 21 || sym.Height > 21 {
		t.Fatalf("expected a v=1 (<=21x21) symbol, got %dx%d", sym.Width, sym.Height)
	}

	data, status := synthesizeDecode(t, bmp, sym, enc.Config.moduleSize(), DefaultDecodeOptions())
	if status != StatusFullyDecoded {
		t.Fatalf("status = %d, want StatusFullyDecoded", status)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("round trip mismatch: got %q, want %q", data, msg)
	}
}

// Scenario 4 (§8): a 900-byte message at color_number=64, ecc_level=5,
// module_size=12 round-trips.
func TestRoundTripScenario4LargeMessage(t *testing.T) {
	enc, err := NewEncoder(64, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.ModuleSize = 12
	enc.Config.SymbolECCLevels = []int{5}

	msg := make([]byte, 900)
	for i := range msg {
		msg[i] = byte('a' + i%26)
	}

	bmp, symbols, err := enc.Generate(msg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sym := symbols[0]

	data, status := synthesizeDecode(t, bmp, sym, 12, DefaultDecodeOptions())
	if status != StatusFullyDecoded {
		t.Fatalf("status = %d, want StatusFullyDecoded", status)
	}
	if !bytes.Equal(data, msg) {
		t.Fatalf("round trip mismatch: got %d bytes, want %d bytes", len(data), len(msg))
	}
}

// Scenario 6 (§8): the mask index the encoder chose round-trips through
// Part-2 and is recovered via DecodeEx. The encoder has no mask-forcing
// option; it always applies the lowest-penalty mask from BestMask.
func TestRoundTripScenario6MaskIndex(t *testing.T) {
	enc, err := NewEncoder(8, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.SymbolECCLevels = []int{2}

	msg := []byte("force the mask")
	bmp, symbols, err := enc.Generate(msg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sym := symbols[0]

	opts := DefaultDecodeOptions()
	ds, err := decodeExFromSymbol(bmp, sym, enc.Config.moduleSize(), opts)
	if err != nil {
		t.Fatalf("DecodeEx: %v", err)
	}
	if ds.MaskType != sym.MaskType {
		t.Fatalf("recovered mask_index = %d, want %d", ds.MaskType, sym.MaskType)
	}
}

func decodeExFromSymbol(bmp *Bitmap, sym *Symbol, moduleSize int, opts DecodeOptions) (*DecodedSymbol, error) {
	dec := NewDecoder()
	_, ds, _, err := dec.DecodeEx(bmp, sym.Width, sym.Height, moduleSize, opts)
	return ds, err
}

// TestDecodeOptionsMedianFilterOffByDefault checks §4.6 step 1's "optional"
// pre-filter defaults off (DefaultDecodeOptions), and that DecodeEx still
// round-trips when a caller opts in on a clean (synthetic) bitmap.
func TestDecodeOptionsMedianFilterOffByDefault(t *testing.T) {
	if DefaultDecodeOptions().MedianFilter {
		t.Fatal("DefaultDecodeOptions().MedianFilter = true, want false")
	}

	enc, err := NewEncoder(8, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.SymbolECCLevels = []int{3}

	msg := []byte("median filter opt-in")
	bmp, symbols, err := enc.Generate(msg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	sym := symbols[0]

	opts := DefaultDecodeOptions()
	opts.MedianFilter = true
	dec := NewDecoder()
	data, status, err := dec.Decode(bmp, sym.Width, sym.Height, enc.Config.moduleSize(), opts)
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

func TestGenerateRejectsMultiSymbol(t *testing.T) {
	enc, err := NewEncoder(8, 2)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	if _, _, err := enc.Generate([]byte("x")); err == nil {
		t.Fatal("expected ErrInvalidSymbolNumber for symbol_number=2")
	}
}

func TestGenerateRejectsDataTooLargeForForcedVersion(t *testing.T) {
	enc, err := NewEncoder(4, 1)
	if err != nil {
		t.Fatalf("NewEncoder: %v", err)
	}
	enc.Config.SymbolVersions = [][2]int{{1, 1}}
	enc.Config.SymbolECCLevels = []int{9} // heaviest protection, least payload

	big := make([]byte, 2000)
	if _, _, err := enc.Generate(big); err == nil {
		t.Fatal("expected ErrDataTooLarge for oversized payload at a forced v=1")
	}
}
