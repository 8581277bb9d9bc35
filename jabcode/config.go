package jabcode

import "fmt"

// ColorNumbers are the supported palette sizes. 256 is excluded: the
// spec's Non-goals name it as documented-broken upstream.
var ColorNumbers = map[int]bool{4: true, 8: true, 16: true, 32: true, 64: true, 128: true}

// EncodeConfig configures Encoder.Generate. All fields are optional except
// ColorNumber and SymbolNumber; zero values for the rest mean "auto".
type EncodeConfig struct {
	ColorNumber  int
	SymbolNumber int

	ModuleSize int // pixels per module edge; 0 defaults to 12

	// MasterWidth/MasterHeight are master-symbol pixel dimensions; 0 means
	// auto-size from SymbolVersions/data length.
	MasterWidth, MasterHeight int

	// SymbolVersions[i] = (versionX, versionY), master first then slaves;
	// a zero pair means "choose automatically".
	SymbolVersions [][2]int

	// SymbolPositions[i] is the docking side for slave i relative to its
	// host (ignored for the master, index 0). One of dockTop..dockRight.
	SymbolPositions []int

	// SymbolECCLevels[i] selects an ECC-table index (0..9) per symbol;
	// a negative value means "choose automatically via BestECCFromTable".
	SymbolECCLevels []int
}

const defaultModuleSize = 12

// Validate checks EncodeConfig for internally consistent, in-range values.
func (c *EncodeConfig) Validate() error {
	if !ColorNumbers[c.ColorNumber] {
		return fmt.Errorf("%w: %d", ErrInvalidColorNumber, c.ColorNumber)
	}
	if c.SymbolNumber < 1 || c.SymbolNumber > 61 {
		return fmt.Errorf("%w: %d", ErrInvalidSymbolNumber, c.SymbolNumber)
	}
	if c.ModuleSize < 0 {
		return fmt.Errorf("jabcode: module size must be >= 1, got %d", c.ModuleSize)
	}
	for _, v := range c.SymbolVersions {
		for _, axis := range v {
			if axis != 0 && (axis < 1 || axis > 32) {
				return fmt.Errorf("%w: %d", ErrVersionOutOfRange, axis)
			}
		}
	}
	for _, ecl := range c.SymbolECCLevels {
		if ecl >= 10 {
			return fmt.Errorf("%w: %d", ErrECCLevelOutOfRange, ecl)
		}
	}
	return nil
}

func (c *EncodeConfig) moduleSize() int {
	if c.ModuleSize == 0 {
		return defaultModuleSize
	}
	return c.ModuleSize
}

func (c *EncodeConfig) versionFor(i int) (int, int) {
	if i < len(c.SymbolVersions) {
		v := c.SymbolVersions[i]
		if v[0] != 0 && v[1] != 0 {
			return v[0], v[1]
		}
	}
	return 0, 0 // auto
}

func (c *EncodeConfig) eccLevelFor(i int) int {
	if i < len(c.SymbolECCLevels) {
		return c.SymbolECCLevels[i]
	}
	return -1
}

// NcThresholds configures the palette-size classifier knob used when Nc is
// not forced (§6 test knobs): black is the expected L* of the palette's
// black anchor, stddev sets the width of the luminance band inside which
// classifyBinary falls back to a full ΔE76 comparison.
type NcThresholds struct {
	Black  float64
	StdDev float64
}

// ClassifierMode selects the decoder's module-color classification
// strategy; both are correct, ClassifierLinear is useful for differential
// testing against ClassifierKDTree without introducing the tree's
// branch-and-bound logic as a variable.
type ClassifierMode int

const (
	ClassifierKDTree ClassifierMode = iota
	ClassifierLinear
)

// DecodeOptions configures Decoder.Decode / DecodeEx / DecodeSynthetic.
// Every test knob named in §6 is an explicit field here rather than a
// process-wide singleton (§5, §9): safe to use a fresh instance per
// concurrent call.
type DecodeOptions struct {
	Mode DecodeMode

	// ForceNc, when non-zero, skips Part-1 LDPC decode and uses this Nc
	// directly (color_number = 1 << (Nc+1)... see decoder.go for the exact
	// relationship). 0 means "read from the symbol".
	ForceNc int

	// ForceECC, when non-nil, skips Part-2's ecc_index field and uses this
	// (wc, wr) pair directly for the data LDPC decode.
	ForceECC *[2]int

	// ForceMask, when >= 0, skips Part-2's mask_index field and unmasks
	// with this pattern directly. -1 means "read from the symbol".
	ForceMask int

	// UseDefaultPaletteHighColor forces N>=16 decoding to use the
	// deterministic default palette instead of reading calibration cells.
	UseDefaultPaletteHighColor bool

	// MedianFilter applies a 3x3 median pre-filter to the sampled module
	// colors before classification (§4.6 step 1: "optionally apply a 3x3
	// median pre-filter for noise"). Off by default: on a clean bitmap this
	// blends across module color boundaries at module resolution and only
	// helps when the input samples are actually noisy (e.g. a real camera
	// capture upstream of this module's scope).
	MedianFilter bool

	AdaptiveCorrection bool

	NcThresholds NcThresholds

	ClassifierMode  ClassifierMode
	ClassifierDebug bool

	// TraceID correlates this call's diagnostics; a fresh uuid is minted
	// if left empty.
	TraceID string
}

// DefaultDecodeOptions returns the zero-knob configuration: NORMAL_DECODE,
// no forced values, adaptive correction on, k-d tree classifier.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Mode:               NormalDecode,
		ForceMask:          -1,
		AdaptiveCorrection: true,
		NcThresholds:       NcThresholds{Black: 0, StdDev: 25},
		ClassifierMode:     ClassifierKDTree,
	}
}

// Validate checks DecodeOptions for in-range values.
func (o *DecodeOptions) Validate() error {
	if o.ForceECC != nil {
		wc, wr := o.ForceECC[0], o.ForceECC[1]
		if wc < 1 || wr <= wc {
			return fmt.Errorf("jabcode: invalid forced ECC (wc=%d, wr=%d)", wc, wr)
		}
	}
	if o.ForceMask >= 8 {
		return fmt.Errorf("jabcode: forced mask %d out of range [0,8)", o.ForceMask)
	}
	return nil
}
