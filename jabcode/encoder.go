package jabcode

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jabcode/jabcode/bitstream"
	"github.com/jabcode/jabcode/encmode"
	"github.com/jabcode/jabcode/ldpc"
	"github.com/jabcode/jabcode/palette"
	"github.com/jabcode/jabcode/placement"
)

// Encoder builds a JABCode bitmap from a byte string (§4.5).
type Encoder struct {
	Config EncodeConfig
}

// NewEncoder validates colorNumber/symbolNumber and returns a ready Encoder
// with default options for everything else.
func NewEncoder(colorNumber, symbolNumber int) (*Encoder, error) {
	cfg := EncodeConfig{ColorNumber: colorNumber, SymbolNumber: symbolNumber}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{Config: cfg}, nil
}

// Generate runs the full encode pipeline (§4.5) and returns the rasterized
// bitmap along with the per-symbol state the synthetic decode path needs.
// Only a single master symbol is currently built; SymbolNumber > 1 is
// accepted by Validate but Generate returns ErrInvalidSymbolNumber until a
// docking layout is supplied (see DESIGN.md).
func (e *Encoder) Generate(data []byte) (*Bitmap, []*Symbol, error) {
	if err := e.Config.Validate(); err != nil {
		return nil, nil, err
	}
	if e.Config.SymbolNumber != 1 {
		return nil, nil, fmt.Errorf("%w: multi-symbol docking not implemented, got %d", ErrInvalidSymbolNumber, e.Config.SymbolNumber)
	}

	segments := encmode.Segmentize(data)
	w := bitstream.NewWriter()
	if err := encmode.EncodeSegments(w, segments); err != nil {
		return nil, nil, fmt.Errorf("jabcode: segmenting data: %w", err)
	}
	payload := w.Bits()

	sym, grid, err := e.buildMasterSymbol(payload)
	if err != nil {
		return nil, nil, err
	}

	bmp := Rasterize(grid, sym.Palette, e.Config.moduleSize())
	sym.Matrix = grid
	return bmp, []*Symbol{sym}, nil
}

// buildMasterSymbol grows the symbol version until the chosen ECC rate
// can carry payload, then lays out and masks the full module grid.
func (e *Encoder) buildMasterSymbol(payload []bool) (*Symbol, *placement.Grid, error) {
	nc := ncForColorNumber(e.Config.ColorNumber)
	bitsPerModule := nc + 1 // Nc = log2(N)-1, so log2(N) = Nc+1 bits/module

	forcedVX, forcedVY := e.Config.versionFor(0)

	startV, endV := placement.MinVersion, placement.MaxVersion
	if forcedVX != 0 {
		startV, endV = forcedVX, forcedVX
	}
	for v := startV; v <= endV; v++ {
		vx, vy := v, v
		if forcedVX != 0 {
			vx, vy = forcedVX, forcedVY
		}
		side, err := placement.SizeForVersion(vx)
		if err != nil {
			return nil, nil, err
		}
		sideY, err := placement.SizeForVersion(vy)
		if err != nil {
			return nil, nil, err
		}

		dataMap, err := placement.Build(side, sideY)
		if err != nil {
			if forcedVX != 0 {
				return nil, nil, err
			}
			continue
		}
		dataModules := countData(dataMap)
		capacity := dataModules * bitsPerModule

		eccLevel := e.Config.eccLevelFor(0)
		var eccIdx int
		var eccParam ldpc.ECCParam
		if eccLevel >= 0 {
			eccIdx = eccLevel
			eccParam = ldpc.ECCTable[eccLevel]
		} else {
			idx, p, ok := ldpc.BestECCFromTable(capacity, len(payload))
			if !ok {
				if forcedVX != 0 {
					return nil, nil, ErrDataTooLarge
				}
				continue
			}
			eccIdx, eccParam = idx, p
		}

		n, k := ldpc.CodeDims(capacity, eccParam.WC, eccParam.WR)
		if k < len(payload) {
			if forcedVX != 0 {
				return nil, nil, ErrDataTooLarge
			}
			continue
		}

		return e.layoutSymbol(side, sideY, vx, vy, eccIdx, eccParam, n, k, payload, dataMap)
	}

	return nil, nil, ErrDataTooLarge
}

func countData(d *placement.DataMap) int {
	n := 0
	for _, v := range d.Values {
		if v == 1 {
			n++
		}
	}
	return n
}

func (e *Encoder) layoutSymbol(width, height, versionX, versionY, eccIdx int, ecc ldpc.ECCParam, n, k int, payload []bool, dataMap *placement.DataMap) (*Symbol, *placement.Grid, error) {
	padded := make([]bool, k)
	copy(padded, payload)

	mat, err := ldpc.NewMatrix(n, k, ecc.WC, ecc.WR)
	if err != nil {
		return nil, nil, fmt.Errorf("jabcode: building data LDPC matrix: %w", err)
	}
	codeword, err := mat.Encode(padded)
	if err != nil {
		return nil, nil, fmt.Errorf("jabcode: LDPC-encoding data: %w", err)
	}

	grid := placement.NewGrid(width, height)
	bitsPerModule := ncForColorNumber(e.Config.ColorNumber) + 1
	writeBitsToScanOrder(grid, dataMap, e.Config.ColorNumber, codeword, bitsPerModule)

	pal, err := palette.Default(e.Config.ColorNumber)
	if err != nil {
		return nil, nil, err
	}

	for _, m := range placement.AllFinderModules(width, height) {
		grid.Set(m.X, m.Y, binaryToPaletteIndex(m.Ring == 1, e.Config.ColorNumber))
	}
	for _, m := range placement.AlignmentModules(width, height) {
		grid.Set(m.X, m.Y, binaryToPaletteIndex(m.Ring == 1, e.Config.ColorNumber))
	}

	maskIdx, _ := placement.BestMask(grid, dataMap)
	placement.ApplyMask(grid, dataMap, maskIdx)

	if err := e.writeMetadata(grid, dataMap, width, height, versionX, versionY, maskIdx, eccIdx); err != nil {
		return nil, nil, err
	}

	sym := &Symbol{
		Index:       0,
		Host:        -1,
		Slaves:      [4]int{-1, -1, -1, -1},
		Width:       width,
		Height:      height,
		ColorNumber: e.Config.ColorNumber,
		WC:          ecc.WC,
		WR:          ecc.WR,
		ECCLevel:    eccIdx,
		MaskType:    maskIdx,
		DefaultMode: true,
		Palette:     pal,
		DataMap:     dataMap,
	}
	return sym, grid, nil
}

func (e *Encoder) writeMetadata(grid *placement.Grid, dataMap *placement.DataMap, width, height, versionX, versionY, maskIdx, eccIdx int) error {
	nc := ncForColorNumber(e.Config.ColorNumber)
	part1Payload := []bool{nc&4 != 0, nc&2 != 0, nc&1 != 0}
	part1Coords, err := placement.Part1Coords(width, height)
	if err != nil {
		return err
	}
	part1Codeword, err := encodeMetadataPart(part1Payload, len(part1Coords))
	if err != nil {
		return err
	}
	for i, c := range part1Coords {
		grid.Set(c[0], c[1], binaryToPaletteIndex(part1Codeword[i], e.Config.ColorNumber))
	}

	part2Payload := packPart2(part2Fields{
		MaskIndex:       maskIdx,
		DefaultMode:     true,
		ECCIndex:        eccIdx,
		SideVersionX:    versionX - 1,
		SideVersionY:    versionY - 1,
		DockedSlaveMask: 0,
	})
	part2Coords, err := placement.Part2Coords(width, height)
	if err != nil {
		return err
	}
	part2Codeword, err := encodeMetadataPart(part2Payload, len(part2Coords))
	if err != nil {
		return err
	}
	for i, c := range part2Coords {
		grid.Set(c[0], c[1], binaryToPaletteIndex(part2Codeword[i], e.Config.ColorNumber))
	}
	return nil
}

// writeBitsToScanOrder places the first len(codeword) bits of codeword into
// grid's data cells, bitsPerModule at a time MSB-first, following the data
// map's scan order; any trailing scan cells beyond the codeword length are
// left at their zero-initialized value. When len(codeword) isn't a
// multiple of bitsPerModule, the final module holds fewer than
// bitsPerModule real bits; those are left-aligned (shifted up to the top of
// the module's value) so they land in the same bit positions the decoder's
// full-width, MSB-first read of that module produces before it truncates
// the flattened codeword back down to len(codeword).
func writeBitsToScanOrder(grid *placement.Grid, dataMap *placement.DataMap, colorNumber int, codeword []bool, bitsPerModule int) {
	order := placement.ScanOrder(dataMap, colorNumber)
	bitPos := 0
	for _, cell := range order {
		if bitPos >= len(codeword) {
			break
		}
		val := 0
		cnt := 0
		for cnt < bitsPerModule && bitPos < len(codeword) {
			val <<= 1
			if codeword[bitPos] {
				val |= 1
			}
			bitPos++
			cnt++
		}
		if cnt < bitsPerModule {
			val <<= uint(bitsPerModule - cnt)
		}
		grid.Set(cell[0], cell[1], val)
	}
}

// newTraceID mints a correlation id for one encode/decode invocation.
func newTraceID() string {
	return uuid.NewString()
}
