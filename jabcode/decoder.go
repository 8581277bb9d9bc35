package jabcode

import (
	"fmt"

	"github.com/jabcode/jabcode/bitstream"
	"github.com/jabcode/jabcode/encmode"
	"github.com/jabcode/jabcode/internal/tracelog"
	"github.com/jabcode/jabcode/jabcolor"
	"github.com/jabcode/jabcode/kdtree"
	"github.com/jabcode/jabcode/ldpc"
	"github.com/jabcode/jabcode/palette"
	"github.com/jabcode/jabcode/placement"
)

// Decoder recovers a byte string from a JABCode bitmap (§4.6). True
// camera-image pattern detection and perspective rectification are outside
// this module's scope (§1 Non-goals); Decode/DecodeEx therefore require the
// caller to supply the symbol's pixel geometry (module size and side
// sizes), which a detector module would otherwise infer. DecodeSynthetic is
// the fully specified, detector-free path (§4.8).
type Decoder struct{}

// NewDecoder returns a ready Decoder; it holds no state between calls.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode samples bmp at the given geometry, recovers Part-1/Part-2
// metadata, classifies data modules, and parses the bitstream.
func (d *Decoder) Decode(bmp *Bitmap, width, height, moduleSize int, opts DecodeOptions) ([]byte, int, error) {
	data, _, status, err := d.DecodeEx(bmp, width, height, moduleSize, opts)
	return data, status, err
}

// DecodeEx is Decode plus a DecodedSymbol record carrying the recovered
// geometry/metadata, tagged with the call's trace id.
func (d *Decoder) DecodeEx(bmp *Bitmap, width, height, moduleSize int, opts DecodeOptions) ([]byte, *DecodedSymbol, int, error) {
	traceID := opts.TraceID
	if traceID == "" {
		traceID = newTraceID()
	}

	samples := SampleModuleCenters(bmp, width, height, moduleSize)
	if opts.MedianFilter {
		samples = MedianFilter(samples)
	}

	dataMap, err := placement.Build(width, height)
	if err != nil {
		return nil, nil, StatusNotDetectable, fmt.Errorf("%w: %v", ErrNotDetectable, err)
	}

	colorNumber, pal, maskIdx, eccParam, eccIdx, versionX, versionY, err := d.readMetadata(samples, width, height, dataMap, opts)
	if err != nil {
		return nil, nil, StatusNotDecodable, err
	}

	var tracer *tracelog.Tracer
	if opts.ClassifierDebug {
		tracer = tracelog.New(0)
	}
	data, status, err := d.decodeDataTraced(samples, dataMap, colorNumber, pal, maskIdx, eccParam, opts, tracer)
	ds := &DecodedSymbol{
		Index:           0,
		Width:           width,
		Height:          height,
		VersionX:        versionX,
		VersionY:        versionY,
		ColorNumber:     colorNumber,
		WC:              eccParam.WC,
		WR:              eccParam.WR,
		ECCIndex:        eccIdx,
		MaskType:        maskIdx,
		Status:          status,
		TraceID:         traceID,
		ClassifierTrace: tracer.Entries(),
	}
	return data, ds, status, err
}

// readMetadata recovers Part-1 (color number) then Part-2 (mask, ECC,
// versions) by classifying the fixed metadata-ring cells against the two
// palette anchor colors (black/white), which are invariant regardless of
// color_number, so Part-1 is always readable before the palette size is
// known.
func (d *Decoder) readMetadata(samples [][]jabcolor.RGB, width, height int, dataMap *placement.DataMap, opts DecodeOptions) (colorNumber int, pal []jabcolor.RGB, maskIdx int, eccParam ldpc.ECCParam, eccIdx, versionX, versionY int, err error) {
	part1Coords, err := placement.Part1Coords(width, height)
	if err != nil {
		return
	}
	part1Bits := make([]bool, len(part1Coords))
	for i, c := range part1Coords {
		part1Bits[i] = classifyBinary(samples[c[1]][c[0]], opts.NcThresholds)
	}

	var nc int
	if opts.ForceNc != 0 {
		nc = opts.ForceNc
	} else {
		res, derr := decodeMetadataPart(part1Bits, placement.Part1Bits)
		if derr != nil {
			err = fmt.Errorf("jabcode: decoding Part-1 metadata: %w", derr)
			return
		}
		if res.Residual {
			err = fmt.Errorf("%w: Part-1 LDPC residual", ErrLDPCResidual)
			return
		}
		nc = 0
		for _, b := range res.Data {
			nc <<= 1
			if b {
				nc |= 1
			}
		}
	}
	colorNumber = colorNumberForNc(nc)
	if !ColorNumbers[colorNumber] {
		err = fmt.Errorf("%w: decoded Nc implies color number %d", ErrInvalidColorNumber, colorNumber)
		return
	}

	pal, perr := palette.Default(colorNumber)
	if perr != nil {
		err = perr
		return
	}

	part2Coords, perr2 := placement.Part2Coords(width, height)
	if perr2 != nil {
		err = perr2
		return
	}
	part2Bits := make([]bool, len(part2Coords))
	for i, c := range part2Coords {
		part2Bits[i] = classifyBinary(samples[c[1]][c[0]], opts.NcThresholds)
	}
	res2, derr := decodeMetadataPart(part2Bits, placement.Part2Bits())
	if derr != nil {
		err = fmt.Errorf("jabcode: decoding Part-2 metadata: %w", derr)
		return
	}
	if res2.Residual && opts.Mode == NormalDecode {
		err = fmt.Errorf("%w: Part-2 LDPC residual", ErrLDPCResidual)
		return
	}
	fields, perr3 := unpackPart2(res2.Data)
	if perr3 != nil {
		err = perr3
		return
	}

	maskIdx = fields.MaskIndex
	if opts.ForceMask >= 0 {
		maskIdx = opts.ForceMask
	}
	eccIdx = fields.ECCIndex
	eccParam = ldpc.ECCTable[eccIdx]
	if opts.ForceECC != nil {
		eccParam = ldpc.ECCParam{WC: opts.ForceECC[0], WR: opts.ForceECC[1]}
	}
	versionX = fields.SideVersionX + 1
	versionY = fields.SideVersionY + 1
	return
}

// classifyBinary reports whether an observed color is closer to white
// (index N-1) than black (index 0). With thresholds.StdDev > 0, a cheap
// luminance-only check decides first: L* above Black+2*StdDev is white and
// L* below Black is black. Samples in between, or any sample when StdDev is
// 0, are decided by the full ΔE76 comparison against both anchors (§6
// "NcThresholds (black, stddev)" test knob).
func classifyBinary(c jabcolor.RGB, thresholds NcThresholds) bool {
	lab := jabcolor.RGBToLAB(c)
	if thresholds.StdDev > 0 {
		mid := thresholds.Black + thresholds.StdDev
		if lab.L > mid+thresholds.StdDev {
			return true
		}
		if lab.L < mid-thresholds.StdDev {
			return false
		}
	}
	black := jabcolor.LAB{}
	white := jabcolor.RGBToLAB(jabcolor.RGB{R: 255, G: 255, B: 255})
	return jabcolor.DeltaE76(lab, white) < jabcolor.DeltaE76(lab, black)
}

// decodeData classifies every data module against pal (optionally running
// adaptive correction), unmasks, flattens to a bitstream, LDPC-decodes, and
// parses the mode segments.
func (d *Decoder) decodeData(samples [][]jabcolor.RGB, dataMap *placement.DataMap, colorNumber int, pal []jabcolor.RGB, maskIdx int, ecc ldpc.ECCParam, opts DecodeOptions) ([]byte, int, error) {
	return d.decodeDataTraced(samples, dataMap, colorNumber, pal, maskIdx, ecc, opts, nil)
}

// classify picks the palette index nearest an observed LAB color under the
// options' classifier mode: the k-d tree (the production path) or a plain
// linear ΔE76 scan (§6 classifierMode knob, useful for differential
// testing against the tree without the tree's branch-and-bound logic as a
// variable; kdtree.Nearest and jabcolor.NearestLAB are contractually
// required to agree for every query, §8).
func classify(mode ClassifierMode, tree *kdtree.Tree, palLAB []jabcolor.LAB, lab jabcolor.LAB) int {
	if mode == ClassifierLinear {
		return jabcolor.NearestLAB(lab, palLAB)
	}
	return tree.Nearest(lab)
}

func (d *Decoder) decodeDataTraced(samples [][]jabcolor.RGB, dataMap *placement.DataMap, colorNumber int, pal []jabcolor.RGB, maskIdx int, ecc ldpc.ECCParam, opts DecodeOptions, tracer *tracelog.Tracer) ([]byte, int, error) {
	palLAB := palette.ToLAB(pal)
	tree := kdtree.Build(palLAB)

	order := placement.ScanOrder(dataMap, colorNumber)
	indices := make(map[[2]int]int, len(order))
	var observations []palette.Observation

	for _, cell := range order {
		rgb := samples[cell[1]][cell[0]]
		lab := jabcolor.RGBToLAB(rgb)
		idx := classify(opts.ClassifierMode, tree, palLAB, lab)
		indices[cell] = idx

		d1 := jabcolor.DeltaE76(lab, palLAB[idx])
		d2 := secondNearestDistance(lab, palLAB, idx)
		confidence := 0.0
		if d2 > 0 {
			confidence = 1 - d1/d2
		}
		tracer.Record("module (%d,%d): rgb=%+v -> index=%d confidence=%.3f", cell[0], cell[1], rgb, idx, confidence)
		if d2 >= 0 && d2 < 1.0 {
			tracer.Record("module (%d,%d): palette ambiguity, nearest two colors within deltaE 1", cell[0], cell[1])
		}

		if opts.AdaptiveCorrection {
			observations = append(observations, palette.Observation{Observed: rgb, PaletteIndex: idx, Confidence: confidence})
		}
	}

	if opts.AdaptiveCorrection && len(observations) > 0 {
		corrections := palette.AnalyzeDistribution(observations, pal)
		correctedPal := palette.Apply(pal, corrections)
		correctedLAB := palette.ToLAB(correctedPal)
		correctedTree := kdtree.Build(correctedLAB)
		for _, cell := range order {
			lab := jabcolor.RGBToLAB(samples[cell[1]][cell[0]])
			indices[cell] = classify(opts.ClassifierMode, correctedTree, correctedLAB, lab)
		}
	}

	// Unmask: XOR the same mask bit back out.
	bitsPerModule := ncForColorNumber(colorNumber) + 1
	codeword := make([]bool, 0, len(order)*bitsPerModule)
	for _, cell := range order {
		idx := indices[cell] ^ placement.Mask(maskIdx, cell[0], cell[1])
		for b := bitsPerModule - 1; b >= 0; b-- {
			codeword = append(codeword, (idx>>uint(b))&1 == 1)
		}
	}

	dataModules := len(order)
	capacity := dataModules * bitsPerModule
	n, k := ldpc.CodeDims(capacity, ecc.WC, ecc.WR)
	if n > len(codeword) {
		return nil, StatusNotDecodable, fmt.Errorf("%w: codeword shorter than expected", ErrBitstreamParse)
	}
	codeword = codeword[:n]

	mat, err := ldpc.NewMatrix(n, k, ecc.WC, ecc.WR)
	if err != nil {
		return nil, StatusNotDecodable, fmt.Errorf("jabcode: building data LDPC matrix: %w", err)
	}
	res := mat.Decode(codeword)
	status := StatusFullyDecoded
	if res.Residual {
		if opts.Mode == CompatibleDecode {
			status = StatusPartlyDecoded
		} else {
			return nil, StatusNotDecodable, ErrLDPCResidual
		}
	}

	r := bitstream.NewReaderFromBits(res.Data)
	segments, perr := encmode.DecodeSegments(r)
	if perr != nil {
		if status == StatusFullyDecoded {
			return nil, StatusNotDecodable, fmt.Errorf("%w: %v", ErrBitstreamParse, perr)
		}
	}
	return encmode.Bytes(segments), status, nil
}

// secondNearestDistance computes ΔE76 to the closest palette entry other
// than excludeIdx, by linear scan (the k-d tree reports only the single
// nearest index, so confidence's "distance to second-best" is computed
// directly).
func secondNearestDistance(lab jabcolor.LAB, pal []jabcolor.LAB, excludeIdx int) float64 {
	best := -1.0
	for i, c := range pal {
		if i == excludeIdx {
			continue
		}
		dist := jabcolor.DeltaE76(lab, c)
		if best < 0 || dist < best {
			best = dist
		}
	}
	return best
}
