package jabcode

import (
	"github.com/jabcode/jabcode/bitstream"
	"github.com/jabcode/jabcode/ldpc"
	"github.com/jabcode/jabcode/placement"
)

// part2Fields mirrors placement.Part2Fields values for a single symbol.
type part2Fields struct {
	MaskIndex       int
	DefaultMode     bool
	ECCIndex        int
	SideVersionX    int // stored as version-1
	SideVersionY    int
	DockedSlaveMask int
}

func packPart2(f part2Fields) []bool {
	w := bitstream.NewWriter()
	w.WriteBits(uint64(f.MaskIndex), 3)
	if f.DefaultMode {
		w.WriteBits(1, 1)
	} else {
		w.WriteBits(0, 1)
	}
	w.WriteBits(uint64(f.ECCIndex), 4)
	w.WriteBits(uint64(f.SideVersionX), 5)
	w.WriteBits(uint64(f.SideVersionY), 5)
	w.WriteBits(uint64(f.DockedSlaveMask), 4)
	return w.Bits()
}

func unpackPart2(bits []bool) (part2Fields, error) {
	r := bitstream.NewReaderFromBits(bits)
	var f part2Fields
	maskIdx, err := r.ReadBits(3)
	if err != nil {
		return f, err
	}
	defaultMode, err := r.ReadBits(1)
	if err != nil {
		return f, err
	}
	eccIdx, err := r.ReadBits(4)
	if err != nil {
		return f, err
	}
	svx, err := r.ReadBits(5)
	if err != nil {
		return f, err
	}
	svy, err := r.ReadBits(5)
	if err != nil {
		return f, err
	}
	dsm, err := r.ReadBits(4)
	if err != nil {
		return f, err
	}
	f.MaskIndex = int(maskIdx)
	f.DefaultMode = defaultMode == 1
	f.ECCIndex = int(eccIdx)
	f.SideVersionX = int(svx)
	f.SideVersionY = int(svy)
	f.DockedSlaveMask = int(dsm)
	return f, nil
}

// encodeMetadataPart LDPC-encodes payload (a Part-1 or Part-2 bit
// sequence) under the fixed metadata ECC rate, sized to exactly fill
// numCells module positions.
func encodeMetadataPart(payload []bool, numCells int) ([]bool, error) {
	mat, err := ldpc.NewMatrix(numCells, len(payload), placement.MetadataWC, placement.MetadataWR)
	if err != nil {
		return nil, err
	}
	return mat.Encode(payload)
}

// decodeMetadataPart LDPC-decodes a Part-1 or Part-2 codeword sampled from
// numCells module positions back to its k-bit payload.
func decodeMetadataPart(codeword []bool, k int) (ldpc.Result, error) {
	mat, err := ldpc.NewMatrix(len(codeword), k, placement.MetadataWC, placement.MetadataWR)
	if err != nil {
		return ldpc.Result{}, err
	}
	return mat.Decode(codeword), nil
}

// binaryToPaletteIndex maps a metadata/finder/alignment bit to a palette
// anchor index: 0 -> black (index 0), 1 -> white (index colorNumber-1).
func binaryToPaletteIndex(bit bool, colorNumber int) int {
	if bit {
		return colorNumber - 1
	}
	return 0
}

// paletteIndexToBinary inverts binaryToPaletteIndex for classification
// against the two anchor colors only (index 0 vs index colorNumber-1).
func paletteIndexToBinary(idx, colorNumber int) bool {
	return idx == colorNumber-1
}
