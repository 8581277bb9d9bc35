package jabcode

import (
	"testing"

	"github.com/jabcode/jabcode/placement"
)

// readBitsFromScanOrder mirrors decodeDataTraced's flattening step: read
// every data module at its full bitsPerModule width, MSB-first, then
// truncate to n bits. It's the decode-side inverse writeBitsToScanOrder
// must agree with, without involving masking/LDPC/classification.
func readBitsFromScanOrder(grid *placement.Grid, dataMap *placement.DataMap, colorNumber int, n, bitsPerModule int) []bool {
	order := placement.ScanOrder(dataMap, colorNumber)
	bits := make([]bool, 0, len(order)*bitsPerModule)
	for _, cell := range order {
		v := grid.At(cell[0], cell[1])
		for b := bitsPerModule - 1; b >= 0; b-- {
			bits = append(bits, (v>>uint(b))&1 == 1)
		}
	}
	if n > len(bits) {
		n = len(bits)
	}
	return bits[:n]
}

// TestWriteBitsToScanOrderPartialFinalModule exercises the case flagged in
// review: a codeword length that is NOT a multiple of bitsPerModule, so the
// final touched module carries fewer than bitsPerModule real bits. Every
// bit of the codeword, including the ones in that partial final module,
// must survive the encode->decode round trip, not just the bits that
// happen to land in whole modules.
func TestWriteBitsToScanOrderPartialFinalModule(t *testing.T) {
	side, err := placement.SizeForVersion(5)
	if err != nil {
		t.Fatalf("SizeForVersion: %v", err)
	}
	dataMap, err := placement.Build(side, side)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	const colorNumber = 64
	bitsPerModule := ncForColorNumber(colorNumber) + 1 // 6

	order := placement.ScanOrder(dataMap, colorNumber)
	dataModules := len(order)
	capacity := dataModules * bitsPerModule

	for _, r := range []int{1, 2, 3, 4, 5} { // every possible non-zero remainder for bpm=6
		n := ((capacity/bitsPerModule)-1)*bitsPerModule + r
		if n <= 0 || n > capacity {
			continue
		}

		codeword := make([]bool, n)
		for i := range codeword {
			codeword[i] = (i*7+3)%5 < 2 // an arbitrary, non-trivial bit pattern
		}

		grid := placement.NewGrid(side, side)
		writeBitsToScanOrder(grid, dataMap, colorNumber, codeword, bitsPerModule)

		got := readBitsFromScanOrder(grid, dataMap, colorNumber, n, bitsPerModule)
		if len(got) != len(codeword) {
			t.Fatalf("remainder=%d: got %d bits back, want %d", r, len(got), len(codeword))
		}
		for i := range codeword {
			if got[i] != codeword[i] {
				t.Fatalf("remainder=%d: bit %d mismatch: got %v, want %v (n=%d, capacity=%d)", r, i, got[i], codeword[i], n, capacity)
			}
		}
	}
}
