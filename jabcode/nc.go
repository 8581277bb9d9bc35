package jabcode

import "math/bits"

// ncForColorNumber returns Nc = log2(color_number) - 1, the 3-bit Part-1
// metadata field (GLOSSARY: "source encodes Nc = log2(N)-1").
func ncForColorNumber(n int) int {
	return bits.Len(uint(n)) - 2
}

// colorNumberForNc inverts ncForColorNumber: N = 2^(Nc+1).
func colorNumberForNc(nc int) int {
	return 1 << uint(nc+1)
}
