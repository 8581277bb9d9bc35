package placement

import "fmt"

// Part1Bits is the width of the always-present metadata block: Nc, the
// palette size exponent (log2(color_number)-1).
const Part1Bits = 3

// Part2Fields enumerates the bit widths of the Part-2 metadata block, in
// the order they are packed (MSB-first) before LDPC protection.
var Part2Fields = []struct {
	Name string
	Bits int
}{
	{"mask_index", 3},
	{"default_mode", 1},
	{"ecc_index", 4}, // index into the 10-entry ECC table, ceil(log2(10))
	{"side_version_x", 5},
	{"side_version_y", 5},
	{"docked_slave_mask", 4},
}

// Part2Bits is the total payload width of Part-2 before LDPC protection.
func Part2Bits() int {
	n := 0
	for _, f := range Part2Fields {
		n += f.Bits
	}
	return n
}

// MetadataWC and MetadataWR are the fixed (wc, wr) LDPC pair protecting both
// metadata parts. Unlike the data region's ECC level (which is chosen per
// symbol and itself recorded in Part-2), the metadata ECC parameters are
// frozen so a decoder can LDPC-decode Part-1 before it knows anything else
// about the symbol.
const (
	MetadataWC = 3
	MetadataWR = 5
)

// metadataRingPath walks successive L-shaped rings hugging FP0, in reading
// order: for each distance d = FinderSize, FinderSize+1, ... from FP0's
// corner, down the column at x=d then rightward along the row at y=d. This
// is the "documented order" the spec requires for Part-1/Part-2 placement;
// rings closest to FP0 are favored first (Part-1 lands in the first ring),
// and the walk keeps emitting further rings until need cells have been
// collected or the symbol is exhausted.
func metadataRingPath(width, height, need int) [][2]int {
	var path [][2]int
	limit := width
	if height < limit {
		limit = height
	}
	for d := FinderSize; d < limit && len(path) < need; d++ {
		for y := 0; y < height; y++ {
			if y == d {
				continue
			}
			path = append(path, [2]int{d, y})
		}
		for x := d + 1; x < width; x++ {
			path = append(path, [2]int{x, d})
		}
	}
	return path
}

// filterReserved drops any coordinate in path that overlaps a finder or
// alignment pattern, preserving order.
func filterReserved(path [][2]int, width, height int) [][2]int {
	reserved := make(map[[2]int]bool)
	for _, m := range AllFinderModules(width, height) {
		reserved[[2]int{m.X, m.Y}] = true
	}
	for _, m := range AlignmentModules(width, height) {
		reserved[[2]int{m.X, m.Y}] = true
	}
	out := path[:0:0]
	for _, p := range path {
		if !reserved[p] {
			out = append(out, p)
		}
	}
	return out
}

// Part1Coords returns the fixed module coordinates Part-1's LDPC codeword
// occupies, for a width x height symbol.
func Part1Coords(width, height int) ([][2]int, error) {
	n, _ := part1CodeLen()
	n2, _ := part2CodeLen()
	path := metadataPath(width, height, n+n2)
	if len(path) < n {
		return nil, fmt.Errorf("placement: symbol too small to hold Part-1 metadata (need %d cells, have %d)", n, len(path))
	}
	return path[:n], nil
}

// Part2Coords returns the fixed module coordinates Part-2's LDPC codeword
// occupies, immediately following Part-1's cells along the same ring path.
func Part2Coords(width, height int) ([][2]int, error) {
	n1, _ := part1CodeLen()
	n2, _ := part2CodeLen()
	path := metadataPath(width, height, n1+n2)
	if len(path) < n1+n2 {
		return nil, fmt.Errorf("placement: symbol too small to hold Part-2 metadata (need %d cells, have %d)", n1+n2, len(path))
	}
	return path[n1 : n1+n2], nil
}

// metadataPath generates rings, filtering out finder/alignment overlap, until
// at least need cells survive or the whole ring walk is exhausted. Each
// retry asks metadataRingPath for more raw cells than the last, so the loop
// terminates once raw stops growing (the symbol has no more ring cells to
// offer).
func metadataPath(width, height, need int) [][2]int {
	ask := need * 2
	raw := metadataRingPath(width, height, ask)
	path := filterReserved(raw, width, height)
	for len(path) < need {
		prevLen := len(raw)
		ask += need
		raw = metadataRingPath(width, height, ask)
		if len(raw) == prevLen {
			break
		}
		path = filterReserved(raw, width, height)
	}
	return path
}

// part1CodeLen and part2CodeLen compute the LDPC codeword length for each
// metadata part under the fixed MetadataWC/MetadataWR rate, rounding up to
// a whole number of parity-protected bits.
func part1CodeLen() (int, int) {
	return ldpcCodeLen(Part1Bits, MetadataWC, MetadataWR), Part1Bits
}

func part2CodeLen() (int, int) {
	k := Part2Bits()
	return ldpcCodeLen(k, MetadataWC, MetadataWR), k
}

func ldpcCodeLen(k, wc, wr int) int {
	n := (k*wr + (wr - wc) - 1) / (wr - wc)
	if n < k {
		n = k
	}
	return n
}
