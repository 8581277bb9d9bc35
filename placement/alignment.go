package placement

// alignmentTemplate5x5 mirrors finderTemplate7x7 at the smaller alignment
// footprint: concentric rings by Chebyshev distance from center.
func alignmentTemplate5x5() [][]int {
	t := make([][]int, AlignmentSize)
	for r := 0; r < AlignmentSize; r++ {
		t[r] = make([]int, AlignmentSize)
		for c := 0; c < AlignmentSize; c++ {
			dr := r - 2
			dc := c - 2
			cheb := dr
			if dc > cheb {
				cheb = dc
			}
			if -dr > cheb {
				cheb = -dr
			}
			if -dc > cheb {
				cheb = -dc
			}
			t[r][c] = cheb % 2
		}
	}
	return t
}

// AlignmentMinSide is the smallest symbol side at which any interior
// alignment pattern is placed at all.
const AlignmentMinSide = 45

// alignmentCenters returns the 1-D grid of alignment-pattern center
// coordinates along one axis of a symbol of the given side length, evenly
// spaced between the two finder patterns on that axis and excluding the
// axis ends (which the finders already occupy). Capped at MaxAlignmentPerAxis
// per §3 ("0 ... 9 per axis").
const MaxAlignmentPerAxis = 9

func alignmentCenters(side int) []int {
	if side < AlignmentMinSide {
		return nil
	}
	// Usable interior span, leaving a finder-sized margin at both ends.
	lo := FinderSize + 2
	hi := side - FinderSize - 3
	if hi <= lo {
		return nil
	}
	span := hi - lo
	count := span/28 + 1
	if count > MaxAlignmentPerAxis {
		count = MaxAlignmentPerAxis
	}
	if count < 1 {
		return nil
	}
	centers := make([]int, count)
	if count == 1 {
		centers[0] = (lo + hi) / 2
		return centers
	}
	step := float64(hi-lo) / float64(count-1)
	for i := 0; i < count; i++ {
		centers[i] = lo + int(float64(i)*step+0.5)
	}
	return centers
}

// AlignmentCenters returns every (x,y) alignment-pattern center for a
// width x height symbol, on the cross product of the per-axis grids, with
// any center whose 5x5 footprint would overlap a finder pattern dropped.
func AlignmentCenters(width, height int) [][2]int {
	xs := alignmentCenters(width)
	ys := alignmentCenters(height)
	var out [][2]int
	for _, y := range ys {
		for _, x := range xs {
			if overlapsFinder(x, y, width, height) {
				continue
			}
			out = append(out, [2]int{x, y})
		}
	}
	return out
}

func overlapsFinder(cx, cy, width, height int) bool {
	half := AlignmentSize/2 + 1 // one module margin
	for _, c := range []Corner{FP0, FP1, FP2, FP3} {
		ox, oy := FinderOrigin(c, width, height)
		if cx+half >= ox && cx-half < ox+FinderSize && cy+half >= oy && cy-half < oy+FinderSize {
			return true
		}
	}
	return false
}

// AlignmentModules returns the placed modules (with ring selectors) for
// every alignment pattern in a width x height symbol.
func AlignmentModules(width, height int) []Module {
	tmpl := alignmentTemplate5x5()
	var out []Module
	for _, center := range AlignmentCenters(width, height) {
		ox := center[0] - AlignmentSize/2
		oy := center[1] - AlignmentSize/2
		for r := 0; r < AlignmentSize; r++ {
			for c := 0; c < AlignmentSize; c++ {
				out = append(out, Module{X: ox + c, Y: oy + r, Ring: tmpl[r][c]})
			}
		}
	}
	return out
}
