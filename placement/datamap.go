package placement

// DataMap marks, per module, whether it carries data (1) or is reserved for
// a finder, alignment, or metadata cell (0), per fillDataMap's contract.
type DataMap struct {
	Width, Height int
	Values        []byte
}

// NewDataMap allocates a width x height data map with every cell marked
// data; callers reserve structural regions with Reserve.
func NewDataMap(width, height int) *DataMap {
	d := &DataMap{Width: width, Height: height, Values: make([]byte, width*height)}
	for i := range d.Values {
		d.Values[i] = 1
	}
	return d
}

func (d *DataMap) index(x, y int) int { return y*d.Width + x }

// IsData reports whether (x, y) carries symbol data.
func (d *DataMap) IsData(x, y int) bool {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return false
	}
	return d.Values[d.index(x, y)] == 1
}

// Reserve marks (x, y) as non-data.
func (d *DataMap) Reserve(x, y int) {
	if x < 0 || y < 0 || x >= d.Width || y >= d.Height {
		return
	}
	d.Values[d.index(x, y)] = 0
}

// Build constructs the data map for a width x height symbol: every finder,
// alignment and metadata cell is reserved, and everything else is data.
func Build(width, height int) (*DataMap, error) {
	d := NewDataMap(width, height)

	for _, m := range AllFinderModules(width, height) {
		d.Reserve(m.X, m.Y)
	}
	for _, m := range AlignmentModules(width, height) {
		d.Reserve(m.X, m.Y)
	}

	part1, err := Part1Coords(width, height)
	if err != nil {
		return nil, err
	}
	for _, c := range part1 {
		d.Reserve(c[0], c[1])
	}
	part2, err := Part2Coords(width, height)
	if err != nil {
		return nil, err
	}
	for _, c := range part2 {
		d.Reserve(c[0], c[1])
	}

	return d, nil
}

// ScanOrder returns the (x, y) coordinates of every data module in
// row-major order. For color depths N>=16 the bitstream is striped across
// modules in column-interleaved groups of scanStripe so that a burst of
// misclassified adjacent modules spreads its damage across more LDPC
// check equations rather than clustering in one region of the codeword;
// for N<=8 the plain row-major order is used.
func ScanOrder(d *DataMap, colorNumber int) [][2]int {
	if colorNumber < 16 {
		return plainScanOrder(d)
	}
	return stripedScanOrder(d)
}

func plainScanOrder(d *DataMap) [][2]int {
	var out [][2]int
	for y := 0; y < d.Height; y++ {
		for x := 0; x < d.Width; x++ {
			if d.IsData(x, y) {
				out = append(out, [2]int{x, y})
			}
		}
	}
	return out
}

const scanStripe = 4

func stripedScanOrder(d *DataMap) [][2]int {
	var out [][2]int
	for band := 0; band < scanStripe; band++ {
		for y := 0; y < d.Height; y++ {
			for x := band; x < d.Width; x += scanStripe {
				if d.IsData(x, y) {
					out = append(out, [2]int{x, y})
				}
			}
		}
	}
	return out
}
