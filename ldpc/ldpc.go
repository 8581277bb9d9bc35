// Package ldpc implements systematic binary low-density parity-check coding
// over GF(2): a seeded pseudo-random regular parity-check matrix, a
// Gaussian-elimination-based systematic encoder, and a bit-flipping
// message-passing decoder.
package ldpc

import (
	"fmt"
)

// ECCParam is one (column-weight, row-weight) pair from the ECC level table.
type ECCParam struct {
	WC, WR int
}

// ECCTable is the 10-entry ECC-level-to-(wc,wr) mapping (§4.2). Index is the
// ecc_level (0..9) a caller may force explicitly via symbol_ecc_levels.
var ECCTable = [10]ECCParam{
	{WC: 3, WR: 5},
	{WC: 7, WR: 9},
	{WC: 3, WR: 4},
	{WC: 5, WR: 6},
	{WC: 7, WR: 8},
	{WC: 4, WR: 5},
	{WC: 5, WR: 7},
	{WC: 6, WR: 7},
	{WC: 8, WR: 9},
	{WC: 9, WR: 10},
}

// CodeRate returns (wr-wc)/wr for the given parameter pair.
func (p ECCParam) CodeRate() float64 {
	return float64(p.WR-p.WC) / float64(p.WR)
}

// BestECC returns the (wc, wr) pair minimizing the non-negative slack
//
//	floor(capacity/wr)*(wr-wc) - netDataLength
//
// over 3<=wc<=8, wc<wr<=9, matching getOptimalECC. ok is false if no pair
// yields a non-negative slack (capacity too small for netDataLength at any
// rate in range).
func BestECC(capacity, netDataLength int) (ECCParam, bool) {
	best := ECCParam{}
	minSlack := capacity
	found := false
	for wc := 3; wc <= 8; wc++ {
		for wr := wc + 1; wr <= 9; wr++ {
			grossPayload := (capacity / wr) * wr
			slack := (grossPayload/wr)*(wr-wc) - netDataLength
			if slack >= 0 && slack < minSlack {
				minSlack = slack
				best = ECCParam{WC: wc, WR: wr}
				found = true
			}
		}
	}
	return best, found
}

// BestECCFromTable is BestECC restricted to the 10 (wc,wr) pairs in
// ECCTable, so the chosen pair can be carried on the wire as a 4-bit table
// index (§3 metadata region) instead of two arbitrary small integers.
func BestECCFromTable(capacity, netDataLength int) (int, ECCParam, bool) {
	bestIdx := -1
	best := ECCParam{}
	minSlack := capacity
	for i, p := range ECCTable {
		grossPayload := (capacity / p.WR) * p.WR
		slack := (grossPayload/p.WR)*(p.WR-p.WC) - netDataLength
		if slack >= 0 && slack < minSlack {
			minSlack = slack
			best = p
			bestIdx = i
		}
	}
	return bestIdx, best, bestIdx >= 0
}

// CodeDims returns the codeword length n and data length k a symbol
// actually builds its Matrix with for a given capacity and (wc, wr): n is
// capacity rounded down to a multiple of wr (so every row can carry wr
// ones), and k = n*(wr-wc)/wr is the resulting systematic payload size.
// This is the same gross-payload arithmetic BestECC uses internally to
// compute slack.
func CodeDims(capacity, wc, wr int) (n, k int) {
	n = (capacity / wr) * wr
	k = (n / wr) * (wr - wc)
	return n, k
}

// Matrix is a dense (small/medium size) binary parity-check matrix together
// with the systematic encoding layout derived from it.
type Matrix struct {
	Rows, Cols int // m checks, n variables
	bits       [][]bool

	// pivotCol[row] is the variable column that row's check solves for in
	// the row-reduced echelon form; freeCols lists the remaining columns,
	// in increasing order, that carry the net_data_length payload bits.
	pivotCol []int
	freeCols []int
}

// NewMatrix deterministically builds an (n x n) systematic LDPC structure
// for codeword length n and k data bits (m = n-k parity checks), with
// target column weight wc and row weight wr. The construction is a seeded
// pseudo-random bipartite assignment so that an encoder and a decoder that
// agree on (n, k, wc, wr) always agree on H byte-for-byte without
// transmitting it.
func NewMatrix(n, k, wc, wr int) (*Matrix, error) {
	m := n - k
	if m <= 0 || n <= 0 || wc < 1 || wr < 1 {
		return nil, fmt.Errorf("ldpc: invalid dimensions n=%d k=%d wc=%d wr=%d", n, k, wc, wr)
	}

	const maxAttempts = 32
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		seed := seedFor(n, m, wc, wr, attempt)
		bits := buildRegularBipartite(n, m, wc, wr, seed)
		mat := &Matrix{Rows: m, Cols: n, bits: bits}
		if err := mat.reduceToSystematic(); err != nil {
			lastErr = err
			continue
		}
		return mat, nil
	}
	return nil, fmt.Errorf("ldpc: failed to build full-rank matrix after %d attempts: %w", maxAttempts, lastErr)
}

// seedFor derives a deterministic seed from the public code parameters so
// two independent builds with the same parameters always produce the same
// matrix; attempt perturbs the seed only when a prior attempt was rank
// deficient.
func seedFor(n, m, wc, wr, attempt int) uint64 {
	h := uint64(1469598103934665603) // FNV-1a offset basis
	mix := func(v int) {
		h ^= uint64(uint32(v))
		h *= 1099511628211
	}
	mix(n)
	mix(m)
	mix(wc)
	mix(wr)
	mix(attempt)
	return h
}

// splitMix64 is a small, fast, reproducible PRNG: same seed -> same stream
// on every platform, which is the only property the construction needs.
type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func (s *splitMix64) intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.next() % uint64(n))
}

// buildRegularBipartite assigns wc row positions to each of the n columns,
// biased toward rows furthest from their target weight wr, so the result is
// a near-regular bipartite graph (wc per column, close to wr per row; §4.2
// requires reproducibility, not exact regularity). When wc is even the last
// column gets wc+1 ones: with every column of even weight the rows would
// sum to zero over GF(2) and H could never reach full row rank.
func buildRegularBipartite(n, m, wc, wr int, seed uint64) [][]bool {
	bits := make([][]bool, m)
	for r := range bits {
		bits[r] = make([]bool, n)
	}
	rowLoad := make([]int, m)
	rng := &splitMix64{state: seed}

	for c := 0; c < n; c++ {
		colWeight := wc
		if wc%2 == 0 && c == n-1 {
			colWeight = wc + 1
		}
		chosen := make(map[int]bool, colWeight)
		for len(chosen) < colWeight && len(chosen) < m {
			// Sample a handful of candidate rows and keep the least-loaded
			// one so row weight stays close to wr without a full sort.
			bestRow := -1
			bestLoad := m + 1
			candidates := 4
			for i := 0; i < candidates; i++ {
				r := rng.intn(m)
				if chosen[r] {
					continue
				}
				if rowLoad[r] < bestLoad {
					bestLoad = rowLoad[r]
					bestRow = r
				}
			}
			if bestRow < 0 {
				// All sampled candidates were already chosen; fall back to
				// a direct scan for the first free row.
				for r := 0; r < m; r++ {
					if !chosen[r] {
						bestRow = r
						break
					}
				}
				if bestRow < 0 {
					break
				}
			}
			chosen[bestRow] = true
			rowLoad[bestRow]++
		}
		for r := range chosen {
			bits[r][c] = true
		}
	}
	return bits
}

// reduceToSystematic row-reduces bits to row-echelon form over GF(2) in
// place, recording a pivot column per row. Returns an error if the matrix
// is not full row rank (fewer than Rows independent rows).
func (mat *Matrix) reduceToSystematic() error {
	m, n := mat.Rows, mat.Cols
	bits := mat.bits
	pivotCol := make([]int, 0, m)
	isPivotCol := make([]bool, n)

	row := 0
	for col := 0; col < n && row < m; col++ {
		pivotRow := -1
		for r := row; r < m; r++ {
			if bits[r][col] {
				pivotRow = r
				break
			}
		}
		if pivotRow < 0 {
			continue
		}
		bits[row], bits[pivotRow] = bits[pivotRow], bits[row]

		for r := 0; r < m; r++ {
			if r != row && bits[r][col] {
				xorRow(bits[r], bits[row])
			}
		}

		pivotCol = append(pivotCol, col)
		isPivotCol[col] = true
		row++
	}

	if row < m {
		return fmt.Errorf("ldpc: matrix rank %d < required %d", row, m)
	}

	freeCols := make([]int, 0, n-m)
	for c := 0; c < n; c++ {
		if !isPivotCol[c] {
			freeCols = append(freeCols, c)
		}
	}

	mat.pivotCol = pivotCol
	mat.freeCols = freeCols
	return nil
}

func xorRow(dst, src []bool) {
	for i := range dst {
		if src[i] {
			dst[i] = !dst[i]
		}
	}
}

// DataLen returns the number of free (payload) columns, i.e. net data bits
// per codeword.
func (mat *Matrix) DataLen() int {
	return len(mat.freeCols)
}

// Encode places data (length must equal DataLen()) into the free columns
// and solves each pivot row for its pivot bit, producing a full codeword of
// length Cols whose syndrome (H * codeword mod 2) is all-zero.
func (mat *Matrix) Encode(data []bool) ([]bool, error) {
	if len(data) != mat.DataLen() {
		return nil, fmt.Errorf("ldpc: encode expected %d data bits, got %d", mat.DataLen(), len(data))
	}
	codeword := make([]bool, mat.Cols)
	for i, col := range mat.freeCols {
		codeword[col] = data[i]
	}
	for i, col := range mat.pivotCol {
		row := mat.bits[i]
		sum := false
		for _, fc := range mat.freeCols {
			if row[fc] && codeword[fc] {
				sum = !sum
			}
		}
		codeword[col] = sum
	}
	return codeword, nil
}

// ExtractData reads the payload bits back out of a codeword's free columns,
// in the same order Encode used to place them.
func (mat *Matrix) ExtractData(codeword []bool) []bool {
	data := make([]bool, len(mat.freeCols))
	for i, col := range mat.freeCols {
		data[i] = codeword[col]
	}
	return data
}

// Result is the outcome of a message-passing decode attempt.
type Result struct {
	Codeword []bool
	Data     []bool
	Residual bool // true if parity was not fully satisfied when the iteration cap was hit
	Iters    int
}

// MaxIterations is the bit-flipping decoder's iteration cap; §4.2 requires
// at least 50.
const MaxIterations = 50

// Decode runs bit-flipping message passing on received (length Cols),
// correcting toward a codeword that satisfies every parity check. It
// always returns a codeword (the last iterate on non-convergence) and
// reports Residual=true when the cap was hit without full convergence.
func (mat *Matrix) Decode(received []bool) Result {
	codeword := append([]bool(nil), received...)
	m, n := mat.Rows, mat.Cols

	// incident[v] lists the check rows touching variable v; checksOf[r]
	// lists the variables touching check r. Precomputing avoids an O(m*n)
	// scan per iteration.
	incident := make([][]int, n)
	checksOf := make([][]int, m)
	for r := 0; r < m; r++ {
		for c := 0; c < n; c++ {
			if mat.bits[r][c] {
				incident[c] = append(incident[c], r)
				checksOf[r] = append(checksOf[r], c)
			}
		}
	}

	syndrome := make([]bool, m)
	computeSyndrome := func() {
		for r := 0; r < m; r++ {
			s := false
			for _, v := range checksOf[r] {
				if codeword[v] {
					s = !s
				}
			}
			syndrome[r] = s
		}
	}

	iters := 0
	for ; iters < MaxIterations; iters++ {
		computeSyndrome()
		allSatisfied := true
		for _, s := range syndrome {
			if s {
				allSatisfied = false
				break
			}
		}
		if allSatisfied {
			return Result{Codeword: codeword, Data: mat.ExtractData(codeword), Residual: false, Iters: iters}
		}

		flips := make([]bool, n)
		anyFlip := false
		for v := 0; v < n; v++ {
			if len(incident[v]) == 0 {
				continue
			}
			unsatisfied := 0
			for _, r := range incident[v] {
				if syndrome[r] {
					unsatisfied++
				}
			}
			if unsatisfied*2 > len(incident[v]) {
				flips[v] = true
				anyFlip = true
			}
		}
		if !anyFlip {
			break
		}
		for v, f := range flips {
			if f {
				codeword[v] = !codeword[v]
			}
		}
	}

	computeSyndrome()
	residual := false
	for _, s := range syndrome {
		if s {
			residual = true
			break
		}
	}
	return Result{Codeword: codeword, Data: mat.ExtractData(codeword), Residual: residual, Iters: iters}
}
