package palette

import (
	"math"
	"sort"

	"github.com/jabcode/jabcode/jabcolor"
)

const (
	minSamplesForCorrection = 5
	minConfidenceThreshold  = 0.6
	maxCorrectionDeltaE     = 10.0
	maxDiffCapacityPerColor = 1000
	maxShiftMagnitude       = 50.0
)

// Observation records one classified module during decoding: the raw
// sampled color, which palette entry it was classified to, and the
// classifier's confidence in that classification (1 - d1/d2, where d1 is
// the ΔE to the nearest color and d2 the ΔE to the second nearest).
type Observation struct {
	Observed     jabcolor.RGB
	PaletteIndex int
	Confidence   float64
}

// Correction is the per-palette-color LAB shift the adaptive pass applies,
// along with the confidence and sample count that produced it.
type Correction struct {
	Shift       jabcolor.LAB
	Confidence  float64
	SampleCount int
}

// CollectObservation appends obs to observations if its confidence clears
// the minimum threshold and the slice hasn't reached its cap, exactly as
// collectColorObservation filters low-confidence noise before accumulation.
func CollectObservation(observations []Observation, obs Observation, maxObservations int) []Observation {
	if obs.Confidence < minConfidenceThreshold {
		return observations
	}
	if len(observations) >= maxObservations {
		return observations
	}
	return append(observations, obs)
}

// AnalyzeDistribution computes, for each palette color with at least
// minSamplesForCorrection surviving observations (after ΔE-outlier
// rejection and a per-color observation cap), the per-channel median LAB
// shift between what was observed and what was expected.
func AnalyzeDistribution(observations []Observation, expected []jabcolor.RGB) []Correction {
	n := len(expected)
	corrections := make([]Correction, n)

	expectedLAB := ToLAB(expected)
	diffs := make([][]jabcolor.LAB, n)

	for _, obs := range observations {
		idx := obs.PaletteIndex
		if idx < 0 || idx >= n {
			continue
		}
		observedLAB := jabcolor.RGBToLAB(obs.Observed)
		diff := jabcolor.LAB{
			L: observedLAB.L - expectedLAB[idx].L,
			A: observedLAB.A - expectedLAB[idx].A,
			B: observedLAB.B - expectedLAB[idx].B,
		}
		deltaE := math.Sqrt(diff.L*diff.L + diff.A*diff.A + diff.B*diff.B)
		if deltaE >= maxCorrectionDeltaE {
			continue
		}
		if len(diffs[idx]) >= maxDiffCapacityPerColor {
			continue
		}
		diffs[idx] = append(diffs[idx], diff)
	}

	for i := 0; i < n; i++ {
		if len(diffs[i]) >= minSamplesForCorrection {
			corrections[i].Shift = medianLAB(diffs[i])
			corrections[i].SampleCount = len(diffs[i])
			corrections[i].Confidence = math.Min(1.0, float64(len(diffs[i]))/20.0)
		}
	}

	return corrections
}

func medianLAB(samples []jabcolor.LAB) jabcolor.LAB {
	if len(samples) == 0 {
		return jabcolor.LAB{}
	}
	ls := make([]float64, len(samples))
	as := make([]float64, len(samples))
	bs := make([]float64, len(samples))
	for i, s := range samples {
		ls[i], as[i], bs[i] = s.L, s.A, s.B
	}
	sort.Float64s(ls)
	sort.Float64s(as)
	sort.Float64s(bs)

	return jabcolor.LAB{L: medianOf(ls), A: medianOf(as), B: medianOf(bs)}
}

func medianOf(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2.0
	}
	return sorted[mid]
}

// CorrectionThreshold is max(0.3, median of all colors' confidences) —
// computed over every entry in corrections, including zero-confidence
// entries for colors that never reached minSamplesForCorrection, matching
// computeCorrectionThreshold in the reference implementation exactly.
func CorrectionThreshold(corrections []Correction) float64 {
	if len(corrections) == 0 {
		return 0.3
	}
	confidences := make([]float64, len(corrections))
	for i, c := range corrections {
		confidences[i] = c.Confidence
	}
	sort.Float64s(confidences)
	threshold := confidences[len(confidences)/2]
	return math.Max(threshold, 0.3)
}

// Apply produces a corrected palette: for each color whose correction
// confidence clears CorrectionThreshold and has enough samples, its shift
// is applied in LAB space (clamped to valid LAB ranges) provided the shift
// magnitude is finite and no more than maxShiftMagnitude; otherwise the
// original color passes through unchanged. If every correction has
// zero confidence and zero shift, the output palette is bit-identical to
// the input (§4.7 invariant).
func Apply(original []jabcolor.RGB, corrections []Correction) []jabcolor.RGB {
	threshold := CorrectionThreshold(corrections)
	out := make([]jabcolor.RGB, len(original))

	for i, orig := range original {
		out[i] = orig
		if i >= len(corrections) {
			continue
		}
		corr := corrections[i]
		if corr.Confidence < threshold || corr.SampleCount < minSamplesForCorrection {
			continue
		}
		shiftMag := math.Sqrt(corr.Shift.L*corr.Shift.L + corr.Shift.A*corr.Shift.A + corr.Shift.B*corr.Shift.B)
		if math.IsNaN(shiftMag) || math.IsInf(shiftMag, 0) || shiftMag > maxShiftMagnitude {
			continue
		}

		lab := jabcolor.RGBToLAB(orig)
		lab.L += corr.Shift.L
		lab.A += corr.Shift.A
		lab.B += corr.Shift.B
		lab.L = clampF(lab.L, 0, 100)
		lab.A = clampF(lab.A, -128, 127)
		lab.B = clampF(lab.B, -128, 127)
		out[i] = jabcolor.LABToRGB(lab)
	}
	return out
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
