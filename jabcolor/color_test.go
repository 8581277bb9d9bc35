package jabcolor

import "testing"

func TestRoundTripWithinQuantization(t *testing.T) {
	cases := []RGB{
		{0, 0, 0},
		{255, 255, 255},
		{255, 0, 0},
		{0, 255, 0},
		{0, 0, 255},
		{128, 64, 200},
		{17, 231, 9},
	}
	for _, rgb := range cases {
		got := LABToRGB(RGBToLAB(rgb))
		if absDiff(got.R, rgb.R) > 1 || absDiff(got.G, rgb.G) > 1 || absDiff(got.B, rgb.B) > 1 {
			t.Errorf("round trip %v -> %v exceeds 1-channel quantization tolerance", rgb, got)
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestDeltaE76ZeroForIdenticalColors(t *testing.T) {
	lab := RGBToLAB(RGB{12, 200, 77})
	if d := DeltaE76(lab, lab); d != 0 {
		t.Errorf("DeltaE76(x,x) = %v, want 0", d)
	}
}

func TestDeltaE2000ZeroForIdenticalColors(t *testing.T) {
	lab := RGBToLAB(RGB{12, 200, 77})
	if d := DeltaE2000(lab, lab); d > 1e-9 {
		t.Errorf("DeltaE2000(x,x) = %v, want ~0", d)
	}
}

func TestDeltaE2000SymmetricAndPositive(t *testing.T) {
	a := RGBToLAB(RGB{255, 0, 0})
	b := RGBToLAB(RGB{0, 0, 255})
	if DeltaE2000(a, b) <= 0 {
		t.Fatal("expected positive distance between red and blue")
	}
	if d1, d2 := DeltaE2000(a, b), DeltaE2000(b, a); absF(d1-d2) > 1e-9 {
		t.Errorf("DeltaE2000 not symmetric: %v vs %v", d1, d2)
	}
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestNearestLABTiesBreakToSmallerIndex(t *testing.T) {
	palette := []LAB{
		RGBToLAB(RGB{10, 10, 10}),
		RGBToLAB(RGB{10, 10, 10}),
	}
	if got := NearestLAB(palette[0], palette); got != 0 {
		t.Errorf("NearestLAB tie = %d, want 0", got)
	}
}

func TestNoNaNOrInfPropagation(t *testing.T) {
	lab := LAB{L: 1e10, A: -1e10, B: 1e10}
	xyz := LABToXYZ(lab)
	if xyz.X != xyz.X || xyz.Y != xyz.Y || xyz.Z != xyz.Z { // NaN check
		t.Fatal("NaN leaked through LABToXYZ for out-of-range input")
	}
}
