package palette

import "testing"

func TestDefaultRejectsUnsupportedColorNumber(t *testing.T) {
	if _, err := Default(3); err == nil {
		t.Fatal("expected error for unsupported color number")
	}
	if _, err := Default(256); err == nil {
		t.Fatal("expected 256 to be rejected (out of scope)")
	}
}

func TestDefaultBlackFirstWhiteLastInvariant(t *testing.T) {
	for _, n := range ValidColorNumbers {
		pal, err := Default(n)
		if err != nil {
			t.Fatalf("Default(%d): %v", n, err)
		}
		if len(pal) != n {
			t.Fatalf("Default(%d) returned %d colors", n, len(pal))
		}
		first := pal[0]
		if first.R != 0 || first.G != 0 || first.B != 0 {
			t.Errorf("Default(%d)[0] = %+v, want black", n, first)
		}
		last := pal[n-1]
		if last.R != 255 || last.G != 255 || last.B != 255 {
			t.Errorf("Default(%d)[%d] = %+v, want white", n, n-1, last)
		}
	}
}

func TestDefaultColorsAreDistinct(t *testing.T) {
	for _, n := range ValidColorNumbers {
		pal, _ := Default(n)
		seen := make(map[RGBKey]bool)
		for i, c := range pal {
			k := RGBKey{c.R, c.G, c.B}
			if seen[k] {
				t.Errorf("Default(%d) has duplicate color at index %d: %+v", n, i, c)
			}
			seen[k] = true
		}
	}
}

// RGBKey is a comparable stand-in for jabcolor.RGB, used only to dedupe in
// this test.
type RGBKey struct {
	R, G, B uint8
}
