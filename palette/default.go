// Package palette builds JABCode's deterministic default color tables and
// implements the decoder's adaptive palette drift correction.
package palette

import (
	"fmt"

	"github.com/jabcode/jabcode/jabcolor"
)

// ValidColorNumbers are the module color-depth choices this implementation
// supports; 256 is excluded per §1 (documented broken upstream, explicitly
// out of scope).
var ValidColorNumbers = []int{4, 8, 16, 32, 64, 128}

// Default returns the deterministic uniform-grid RGB palette for
// colorNumber modules. Index 0 is always black and index colorNumber-1 is
// always white (§3 invariant), which the finder-pattern layout relies on.
func Default(colorNumber int) ([]jabcolor.RGB, error) {
	switch colorNumber {
	case 4:
		return []jabcolor.RGB{
			{R: 0, G: 0, B: 0},
			{R: 255, G: 0, B: 0},
			{R: 0, G: 255, B: 0},
			{R: 255, G: 255, B: 255},
		}, nil
	case 8:
		return cubeCorners(), nil
	case 16:
		return subdivide(4, 2, 2), nil
	case 32:
		return subdivide(4, 4, 2), nil
	case 64:
		return subdivide(4, 4, 4), nil
	case 128:
		return subdivide(4, 4, 8), nil
	default:
		return nil, fmt.Errorf("palette: unsupported color number %d", colorNumber)
	}
}

// cubeCorners returns the 8 corners of the RGB cube in ascending binary
// order: (0,0,0) .. (255,255,255), so index 0 is black and index 7 is
// white.
func cubeCorners() []jabcolor.RGB {
	out := make([]jabcolor.RGB, 0, 8)
	for r := 0; r < 2; r++ {
		for g := 0; g < 2; g++ {
			for b := 0; b < 2; b++ {
				out = append(out, jabcolor.RGB{
					R: uint8(r * 255),
					G: uint8(g * 255),
					B: uint8(b * 255),
				})
			}
		}
	}
	return out
}

// subdivide builds an rLevels x gLevels x bLevels uniform grid, iterating R
// outermost and B innermost, all ascending, so the first entry is always
// black and the last is always white.
func subdivide(rLevels, gLevels, bLevels int) []jabcolor.RGB {
	rVals := levels(rLevels)
	gVals := levels(gLevels)
	bVals := levels(bLevels)

	out := make([]jabcolor.RGB, 0, rLevels*gLevels*bLevels)
	for _, r := range rVals {
		for _, g := range gVals {
			for _, b := range bVals {
				out = append(out, jabcolor.RGB{R: r, G: g, B: b})
			}
		}
	}
	return out
}

// levels returns n evenly spaced byte values from 0 to 255 inclusive.
func levels(n int) []uint8 {
	if n <= 1 {
		return []uint8{0}
	}
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		out[i] = uint8((i * 255 + (n-1)/2) / (n - 1))
	}
	out[0] = 0
	out[n-1] = 255
	return out
}

// ToLAB converts an RGB palette to LAB, the space classification and
// adaptive correction operate in.
func ToLAB(rgb []jabcolor.RGB) []jabcolor.LAB {
	out := make([]jabcolor.LAB, len(rgb))
	for i, c := range rgb {
		out[i] = jabcolor.RGBToLAB(c)
	}
	return out
}
