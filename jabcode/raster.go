package jabcode

import (
	"github.com/jabcode/jabcode/jabcolor"
	"github.com/jabcode/jabcode/placement"
)

// Rasterize paints grid (palette indices) into an RGBA bitmap at
// moduleSize pixels per module, with placement.QuietZoneModules of border
// on every side (§4.5 step 8).
func Rasterize(grid *placement.Grid, palette []jabcolor.RGB, moduleSize int) *Bitmap {
	bmpW := (grid.Width + 2*placement.QuietZoneModules) * moduleSize
	bmpH := (grid.Height + 2*placement.QuietZoneModules) * moduleSize
	bmp := NewBitmap(bmpW, bmpH)
	for i := range bmp.Pix {
		if i%4 == 3 {
			bmp.Pix[i] = 255 // opaque
		} else {
			bmp.Pix[i] = 255 // white quiet zone
		}
	}

	for my := 0; my < grid.Height; my++ {
		for mx := 0; mx < grid.Width; mx++ {
			c := palette[grid.At(mx, my)]
			px0 := (placement.QuietZoneModules + mx) * moduleSize
			py0 := (placement.QuietZoneModules + my) * moduleSize
			for dy := 0; dy < moduleSize; dy++ {
				for dx := 0; dx < moduleSize; dx++ {
					bmp.Set(px0+dx, py0+dy, c.R, c.G, c.B, 255)
				}
			}
		}
	}
	return bmp
}

// SampleModuleCenters reads one RGB sample per module from bmp, at the
// pixel offset `(QuietZoneModules+x)*moduleSize + moduleSize/2`, matching
// the synthetic decoder's sampling arithmetic (§4.8).
func SampleModuleCenters(bmp *Bitmap, width, height, moduleSize int) [][]jabcolor.RGB {
	samples := make([][]jabcolor.RGB, height)
	for y := 0; y < height; y++ {
		samples[y] = make([]jabcolor.RGB, width)
		for x := 0; x < width; x++ {
			px := (placement.QuietZoneModules+x)*moduleSize + moduleSize/2
			py := (placement.QuietZoneModules+y)*moduleSize + moduleSize/2
			r, g, b, _ := bmp.At(px, py)
			samples[y][x] = jabcolor.RGB{R: r, G: g, B: b}
		}
	}
	return samples
}

// MedianFilter applies a 3x3 median pre-filter per channel to samples,
// matching image_filter.c's applyMedianFilterPixel/getMedian: odd counts
// take the middle value, even counts average the two middle values, and
// edge pixels use whatever neighborhood falls inside the bounds.
func MedianFilter(samples [][]jabcolor.RGB) [][]jabcolor.RGB {
	h := len(samples)
	if h == 0 {
		return samples
	}
	w := len(samples[0])
	out := make([][]jabcolor.RGB, h)
	for y := 0; y < h; y++ {
		out[y] = make([]jabcolor.RGB, w)
		for x := 0; x < w; x++ {
			var rs, gs, bs []int
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					c := samples[ny][nx]
					rs = append(rs, int(c.R))
					gs = append(gs, int(c.G))
					bs = append(bs, int(c.B))
				}
			}
			out[y][x] = jabcolor.RGB{R: uint8(median(rs)), G: uint8(median(gs)), B: uint8(median(bs))}
		}
	}
	return out
}

func median(vals []int) int {
	sorted := append([]int(nil), vals...)
	insertionSort(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func insertionSort(a []int) {
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}
