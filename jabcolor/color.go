// Package jabcolor converts between sRGB, CIE XYZ and CIE LAB and computes
// perceptual color distances (ΔE76, ΔE2000) used to classify JABCode modules
// against a palette.
package jabcolor

import "math"

// D65 standard illuminant reference white, scaled to the 0-100 XYZ range.
const (
	refX = 95.047
	refY = 100.000
	refZ = 108.883

	labEpsilon = 0.008856 // (6/29)^3
	labKappa   = 903.3    // (29/3)^3
)

// RGB is an 8-bit-per-channel sRGB color.
type RGB struct {
	R, G, B uint8
}

// XYZ is a CIE 1931 XYZ color in the 0-100 range under the D65 illuminant.
type XYZ struct {
	X, Y, Z float64
}

// LAB is a CIE L*a*b* color. L is clamped to [0,100]; a and b are clamped
// to [-128,127], matching the fixed-point range JABCode modules are stored
// and compared in.
type LAB struct {
	L, A, B float64
}

func linearizeChannel(c float64) float64 {
	if c > 0.04045 {
		return math.Pow((c+0.055)/1.055, 2.4)
	}
	return c / 12.92
}

func delinearizeChannel(c float64) float64 {
	if c > 0.0031308 {
		return 1.055*math.Pow(c, 1.0/2.4) - 0.055
	}
	return 12.92 * c
}

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16.0) / 116.0
}

func labFInv(t float64) float64 {
	t3 := t * t * t
	if t3 > labEpsilon {
		return t3
	}
	return (116.0*t - 16.0) / labKappa
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// RGBToXYZ converts an sRGB color to CIE XYZ under the D65 illuminant.
func RGBToXYZ(rgb RGB) XYZ {
	r := linearizeChannel(float64(rgb.R) / 255.0)
	g := linearizeChannel(float64(rgb.G) / 255.0)
	b := linearizeChannel(float64(rgb.B) / 255.0)

	return XYZ{
		X: (r*0.4124564 + g*0.3575761 + b*0.1804375) * 100.0,
		Y: (r*0.2126729 + g*0.7151522 + b*0.0721750) * 100.0,
		Z: (r*0.0193339 + g*0.1191920 + b*0.9503041) * 100.0,
	}
}

// XYZToLAB converts CIE XYZ (D65) to CIE L*a*b*.
func XYZToLAB(xyz XYZ) LAB {
	fx := labF(xyz.X / refX)
	fy := labF(xyz.Y / refY)
	fz := labF(xyz.Z / refZ)

	return LAB{
		L: clamp(sanitize(116.0*fy-16.0), 0, 100),
		A: clamp(sanitize(500.0*(fx-fy)), -128, 127),
		B: clamp(sanitize(200.0*(fy-fz)), -128, 127),
	}
}

// RGBToLAB converts an sRGB color directly to CIE L*a*b*.
func RGBToLAB(rgb RGB) LAB {
	return XYZToLAB(RGBToXYZ(rgb))
}

// LABToXYZ converts CIE L*a*b* back to CIE XYZ (D65), clamping the input to
// valid LAB ranges first so corrupted intermediate state (e.g. an
// out-of-range adaptive-palette shift) can never propagate NaN/Inf.
func LABToXYZ(lab LAB) XYZ {
	l := clamp(lab.L, 0, 100)
	a := clamp(lab.A, -128, 127)
	b := clamp(lab.B, -128, 127)

	fy := (l + 16.0) / 116.0
	fx := a/500.0 + fy
	fz := fy - b/200.0

	return XYZ{
		X: sanitize(labFInv(fx) * refX),
		Y: sanitize(labFInv(fy) * refY),
		Z: sanitize(labFInv(fz) * refZ),
	}
}

// XYZToRGB converts CIE XYZ (D65) back to 8-bit sRGB, clamping to [0,255].
func XYZToRGB(xyz XYZ) RGB {
	x := xyz.X / 100.0
	y := xyz.Y / 100.0
	z := xyz.Z / 100.0

	r := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	g := x*-0.9692660 + y*1.8760108 + z*0.0415560
	b := x*0.0556434 + y*-0.2040259 + z*1.0572252

	r = delinearizeChannel(r)
	g = delinearizeChannel(g)
	b = delinearizeChannel(b)

	return RGB{
		R: toByte(r),
		G: toByte(g),
		B: toByte(b),
	}
}

func toByte(c float64) uint8 {
	c = sanitize(c)
	v := clamp(c, 0, 1)*255.0 + 0.5
	return uint8(v)
}

// LABToRGB converts CIE L*a*b* directly to 8-bit sRGB.
func LABToRGB(lab LAB) RGB {
	return XYZToRGB(LABToXYZ(lab))
}

// DeltaE76 is the Euclidean distance between two LAB colors (CIE76).
func DeltaE76(a, b LAB) float64 {
	dl := a.L - b.L
	da := a.A - b.A
	db := a.B - b.B
	return math.Sqrt(dl*dl + da*da + db*db)
}

// DeltaE2000 is the CIEDE2000 perceptual distance between two LAB colors,
// with kL = kC = kH = 1 (the graphic-arts default weights).
func DeltaE2000(lab1, lab2 LAB) float64 {
	const kL, kC, kH = 1.0, 1.0, 1.0

	c1 := math.Hypot(lab1.A, lab1.B)
	c2 := math.Hypot(lab2.A, lab2.B)
	cAvg := (c1 + c2) / 2.0

	cAvg7 := math.Pow(cAvg, 7.0)
	g := 0.5 * (1.0 - math.Sqrt(cAvg7/(cAvg7+math.Pow(25.0, 7.0))))

	a1p := lab1.A * (1.0 + g)
	a2p := lab2.A * (1.0 + g)

	c1p := math.Hypot(a1p, lab1.B)
	c2p := math.Hypot(a2p, lab2.B)

	h1p := math.Atan2(lab1.B, a1p) * 180.0 / math.Pi
	if h1p < 0 {
		h1p += 360.0
	}
	h2p := math.Atan2(lab2.B, a2p) * 180.0 / math.Pi
	if h2p < 0 {
		h2p += 360.0
	}

	dLp := lab2.L - lab1.L
	dCp := c2p - c1p

	var dhp float64
	if c1p*c2p == 0 {
		dhp = 0
	} else {
		dh := h2p - h1p
		switch {
		case math.Abs(dh) <= 180.0:
			dhp = dh
		case dh > 180.0:
			dhp = dh - 360.0
		default:
			dhp = dh + 360.0
		}
	}
	dHp := 2.0 * math.Sqrt(c1p*c2p) * math.Sin(dhp*math.Pi/360.0)

	lAvgP := (lab1.L + lab2.L) / 2.0
	cAvgP := (c1p + c2p) / 2.0

	var hAvgP float64
	if c1p*c2p == 0 {
		hAvgP = h1p + h2p
	} else {
		sumH := h1p + h2p
		diffH := math.Abs(h1p - h2p)
		switch {
		case diffH <= 180.0:
			hAvgP = sumH / 2.0
		case sumH < 360.0:
			hAvgP = (sumH + 360.0) / 2.0
		default:
			hAvgP = (sumH - 360.0) / 2.0
		}
	}

	t := 1.0 -
		0.17*math.Cos((hAvgP-30.0)*math.Pi/180.0) +
		0.24*math.Cos(2.0*hAvgP*math.Pi/180.0) +
		0.32*math.Cos((3.0*hAvgP+6.0)*math.Pi/180.0) -
		0.20*math.Cos((4.0*hAvgP-63.0)*math.Pi/180.0)

	lAvgMinus50Sq := (lAvgP - 50.0) * (lAvgP - 50.0)
	sl := 1.0 + (0.015*lAvgMinus50Sq)/math.Sqrt(20.0+lAvgMinus50Sq)
	sc := 1.0 + 0.045*cAvgP
	sh := 1.0 + 0.015*cAvgP*t

	dTheta := 30.0 * math.Exp(-math.Pow((hAvgP-275.0)/25.0, 2.0))
	cAvgP7 := math.Pow(cAvgP, 7.0)
	rc := 2.0 * math.Sqrt(cAvgP7/(cAvgP7+math.Pow(25.0, 7.0)))
	rt := -rc * math.Sin(2.0*dTheta*math.Pi/180.0)

	term1 := dLp / (kL * sl)
	term2 := dCp / (kC * sc)
	term3 := dHp / (kH * sh)

	return math.Sqrt(term1*term1 + term2*term2 + term3*term3 + rt*term2*term3)
}

// NearestLAB returns the index of the palette entry with minimal ΔE76 to
// query, breaking ties toward the smaller index. It is the linear-scan
// reference implementation kdtree.Nearest must agree with.
func NearestLAB(query LAB, palette []LAB) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range palette {
		d := DeltaE76(query, c)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}
