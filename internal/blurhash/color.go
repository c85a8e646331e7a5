package blurhash

import "math"

// ─── sRGB ↔ linear ────────────────────────────────────────────
// srgbLinear[b] is the linear-light value of sRGB byte b.  Filled once
// at init and read-only afterwards.
var srgbLinear [256]float64

func init() {
	for i := range srgbLinear {
		v := float64(i) / 255
		if v <= 0.04045 {
			srgbLinear[i] = v / 12.92
		} else {
			srgbLinear[i] = math.Pow((v+0.055)/1.055, 2.4)
		}
	}
}

func srgbToLinear(b byte) float64 {
	return srgbLinear[b]
}

// linearToSRGB gamma-encodes v.  Values outside [0,1] saturate.
func linearToSRGB(v float64) int {
	v = clamp01(v)
	if v <= 0.0031308 {
		return int(v*12.92*255 + 0.5)
	}
	return int((1.055*math.Pow(v, 1/2.4)-0.055)*255 + 0.5)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// signPow raises |v| to exp and restores the sign.
func signPow(v, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), exp), v)
}
