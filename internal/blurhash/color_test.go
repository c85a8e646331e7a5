package blurhash

import (
	"math"
	"testing"
)

func TestSRGBRoundtrip_AllBytes(t *testing.T) {
	for b := 0; b < 256; b++ {
		if got := linearToSRGB(srgbToLinear(byte(b))); got != b {
			t.Errorf("byte %d: roundtrip gave %d", b, got)
		}
	}
}

func TestSRGBToLinear_Endpoints(t *testing.T) {
	if v := srgbToLinear(0); v != 0 {
		t.Errorf("srgbToLinear(0) = %v, want 0", v)
	}
	if v := srgbToLinear(255); math.Abs(v-1) > 1e-12 {
		t.Errorf("srgbToLinear(255) = %v, want 1", v)
	}
	// 10/255 sits on the linear segment.
	if v, want := srgbToLinear(10), 10.0/255/12.92; math.Abs(v-want) > 1e-15 {
		t.Errorf("srgbToLinear(10) = %v, want %v", v, want)
	}
}

func TestSRGBToLinear_Monotonic(t *testing.T) {
	for b := 1; b < 256; b++ {
		if srgbToLinear(byte(b)) <= srgbToLinear(byte(b-1)) {
			t.Fatalf("not strictly increasing at %d", b)
		}
	}
}

func TestLinearToSRGB_Saturates(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{-5, 0},
		{-0.0001, 0},
		{0, 0},
		{1, 255},
		{1.5, 255},
		{1e9, 255},
	}
	for _, c := range cases {
		if got := linearToSRGB(c.in); got != c.want {
			t.Errorf("linearToSRGB(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSignPow(t *testing.T) {
	if got := signPow(-0.25, 0.5); got != -0.5 {
		t.Errorf("signPow(-0.25, 0.5) = %v", got)
	}
	if got := signPow(0.5, 2); got != 0.25 {
		t.Errorf("signPow(0.5, 2) = %v", got)
	}
	if got := signPow(0, 2); got != 0 {
		t.Errorf("signPow(0, 2) = %v", got)
	}
}
