// Package blurhash implements the BlurHash placeholder codec: a short
// base83 string holding the low-frequency colour structure of an image,
// and the reconstruction of a smooth approximation from that string.
//
// Design:
//   - Wire-compatible with the reference BlurHash encoders and decoders
//   - float64 throughout; sRGB→linear via a 256-entry LUT built at init
//   - Pre-computed cosine tables per call, pure multiply-add basis loops
//   - Validate-then-compute: no partial output on error
//   - Stateless: safe for concurrent use without locking
package blurhash

import (
	"fmt"
	"math"

	"github.com/AnyUserName/blurhash-cli/internal/base83"
)

const (
	MinComponents = 1
	MaxComponents = 9
)

// PixelMode describes the channel layout of a PixelBuffer.
type PixelMode int

const (
	RGB  PixelMode = 3
	RGBA PixelMode = 4
)

// Channels returns the number of bytes per pixel.
func (m PixelMode) Channels() int { return int(m) }

func (m PixelMode) String() string {
	switch m {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	default:
		return fmt.Sprintf("PixelMode(%d)", int(m))
	}
}

// PixelBuffer is an interleaved 8-bit pixel source.  The codec only
// reads it; alpha, when present, is ignored.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
	Mode   PixelMode
}

// HashLength returns the length of a hash with the given component
// counts: size digit, scale digit, 4-digit DC and 2 digits per AC term.
func HashLength(xComponents, yComponents int) int {
	return 4 + 2*xComponents*yComponents
}

// Encode computes the BlurHash of src using xComponents horizontal and
// yComponents vertical basis functions (each in [1, 9]).
func Encode(src PixelBuffer, xComponents, yComponents int) (string, error) {
	if err := checkComponents(xComponents, yComponents); err != nil {
		return "", err
	}
	if err := checkDimensions(src.Width, src.Height); err != nil {
		return "", err
	}
	if src.Mode != RGB && src.Mode != RGBA {
		return "", fmt.Errorf("%w: mode must be RGB (3 channels) or RGBA (4 channels)", ErrRange)
	}
	n, err := bufferSize(src.Width, src.Height, src.Mode.Channels())
	if err != nil {
		return "", err
	}
	if len(src.Pix) != n {
		return "", fmt.Errorf("%w: pixels length does not match width * height", ErrSizeMismatch)
	}

	factors := project(src, xComponents, yComponents)
	dc, ac := factors[0], factors[1:]

	hash := make([]byte, 0, HashLength(xComponents, yComponents))
	hash = base83.AppendEncode(hash, (xComponents-1)+(yComponents-1)*9, 1)

	maximumValue := 1.0
	if len(ac) > 0 {
		var actualMax float64
		for _, f := range ac {
			actualMax = math.Max(actualMax, math.Abs(f[0]))
			actualMax = math.Max(actualMax, math.Abs(f[1]))
			actualMax = math.Max(actualMax, math.Abs(f[2]))
		}
		quantMax := clampInt(int(math.Floor(actualMax*166-0.5)), 0, 82)
		maximumValue = float64(quantMax+1) / 166
		hash = base83.AppendEncode(hash, quantMax, 1)
	} else {
		hash = base83.AppendEncode(hash, 0, 1)
	}

	hash = base83.AppendEncode(hash, encodeDC(dc), 4)
	for _, f := range ac {
		hash = base83.AppendEncode(hash, encodeAC(f, maximumValue), 2)
	}
	return string(hash), nil
}

func encodeDC(c [3]float64) int {
	return linearToSRGB(c[0])<<16 | linearToSRGB(c[1])<<8 | linearToSRGB(c[2])
}

func encodeAC(c [3]float64, maximumValue float64) int {
	quant := func(v float64) int {
		return clampInt(int(math.Floor(signPow(v/maximumValue, 0.5)*9+9.5)), 0, 18)
	}
	return quant(c[0])*19*19 + quant(c[1])*19 + quant(c[2])
}

// ─── validation ───────────────────────────────────────────────

func checkComponents(x, y int) error {
	if x < MinComponents || x > MaxComponents || y < MinComponents || y > MaxComponents {
		return fmt.Errorf("%w: x_components and y_components must be in the range [1, 9]", ErrRange)
	}
	return nil
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: width and height must be greater than 0", ErrRange)
	}
	return nil
}

// bufferSize returns w*h*channels, or ErrOverflow if it does not fit in
// an int.  w and h must already be positive.
func bufferSize(w, h, channels int) (int, error) {
	if w > math.MaxInt/h || w*h > math.MaxInt/channels {
		return 0, fmt.Errorf("%w: %d x %d x %d pixel buffer", ErrOverflow, w, h, channels)
	}
	return w * h * channels, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
