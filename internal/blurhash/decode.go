package blurhash

import (
	"fmt"
	"image/color"
	"math"

	"github.com/AnyUserName/blurhash-cli/internal/base83"
)

// Decode reconstructs a width×height RGB image (3 bytes per pixel,
// row-major) from hash.  punch scales the AC terms and must be >= 1;
// 1 reproduces the encoded contrast.
func Decode(hash string, width, height int, punch float64) ([]byte, error) {
	if err := checkPunch(punch); err != nil {
		return nil, err
	}
	if err := checkDimensions(width, height); err != nil {
		return nil, err
	}
	if _, err := bufferSize(width, height, 3); err != nil {
		return nil, err
	}

	h, err := parse(hash, punch)
	if err != nil {
		return nil, err
	}
	return reconstruct(h.colors, h.nx, h.ny, width, height), nil
}

// Components reports the component counts declared by hash after
// checking the header and overall length.
func Components(hash string) (x, y int, err error) {
	x, y, err = parseHeader(hash)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// Validate reports whether hash is well formed, without reconstructing
// any pixels.
func Validate(hash string) error {
	_, err := parse(hash, 1)
	return err
}

// AverageColor decodes only the DC field of hash.
func AverageColor(hash string) (color.NRGBA, error) {
	if _, _, err := parseHeader(hash); err != nil {
		return color.NRGBA{}, err
	}
	v, err := decodeField(hash, 2, 6)
	if err != nil {
		return color.NRGBA{}, err
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// ─── parsing ──────────────────────────────────────────────────

type parsed struct {
	nx, ny int
	colors [][3]float64 // linear light; AC already scaled by max·punch
}

func parseHeader(hash string) (int, int, error) {
	if len(hash) < 6 {
		return 0, 0, fmt.Errorf("%w: length %d is shorter than 6", ErrFormat, len(hash))
	}
	size, err := decodeField(hash, 0, 1)
	if err != nil {
		return 0, 0, err
	}
	nx := size%9 + 1
	ny := size/9 + 1
	if ny > MaxComponents {
		return 0, 0, fmt.Errorf("%w: size digit %q out of range", ErrFormat, hash[0])
	}
	if want := HashLength(nx, ny); len(hash) != want {
		return 0, 0, fmt.Errorf("%w: length %d, want %d for %dx%d components",
			ErrFormat, len(hash), want, nx, ny)
	}
	return nx, ny, nil
}

func parse(hash string, punch float64) (parsed, error) {
	nx, ny, err := parseHeader(hash)
	if err != nil {
		return parsed{}, err
	}
	quantMax, err := decodeField(hash, 1, 2)
	if err != nil {
		return parsed{}, err
	}
	maximumValue := float64(quantMax+1) / 166 * punch

	colors := make([][3]float64, nx*ny)
	dc, err := decodeField(hash, 2, 6)
	if err != nil {
		return parsed{}, err
	}
	colors[0] = decodeDC(dc)
	for i := 1; i < len(colors); i++ {
		v, err := decodeField(hash, 4+i*2, 6+i*2)
		if err != nil {
			return parsed{}, err
		}
		colors[i] = decodeAC(v, maximumValue)
	}
	return parsed{nx: nx, ny: ny, colors: colors}, nil
}

// checkPunch rejects NaN, values below 1 and +Inf. An infinite punch
// turns every neutral AC term into 0*Inf.
func checkPunch(punch float64) error {
	if !(punch >= 1) || math.IsInf(punch, 1) {
		return fmt.Errorf("%w: punch must be greater than or equal to 1 and finite", ErrRange)
	}
	return nil
}

// decodeField decodes hash[lo:hi]. Offsets in errors are relative to hash.
func decodeField(hash string, lo, hi int) (int, error) {
	field := hash[lo:hi]
	if i := base83.IndexInvalid(field); i >= 0 {
		return 0, fmt.Errorf("%w: %w %q at offset %d",
			ErrFormat, base83.ErrInvalidCharacter, field[i], lo+i)
	}
	v, err := base83.Decode(field)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return v, nil
}

func decodeDC(v int) [3]float64 {
	return [3]float64{
		srgbToLinear(byte(v >> 16)),
		srgbToLinear(byte(v >> 8)),
		srgbToLinear(byte(v)),
	}
}

func decodeAC(v int, maximumValue float64) [3]float64 {
	unquant := func(q int) float64 {
		return signPow(float64(q-9)/9, 2) * maximumValue
	}
	return [3]float64{
		unquant(v / (19 * 19)),
		unquant(v / 19 % 19),
		unquant(v % 19),
	}
}
