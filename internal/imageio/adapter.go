package imageio

import (
	"fmt"
	"image"
	"image/color"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/disintegration/imaging"
)

// Adapter implements blurhash.ImageAdapter.
//
// Encoding cost grows with pixel count, while the hash only keeps low
// frequencies, so ExtractRGB first fits large images inside
// MaxDim×MaxDim.  MaxDim 0 keeps the source resolution.
type Adapter struct {
	MaxDim int
	Filter imaging.ResampleFilter
}

var _ blurhash.ImageAdapter = (*Adapter)(nil)

// NewAdapter returns an adapter that downsamples with a box filter.
func NewAdapter(maxDim int) *Adapter {
	return &Adapter{MaxDim: maxDim, Filter: imaging.Box}
}

// ExtractRGB returns the RGB pixels of img, downsampled if needed.
// Alpha is dropped without compositing.
func (a *Adapter) ExtractRGB(img image.Image) (blurhash.PixelBuffer, error) {
	if img == nil {
		return blurhash.PixelBuffer{}, fmt.Errorf("%w: nil image", blurhash.ErrRange)
	}
	b := img.Bounds()
	if a.MaxDim > 0 && (b.Dx() > a.MaxDim || b.Dy() > a.MaxDim) {
		img = imaging.Fit(img, a.MaxDim, a.MaxDim, a.Filter)
		b = img.Bounds()
	}
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return blurhash.PixelBuffer{Width: w, Height: h, Mode: blurhash.RGB}, nil
	}

	pix := make([]byte, w*h*3)
	extractRGB(img, b, pix)
	return blurhash.PixelBuffer{Pix: pix, Width: w, Height: h, Mode: blurhash.RGB}, nil
}

// BuildImage wraps an RGB buffer.  RGBA mode yields an opaque
// *image.NRGBA; RGB mode yields an *image.RGBA.
func (a *Adapter) BuildImage(pix []byte, width, height int, mode blurhash.PixelMode) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width and height must be greater than 0", blurhash.ErrRange)
	}
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d RGB", blurhash.ErrSizeMismatch, len(pix), width, height)
	}

	var dst []byte
	var out image.Image
	switch mode {
	case blurhash.RGB:
		img := image.NewRGBA(image.Rect(0, 0, width, height))
		dst, out = img.Pix, img
	case blurhash.RGBA:
		img := image.NewNRGBA(image.Rect(0, 0, width, height))
		dst, out = img.Pix, img
	default:
		return nil, fmt.Errorf("%w: unsupported pixel mode %s", blurhash.ErrRange, mode)
	}

	for si, di := 0, 0; si < len(pix); si, di = si+3, di+4 {
		dst[di] = pix[si]
		dst[di+1] = pix[si+1]
		dst[di+2] = pix[si+2]
		dst[di+3] = 255
	}
	return out, nil
}

// ─── extraction fast paths ───────────────────────────────────

func extractRGB(img image.Image, b image.Rectangle, dst []byte) {
	w, h := b.Dx(), b.Dy()
	di := 0
	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				dst[di] = src.Pix[off]
				dst[di+1] = src.Pix[off+1]
				dst[di+2] = src.Pix[off+2]
				off += 4
				di += 3
			}
		}
	case *image.RGBA:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				r, g, bl, al := src.Pix[off], src.Pix[off+1], src.Pix[off+2], src.Pix[off+3]
				switch al {
				case 255:
					dst[di], dst[di+1], dst[di+2] = r, g, bl
				case 0:
					dst[di], dst[di+1], dst[di+2] = 0, 0, 0
				default:
					dst[di] = unpremultiply(r, al)
					dst[di+1] = unpremultiply(g, al)
					dst[di+2] = unpremultiply(bl, al)
				}
				off += 4
				di += 3
			}
		}
	case *image.YCbCr:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				px, py := b.Min.X+x, b.Min.Y+y
				ci := src.COffset(px, py)
				r, g, bl := color.YCbCrToRGB(src.Y[src.YOffset(px, py)], src.Cb[ci], src.Cr[ci])
				dst[di], dst[di+1], dst[di+2] = r, g, bl
				di += 3
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x++ {
				v := src.Pix[off+x]
				dst[di], dst[di+1], dst[di+2] = v, v, v
				di += 3
			}
		}
	default:
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
				dst[di], dst[di+1], dst[di+2] = c.R, c.G, c.B
				di += 3
			}
		}
	}
}

func unpremultiply(c, a uint8) uint8 {
	v := (uint32(c)*255 + uint32(a)/2) / uint32(a)
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
