package blurhash

import (
	"fmt"
	"image"
)

// ImageAdapter converts between host image values and raw pixel
// buffers.  The codec itself never touches image.Image; callers that
// want to hash or render images supply an adapter.
type ImageAdapter interface {
	// ExtractRGB returns the pixels of img as a PixelBuffer.
	ExtractRGB(img image.Image) (PixelBuffer, error)

	// BuildImage wraps an RGB buffer of width*height*3 bytes into an
	// image with the requested pixel mode.
	BuildImage(pix []byte, width, height int, mode PixelMode) (image.Image, error)
}

// EncodeImage extracts pixels from img through a and encodes them.
func EncodeImage(a ImageAdapter, img image.Image, xComponents, yComponents int) (string, error) {
	if a == nil {
		return "", fmt.Errorf("%w: no image adapter for encode", ErrCapabilityUnavailable)
	}
	src, err := a.ExtractRGB(img)
	if err != nil {
		return "", fmt.Errorf("extract pixels: %w", err)
	}
	return Encode(src, xComponents, yComponents)
}

// DecodeImage decodes hash and builds an image through a.
func DecodeImage(a ImageAdapter, hash string, width, height int, punch float64, mode PixelMode) (image.Image, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: no image adapter for decode", ErrCapabilityUnavailable)
	}
	pix, err := Decode(hash, width, height, punch)
	if err != nil {
		return nil, err
	}
	return a.BuildImage(pix, width, height, mode)
}
