// Package encoder writes decoded placeholder images to common file
// formats.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "jpeg", "bmp").
	Format() string

	// Encode converts the image to bytes.  quality (1-100) is used by
	// lossy formats and ignored by the rest.
	Encode(img image.Image, quality int) ([]byte, error)

	// Extensions returns the file extensions, without dot, that select
	// this encoder.  The first one is canonical.
	Extensions() []string
}
