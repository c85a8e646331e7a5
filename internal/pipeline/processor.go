package pipeline

import (
	"fmt"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/imageio"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key    string
	entry  manifest.Entry
	reused bool
	err    error
}

// processImage handles a single source image: digest, reuse check, decode, hash.
func processImage(src Source, cfg Config, adapter *imageio.Adapter) processResult {
	result := processResult{key: src.Key}

	digest, err := hasher.FileDigest(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("digest %s: %w", src.RelPath, err)
		return result
	}

	if prev, ok := cfg.reusable(src, digest); ok {
		result.entry = prev
		result.entry.Size = src.Size
		result.reused = true
		return result
	}

	img, err := imageio.Load(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	hash, err := blurhash.EncodeImage(adapter, img, cfg.Profile.XComponents, cfg.Profile.YComponents)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	avg, err := blurhash.AverageColor(hash)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	result.entry = manifest.Entry{
		Source:      src.RelPath,
		Format:      src.Format,
		Width:       w,
		Height:      h,
		Size:        src.Size,
		Digest:      digest,
		BlurHash:    hash,
		AvgColor:    [3]uint8{avg.R, avg.G, avg.B},
		AspectRatio: float64(w) / float64(h),
	}
	return result
}

// reusable returns the previous build's entry for src when the file
// bytes and every hashing parameter are unchanged.
func (cfg Config) reusable(src Source, digest string) (manifest.Entry, bool) {
	prev := cfg.Previous
	if prev == nil {
		return manifest.Entry{}, false
	}
	if prev.Profile != cfg.Profile.Name ||
		prev.Components != (manifest.Components{X: cfg.Profile.XComponents, Y: cfg.Profile.YComponents}) ||
		prev.MaxDim != cfg.Profile.MaxDim {
		return manifest.Entry{}, false
	}
	e, ok := prev.Entries[src.Key]
	if !ok || e.Digest != digest || e.Source != src.RelPath {
		return manifest.Entry{}, false
	}
	if blurhash.Validate(e.BlurHash) != nil {
		return manifest.Entry{}, false
	}
	return e, true
}
