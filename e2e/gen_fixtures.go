//go:build ignore

// gen_fixtures writes a small image tree for smoke-testing the CLI:
//
//	go run e2e/gen_fixtures.go /tmp/fx
//	blurhash build /tmp/fx --config /tmp/fx/profiles.yaml
//	blurhash validate /tmp/fx/blurhash.manifest.json
//	blurhash encode --raw --width 64 --height 48 /tmp/fx/raw/sky.rgb
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

const profilesYAML = `default: cards
profiles:
  - name: cards
    x_components: 5
    y_components: 4
    max_dim: 48
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	for _, sub := range []string{"cards", "raw", ".cache"} {
		must(os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}

	// One file per input format the scanner recognizes.
	write(filepath.Join(dir, "banner.jpg"), gradient(400, 225), encodeJPEG)
	write(filepath.Join(dir, "logo.png"), alphaGradient(100, 100), encodePNG)
	write(filepath.Join(dir, "icon.gif"), gradient(48, 48), encodeGIF)
	write(filepath.Join(dir, "scan.tiff"), gradient(120, 160), encodeTIFF)
	for i := 1; i <= 3; i++ {
		name := fmt.Sprintf("card-%d.bmp", i)
		write(filepath.Join(dir, "cards", name), solidWithBorder(200, 150, uint8(i*60)), encodeBMP)
	}

	// Hidden directories are skipped by build.
	write(filepath.Join(dir, ".cache", "stale.png"), gradient(8, 8), encodePNG)

	// Packed RGB input for `encode --raw`.
	must(os.WriteFile(filepath.Join(dir, "raw", "sky.rgb"), packRGB(gradient(64, 48)), 0o644))

	must(os.WriteFile(filepath.Join(dir, "profiles.yaml"), []byte(profilesYAML), 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 images in %s\n", dir)
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func solidWithBorder(w, h int, base uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: base, G: base + 40, B: base + 80, A: 255}
			if x < 4 || x >= w-4 || y < 4 || y >= h-4 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// alphaGradient checks that hashing ignores alpha.
func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func packRGB(img *image.NRGBA) []byte {
	b := img.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			out = append(out, c.R, c.G, c.B)
		}
	}
	return out
}

func encodePNG(f *os.File, img image.Image) error  { return png.Encode(f, img) }
func encodeBMP(f *os.File, img image.Image) error  { return bmp.Encode(f, img) }
func encodeTIFF(f *os.File, img image.Image) error { return tiff.Encode(f, img, nil) }

func encodeJPEG(f *os.File, img image.Image) error {
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
}

func encodeGIF(f *os.File, img image.Image) error {
	p := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
	return gif.Encode(f, p, nil)
}

func write(path string, img image.Image, enc func(*os.File, image.Image) error) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(enc(f, img))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
