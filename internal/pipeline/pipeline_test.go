package pipeline

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatal(err)
	}
}

// fixtureTree lays out:
//
//	red.png          2x2 solid red
//	grad.png         32x24 gradient
//	sub/photo.jpg    200x100 gradient
//	.cache/skip.png  hidden, ignored
//	notes.txt        not an image
func fixtureTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), solidImage(2, 2, color.NRGBA{255, 0, 0, 255}))
	writePNG(t, filepath.Join(dir, "grad.png"), gradientImage(32, 24))
	writeJPEG(t, filepath.Join(dir, "sub", "photo.jpg"), gradientImage(200, 100))
	writePNG(t, filepath.Join(dir, ".cache", "skip.png"), solidImage(2, 2, color.NRGBA{0, 0, 0, 255}))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestScanImages(t *testing.T) {
	dir := fixtureTree(t)
	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	for _, s := range sources {
		keys = append(keys, s.Key+"="+s.Format)
	}
	want := "grad=png,red=png,sub/photo=jpeg"
	if got := strings.Join(keys, ","); got != want {
		t.Errorf("keys = %s, want %s", got, want)
	}
	for _, s := range sources {
		if s.Size <= 0 {
			t.Errorf("%s: size %d", s.Key, s.Size)
		}
	}
}

func TestScanImages_KeyCollision(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), solidImage(2, 2, color.NRGBA{0, 0, 0, 255}))
	writeJPEG(t, filepath.Join(dir, "a.jpg"), solidImage(2, 2, color.NRGBA{0, 0, 0, 255}))
	sources, err := ScanImages(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("got %d sources", len(sources))
	}
	if sources[0].Key != "a" || sources[1].Key != "a.png" {
		t.Errorf("keys = %q, %q", sources[0].Key, sources[1].Key)
	}
}

func TestPipelineRun(t *testing.T) {
	dir := fixtureTree(t)
	p := New(Config{InputDir: dir, Profile: profile.Get("default"), Workers: 2, GeneratorVersion: "0.1.0"})
	m, err := p.Run()
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(m.Entries))
	}
	if m.Profile != "default" || m.GeneratorVersion != "0.1.0" {
		t.Errorf("profile %q generator %q", m.Profile, m.GeneratorVersion)
	}
	if m.Components.X != 4 || m.Components.Y != 3 || m.MaxDim != 64 {
		t.Errorf("components %+v max_dim %d", m.Components, m.MaxDim)
	}
	for key, e := range m.Entries {
		if len(e.BlurHash) != 28 {
			t.Errorf("%s: hash %q has length %d", key, e.BlurHash, len(e.BlurHash))
		}
		x, y, err := blurhash.Components(e.BlurHash)
		if err != nil || x != 4 || y != 3 {
			t.Errorf("%s: components %dx%d err=%v", key, x, y, err)
		}
		if len(e.Digest) != 16 {
			t.Errorf("%s: digest %q", key, e.Digest)
		}
	}

	photo := m.Entries["sub/photo"]
	if photo.Source != "sub/photo.jpg" || photo.Format != "jpeg" {
		t.Errorf("photo = %+v", photo)
	}
	if photo.Width != 200 || photo.Height != 100 || photo.AspectRatio != 2 {
		t.Errorf("photo dims %dx%d ratio %v", photo.Width, photo.Height, photo.AspectRatio)
	}

	red := m.Entries["red"]
	if red.AvgColor != [3]uint8{255, 0, 0} {
		t.Errorf("red avg = %v", red.AvgColor)
	}
	if m.Stats.TotalEntries != 3 || m.Stats.Failed != 0 || m.Stats.Reused != 0 {
		t.Errorf("stats = %+v", m.Stats)
	}
	if m.Stats.TotalHashBytes != 3*28 {
		t.Errorf("total_hash_bytes = %d", m.Stats.TotalHashBytes)
	}
}

func TestPipelineRun_SingleComponentGolden(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "red.png"), solidImage(2, 2, color.NRGBA{255, 0, 0, 255}))
	prof := profile.Profile{Name: "dc", XComponents: 1, YComponents: 1, MaxDim: 64}
	m, err := New(Config{InputDir: dir, Profile: prof, Workers: 1}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Entries["red"].BlurHash; got != "00TI:j" {
		t.Errorf("hash = %q, want %q", got, "00TI:j")
	}
}

func TestPipelineRun_ReusesUnchanged(t *testing.T) {
	dir := fixtureTree(t)
	cfg := Config{InputDir: dir, Profile: profile.Get("default"), Workers: 4}
	first, err := New(cfg).Run()
	if err != nil {
		t.Fatal(err)
	}

	// Rewrite one file with different content.
	writePNG(t, filepath.Join(dir, "red.png"), solidImage(2, 2, color.NRGBA{0, 0, 255, 255}))

	cfg.Previous = first
	second, err := New(cfg).Run()
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.Reused != 2 {
		t.Errorf("reused = %d, want 2", second.Stats.Reused)
	}
	if second.Entries["grad"] != first.Entries["grad"] {
		t.Error("unchanged entry differs")
	}
	if second.Entries["red"].BlurHash == first.Entries["red"].BlurHash {
		t.Error("changed file kept its old hash")
	}
	if second.Entries["red"].AvgColor != [3]uint8{0, 0, 255} {
		t.Errorf("red avg = %v", second.Entries["red"].AvgColor)
	}
}

func TestPipelineRun_ProfileChangeInvalidatesReuse(t *testing.T) {
	dir := fixtureTree(t)
	first, err := New(Config{InputDir: dir, Profile: profile.Get("default"), Workers: 2}).Run()
	if err != nil {
		t.Fatal(err)
	}
	second, err := New(Config{InputDir: dir, Profile: profile.Get("compact"), Workers: 2, Previous: first}).Run()
	if err != nil {
		t.Fatal(err)
	}
	if second.Stats.Reused != 0 {
		t.Errorf("reused = %d across profiles", second.Stats.Reused)
	}
	for key, e := range second.Entries {
		if len(e.BlurHash) != 22 {
			t.Errorf("%s: length %d, want 22", key, len(e.BlurHash))
		}
	}
}

func TestPipelineRun_PartialFailure(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "ok.png"), gradientImage(16, 16))
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := New(Config{InputDir: dir, Profile: profile.Get("default"), Workers: 2}).Run()
	if err != nil {
		t.Fatalf("partial failure should not fail the build: %v", err)
	}
	if len(m.Entries) != 1 || m.Stats.Failed != 1 {
		t.Errorf("entries=%d failed=%d", len(m.Entries), m.Stats.Failed)
	}
}

func TestPipelineRun_Errors(t *testing.T) {
	empty := t.TempDir()
	if _, err := New(Config{InputDir: empty, Profile: profile.Get("default")}).Run(); err == nil {
		t.Error("empty dir: expected error")
	}

	broken := t.TempDir()
	if err := os.WriteFile(filepath.Join(broken, "x.png"), []byte("junk"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(Config{InputDir: broken, Profile: profile.Get("default")}).Run(); err == nil {
		t.Error("all failed: expected error")
	}

	bad := profile.Profile{Name: "bad", XComponents: 10, YComponents: 3}
	if _, err := New(Config{InputDir: empty, Profile: bad}).Run(); err == nil {
		t.Error("invalid profile: expected error")
	}
}

func TestPipelineRun_Deterministic(t *testing.T) {
	dir := fixtureTree(t)
	a, err := New(Config{InputDir: dir, Profile: profile.Get("detailed"), Workers: 1}).Run()
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(Config{InputDir: dir, Profile: profile.Get("detailed"), Workers: 8}).Run()
	if err != nil {
		t.Fatal(err)
	}
	for key, e := range a.Entries {
		if b.Entries[key] != e {
			t.Errorf("%s differs between worker counts", key)
		}
	}
}
