package manifest

// Manifest is the top-level output of a blurhash build.
type Manifest struct {
	Version          int              `json:"version"`
	GeneratedAt      string           `json:"generated_at"`
	GeneratorVersion string           `json:"generator_version"`
	Profile          string           `json:"profile"`
	Components       Components       `json:"components"`
	MaxDim           int              `json:"max_dim"`
	Root             string           `json:"root"` // directory entries are relative to
	BuildInfo        *BuildInfo       `json:"build_info,omitempty"`
	Entries          map[string]Entry `json:"entries"`
	Stats            Stats            `json:"stats"`
}

// Components is the basis grid every entry was encoded with.
type Components struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BuildInfo captures build-time parameters for diagnostics.
type BuildInfo struct {
	Workers int `json:"workers"`
}

// Entry describes one source image and its hash.
type Entry struct {
	Source      string   `json:"source"` // slash-separated, relative to Root
	Format      string   `json:"format"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Size        int64    `json:"size"`
	Digest      string   `json:"digest"` // xxhash64 of the source file, hex
	BlurHash    string   `json:"blurhash"`
	AvgColor    [3]uint8 `json:"avg_color"` // DC term as sRGB [R,G,B]
	AspectRatio float64  `json:"aspect_ratio"`
}

// Stats aggregates build metrics.
type Stats struct {
	TotalEntries     int   `json:"total_entries"`
	TotalSourceBytes int64 `json:"total_source_bytes"`
	TotalHashBytes   int   `json:"total_hash_bytes"`
	Reused           int   `json:"reused,omitempty"` // entries carried over from a previous build
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1
