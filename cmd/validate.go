package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/hasher"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

var (
	validateProfile    string
	validateSkipDigest bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <manifest_path>",
	Short: "Validate a blurhash manifest against its source files",
	Long: `Checks that every hash in the manifest parses, uses the manifest's
component grid (and --profile's, when given), and that every source file
still exists with the recorded digest.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateProfile, "profile", "p", "", "also require this profile's component grid")
	validateCmd.Flags().BoolVar(&validateSkipDigest, "skip-digest", false, "only check that sources exist")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	manifestPath := args[0]

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}

	var prof *profile.Profile
	if validateProfile != "" {
		set, err := loadProfiles()
		if err != nil {
			return err
		}
		p := resolveProfile(set, validateProfile)
		prof = &p
	}

	baseDir := sourceRoot(m, manifestPath)
	logVerbose("sources: %s", baseDir)
	errs := validateManifest(m, baseDir, prof, !validateSkipDigest)

	if len(errs) == 0 {
		fmt.Println("  ✓ Manifest is valid")
		fmt.Printf("  ✓ %d entries, all sources present\n", len(m.Entries))
		return nil
	}

	fmt.Printf("  ✗ Manifest has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

// sourceRoot is the recorded build root, or the manifest's directory
// when the tree has moved.
func sourceRoot(m *manifest.Manifest, manifestPath string) string {
	if m.Root != "" {
		if info, err := os.Stat(m.Root); err == nil && info.IsDir() {
			return m.Root
		}
	}
	return filepath.Dir(manifestPath)
}

func validateManifest(m *manifest.Manifest, baseDir string, prof *profile.Profile, checkDigest bool) []string {
	var errs []string

	if err := manifest.CheckCompatible(m, version); err != nil {
		errs = append(errs, err.Error())
	}
	if prof != nil && (m.Components.X != prof.XComponents || m.Components.Y != prof.YComponents) {
		errs = append(errs, fmt.Sprintf("components %dx%d do not match profile %q (%dx%d)",
			m.Components.X, m.Components.Y, prof.Name, prof.XComponents, prof.YComponents))
	}

	for _, key := range sortedKeys(m.Entries) {
		e := m.Entries[key]

		// Check the hash itself.
		if err := blurhash.Validate(e.BlurHash); err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: %v", key, err))
		} else if x, y, err := blurhash.Components(e.BlurHash); err == nil {
			if x != m.Components.X || y != m.Components.Y {
				errs = append(errs, fmt.Sprintf("entry %q: hash has %dx%d components, manifest says %dx%d",
					key, x, y, m.Components.X, m.Components.Y))
			}
			if avg, err := blurhash.AverageColor(e.BlurHash); err == nil &&
				[3]uint8{avg.R, avg.G, avg.B} != e.AvgColor {
				errs = append(errs, fmt.Sprintf("entry %q: avg_color %v does not match hash %v",
					key, e.AvgColor, [3]uint8{avg.R, avg.G, avg.B}))
			}
		}

		// Check dimensions.
		if e.Width <= 0 || e.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid dimensions %dx%d", key, e.Width, e.Height))
		} else if ratio := float64(e.Width) / float64(e.Height); math.Abs(ratio-e.AspectRatio) > 1e-6 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid aspect ratio %.4f", key, e.AspectRatio))
		}

		// Check source file.
		if e.Source == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing source", key))
			continue
		}
		fullPath := filepath.Join(baseDir, filepath.FromSlash(e.Source))
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: source not found: %s", key, e.Source))
			continue
		}
		if info.Size() != e.Size {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: manifest=%d, disk=%d",
				key, e.Size, info.Size()))
		}
		if checkDigest {
			digest, err := hasher.FileDigest(fullPath)
			if err != nil {
				errs = append(errs, fmt.Sprintf("entry %q: %v", key, err))
			} else if digest != e.Digest {
				errs = append(errs, fmt.Sprintf("entry %q: source changed since build (digest %s, manifest %s)",
					key, digest, e.Digest))
			}
		}
	}

	// Verify stats consistency.
	if m.Stats.TotalEntries != len(m.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_entries mismatch: %d != %d", m.Stats.TotalEntries, len(m.Entries)))
	}

	return errs
}
