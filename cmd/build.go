package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/pipeline"
)

var (
	buildOut     string
	buildProfile string
	buildWorkers int
	buildForce   bool
)

var buildCmd = &cobra.Command{
	Use:   "build <input_dir>",
	Short: "Hash every image under a directory into a manifest",
	Long: `Scans input directory for images (png, jpg, jpeg, webp, gif, bmp, tiff),
computes a BlurHash for each one and writes a manifest file.

The manifest encoding follows the --out extension: .json or .cbor,
optionally followed by .zst. Entries whose source digest is unchanged
since the last build are reused unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "manifest path (default <input_dir>/"+manifest.DefaultFileName+")")
	buildCmd.Flags().StringVarP(&buildProfile, "profile", "p", "", "hashing profile")
	buildCmd.Flags().IntVarP(&buildWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	buildCmd.Flags().BoolVar(&buildForce, "force", false, "rehash every image, ignoring the previous manifest")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputDir := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputDir)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	out := buildOut
	if out == "" {
		out = filepath.Join(absInput, manifest.DefaultFileName)
	}
	absOut, err := filepath.Abs(out)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	set, err := loadProfiles()
	if err != nil {
		return err
	}
	prof := resolveProfile(set, buildProfile)
	workers, err := resolveWorkers(cmd, buildWorkers)
	if err != nil {
		return err
	}

	logVerbose("input:    %s", absInput)
	logVerbose("manifest: %s", absOut)
	logVerbose("profile:  %s (%dx%d, max-dim=%d)", prof.Name, prof.XComponents, prof.YComponents, prof.MaxDim)

	var prev *manifest.Manifest
	if !buildForce {
		prev = loadPrevious(absOut)
	}

	if err := os.MkdirAll(filepath.Dir(absOut), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Run pipeline.
	p := pipeline.New(pipeline.Config{
		InputDir:         absInput,
		Profile:          prof,
		Workers:          workers,
		Verbose:          verbose,
		GeneratorVersion: version,
		Previous:         prev,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write manifest.
	if err := manifest.Write(m, absOut); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBuildReport(m, absOut, time.Since(start))
	return nil
}

// loadPrevious returns the manifest at path if it can seed an
// incremental build, or nil.
func loadPrevious(path string) *manifest.Manifest {
	m, err := manifest.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logVerbose("ignoring previous manifest: %v", err)
		}
		return nil
	}
	if err := manifest.CheckCompatible(m, version); err != nil {
		logVerbose("ignoring previous manifest: %v", err)
		return nil
	}
	logVerbose("previous manifest: %d entries", len(m.Entries))
	return m
}

func printBuildReport(m *manifest.Manifest, path string, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║             blurhash build complete              ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := m.Stats
	fmt.Printf("  Entries:     %d\n", stats.TotalEntries)
	if stats.Reused > 0 {
		fmt.Printf("  Unchanged:   %d (reused from previous manifest)\n", stats.Reused)
	}
	if stats.Failed > 0 {
		fmt.Printf("  Failed:      %d\n", stats.Failed)
	}
	fmt.Printf("  Components:  %dx%d (%d chars per hash)\n",
		m.Components.X, m.Components.Y, blurhash.HashLength(m.Components.X, m.Components.Y))
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalSourceBytes))
	fmt.Printf("  Hash bytes:  %s\n", formatBytes(int64(stats.TotalHashBytes)))
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	// Top 10 largest sources.
	if len(m.Entries) > 0 {
		type entrySize struct {
			key  string
			size int64
			hash string
		}
		var items []entrySize
		for key, e := range m.Entries {
			items = append(items, entrySize{key, e.Size, e.BlurHash})
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].size != items[j].size {
				return items[i].size > items[j].size
			}
			return items[i].key < items[j].key
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d largest sources:\n", n)
		for _, it := range items[:n] {
			fmt.Printf("    %-40s %8s  %s\n", truncKey(it.key, 40), formatBytes(it.size), it.hash)
		}
		fmt.Println()
	}

	if info, err := os.Stat(path); err == nil {
		fmt.Printf("  Manifest:    %s (%s)\n", filepath.Base(path), formatBytes(info.Size()))
		fmt.Println()
	}
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
