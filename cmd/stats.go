package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dir_or_manifest>",
	Short: "Display statistics for a blurhash manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for manifest inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, manifest.DefaultFileName)
	}

	m, err := manifest.Read(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

func printStats(m *manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Manifest version: %d\n", m.Version)
	fmt.Printf("  Generated:        %s\n", m.GeneratedAt)
	if m.GeneratorVersion != "" {
		fmt.Printf("  Generator:        blurhash %s\n", m.GeneratorVersion)
	}
	fmt.Printf("  Profile:          %s (%dx%d, max-dim=%d)\n",
		m.Profile, m.Components.X, m.Components.Y, m.MaxDim)
	if m.BuildInfo != nil {
		fmt.Printf("  Workers:          %d\n", m.BuildInfo.Workers)
	}
	fmt.Println()

	s := m.Stats
	fmt.Printf("  Total entries:    %d\n", s.TotalEntries)
	fmt.Printf("  Source size:      %s\n", formatBytes(s.TotalSourceBytes))
	fmt.Printf("  Hash bytes:       %s\n", formatBytes(int64(s.TotalHashBytes)))
	if s.TotalEntries > 0 {
		fmt.Printf("  Avg hash length:  %.1f chars\n", float64(s.TotalHashBytes)/float64(s.TotalEntries))
	}
	if s.Reused > 0 || s.Failed > 0 {
		fmt.Printf("  Reused / failed:  %d / %d\n", s.Reused, s.Failed)
	}
	fmt.Println()

	// Per-format breakdown.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, e := range m.Entries {
		fs := formatStats[e.Format]
		fs.count++
		fs.bytes += e.Size
		formatStats[e.Format] = fs
	}
	var formats []string
	for f := range formatStats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	fmt.Println("  Format breakdown:")
	for _, f := range formats {
		fs := formatStats[f]
		fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
	}
	fmt.Println()

	// Orientation breakdown.
	var landscape, portrait, square int
	for _, e := range m.Entries {
		switch {
		case e.Width > e.Height:
			landscape++
		case e.Width < e.Height:
			portrait++
		default:
			square++
		}
	}
	fmt.Println("  Orientation:")
	fmt.Printf("    landscape %4d   portrait %4d   square %4d\n", landscape, portrait, square)

	// Warnings.
	var warnings []string
	for _, key := range sortedKeys(m.Entries) {
		if err := blurhash.Validate(m.Entries[key].BlurHash); err != nil {
			warnings = append(warnings, fmt.Sprintf("entry %q: %v", key, err))
		}
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
	}
	fmt.Println()
}

func sortedKeys(entries map[string]manifest.Entry) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
