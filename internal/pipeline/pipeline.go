package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/AnyUserName/blurhash-cli/internal/imageio"
	"github.com/AnyUserName/blurhash-cli/internal/manifest"
	"github.com/AnyUserName/blurhash-cli/internal/profile"
)

// Config holds all parameters for a build pipeline run.
type Config struct {
	InputDir         string
	Profile          profile.Profile
	Workers          int
	Verbose          bool
	GeneratorVersion string
	// Previous is the last manifest written for InputDir. Entries whose
	// digest still matches are carried over without decoding.
	Previous *manifest.Manifest
}

// Pipeline orchestrates hashing of a directory tree.
type Pipeline struct {
	cfg     Config
	adapter *imageio.Adapter
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		cfg:     cfg,
		adapter: imageio.NewAdapter(cfg.Profile.MaxDim),
	}
}

// Run executes the full build pipeline and returns the manifest.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	if err := p.cfg.Profile.Validate(); err != nil {
		return nil, err
	}

	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputDir)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[blurhash] found %d images\n", len(sources))
	}

	// Step 2: Hash images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = processImage(s, p.cfg, p.adapter)

			if p.cfg.Verbose && results[idx].err == nil {
				state := "hashed"
				if results[idx].reused {
					state = "unchanged"
				}
				fmt.Fprintf(os.Stderr, "[blurhash] %s: %s %s\n",
					state, s.Key, results[idx].entry.BlurHash)
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into manifest.
	m := manifest.New(p.cfg.Profile.Name, p.cfg.GeneratorVersion)
	m.Components = manifest.Components{X: p.cfg.Profile.XComponents, Y: p.cfg.Profile.YComponents}
	m.MaxDim = p.cfg.Profile.MaxDim
	if root, err := filepath.Abs(p.cfg.InputDir); err == nil {
		m.Root = root
	} else {
		m.Root = p.cfg.InputDir
	}

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		m.Entries[r.key] = r.entry
		if r.reused {
			m.Stats.Reused++
		}
	}

	// Report errors but don't fail the entire build for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[blurhash] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to process", len(errs))
		}
		fmt.Fprintf(os.Stderr, "[blurhash] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	m.BuildInfo = &manifest.BuildInfo{Workers: p.cfg.Workers}
	m.Stats.Failed = len(errs)
	m.ComputeStats()
	return m, nil
}
