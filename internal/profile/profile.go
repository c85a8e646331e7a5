package profile

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/blurhash-cli/internal/blurhash"
)

// DefaultName is the profile used when none is requested.
const DefaultName = "default"

// Profile defines the hashing parameters for a class of images.
type Profile struct {
	Name        string  `yaml:"name"`
	XComponents int     `yaml:"x_components"`
	YComponents int     `yaml:"y_components"`
	MaxDim      int     `yaml:"max_dim"` // longest side sampled before encoding; 0 keeps the source size
	Punch       float64 `yaml:"punch"`   // contrast used by previews; 0 means 1
}

// Built-in profiles.
var builtins = map[string]Profile{
	"default": {
		Name:        "default",
		XComponents: 4,
		YComponents: 3,
		MaxDim:      64,
		Punch:       1,
	},
	"compact": {
		Name:        "compact",
		XComponents: 3,
		YComponents: 3,
		MaxDim:      32,
		Punch:       1,
	},
	"detailed": {
		Name:        "detailed",
		XComponents: 9,
		YComponents: 9,
		MaxDim:      128,
		Punch:       1,
	},
}

// Get returns a built-in profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	return Builtins().Get(name)
}

// HashLength is the length of every hash produced with p.
func (p Profile) HashLength() int {
	return blurhash.HashLength(p.XComponents, p.YComponents)
}

// EffectivePunch maps an unset punch to 1.
func (p Profile) EffectivePunch() float64 {
	if p.Punch == 0 {
		return 1
	}
	return p.Punch
}

// Validate checks p against the codec's parameter ranges.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile: name is required")
	}
	if p.XComponents < blurhash.MinComponents || p.XComponents > blurhash.MaxComponents {
		return fmt.Errorf("profile %q: x_components must be between %d and %d, got %d",
			p.Name, blurhash.MinComponents, blurhash.MaxComponents, p.XComponents)
	}
	if p.YComponents < blurhash.MinComponents || p.YComponents > blurhash.MaxComponents {
		return fmt.Errorf("profile %q: y_components must be between %d and %d, got %d",
			p.Name, blurhash.MinComponents, blurhash.MaxComponents, p.YComponents)
	}
	if p.MaxDim < 0 {
		return fmt.Errorf("profile %q: max_dim must not be negative", p.Name)
	}
	if p.Punch != 0 && (math.IsNaN(p.Punch) || math.IsInf(p.Punch, 0) || p.Punch < 1) {
		return fmt.Errorf("profile %q: punch must be greater than or equal to 1 and finite", p.Name)
	}
	return nil
}

// ─── Sets ───

// Set is a named collection of profiles with a default.
type Set struct {
	profiles    map[string]Profile
	defaultName string
}

// Builtins returns a fresh set holding only the built-in profiles.
func Builtins() *Set {
	s := &Set{profiles: make(map[string]Profile, len(builtins)), defaultName: DefaultName}
	for name, p := range builtins {
		s.profiles[name] = p
	}
	return s
}

// Lookup returns the profile named name, if present.
func (s *Set) Lookup(name string) (Profile, bool) {
	p, ok := s.profiles[name]
	return p, ok
}

// Get returns the profile named name, or the set's default with the
// requested name preserved.
func (s *Set) Get(name string) Profile {
	if p, ok := s.profiles[name]; ok {
		return p
	}
	p := s.profiles[s.defaultName]
	if name != "" {
		p.Name = name
	}
	return p
}

// DefaultName is the profile used when none is requested.
func (s *Set) DefaultName() string { return s.defaultName }

// Names returns the profile names in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fileConfig is the on-disk layout of a profile file.
type fileConfig struct {
	Default  string    `yaml:"default"`
	Profiles []Profile `yaml:"profiles"`
}

// LoadFile reads a YAML profile file and merges its profiles over the
// built-ins. A profile with a built-in name replaces it.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return Parse(data)
}

// Parse is LoadFile on an in-memory document.
func Parse(data []byte) (*Set, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile file: %w", err)
	}

	s := Builtins()
	for _, p := range cfg.Profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if p.Punch == 0 {
			p.Punch = 1
		}
		s.profiles[p.Name] = p
	}

	if cfg.Default != "" {
		if _, ok := s.profiles[cfg.Default]; !ok {
			return nil, fmt.Errorf("default profile %q is not defined", cfg.Default)
		}
		s.defaultName = cfg.Default
	}
	return s, nil
}
