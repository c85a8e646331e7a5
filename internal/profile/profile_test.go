package profile

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltins(t *testing.T) {
	cases := []struct {
		name   string
		x, y   int
		maxDim int
		length int
	}{
		{"default", 4, 3, 64, 28},
		{"compact", 3, 3, 32, 22},
		{"detailed", 9, 9, 128, 166},
	}
	for _, c := range cases {
		p := Get(c.name)
		if p.Name != c.name || p.XComponents != c.x || p.YComponents != c.y || p.MaxDim != c.maxDim {
			t.Errorf("%s: got %+v", c.name, p)
		}
		if p.HashLength() != c.length {
			t.Errorf("%s: HashLength = %d, want %d", c.name, p.HashLength(), c.length)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", c.name, err)
		}
	}
}

func TestGet_FallbackPreservesName(t *testing.T) {
	p := Get("nonexistent")
	if p.Name != "nonexistent" {
		t.Errorf("name = %q", p.Name)
	}
	if p.XComponents != 4 || p.YComponents != 3 {
		t.Errorf("fallback components = %dx%d, want 4x3", p.XComponents, p.YComponents)
	}
	if Get("").Name != DefaultName {
		t.Errorf("empty name should resolve to %q", DefaultName)
	}
}

func TestValidate(t *testing.T) {
	ok := Profile{Name: "p", XComponents: 1, YComponents: 9}
	if err := ok.Validate(); err != nil {
		t.Errorf("valid profile: %v", err)
	}
	bad := []Profile{
		{XComponents: 4, YComponents: 3},
		{Name: "p", XComponents: 0, YComponents: 3},
		{Name: "p", XComponents: 4, YComponents: 10},
		{Name: "p", XComponents: 4, YComponents: 3, MaxDim: -1},
		{Name: "p", XComponents: 4, YComponents: 3, Punch: 0.5},
		{Name: "p", XComponents: 4, YComponents: 3, Punch: math.NaN()},
		{Name: "p", XComponents: 4, YComponents: 3, Punch: math.Inf(1)},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("%+v: expected error", p)
		}
	}
}

func TestEffectivePunch(t *testing.T) {
	if got := (Profile{}).EffectivePunch(); got != 1 {
		t.Errorf("unset punch = %v", got)
	}
	if got := (Profile{Punch: 2.5}).EffectivePunch(); got != 2.5 {
		t.Errorf("punch = %v", got)
	}
}

func TestParse_MergesOverBuiltins(t *testing.T) {
	doc := `
default: cards
profiles:
  - name: cards
    x_components: 5
    y_components: 4
    max_dim: 48
  - name: compact
    x_components: 2
    y_components: 2
    max_dim: 16
    punch: 1.5
`
	s, err := Parse([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if s.DefaultName() != "cards" {
		t.Errorf("default = %q", s.DefaultName())
	}
	cards, ok := s.Lookup("cards")
	if !ok || cards.XComponents != 5 || cards.YComponents != 4 || cards.MaxDim != 48 || cards.Punch != 1 {
		t.Errorf("cards = %+v", cards)
	}
	compact, _ := s.Lookup("compact")
	if compact.XComponents != 2 || compact.Punch != 1.5 {
		t.Errorf("compact not overridden: %+v", compact)
	}
	if _, ok := s.Lookup("detailed"); !ok {
		t.Error("built-in detailed lost")
	}
	if got := s.Get("unknown"); got.XComponents != 5 || got.Name != "unknown" {
		t.Errorf("fallback = %+v", got)
	}
	want := []string{"cards", "compact", "default", "detailed"}
	if got := strings.Join(s.Names(), ","); got != strings.Join(want, ",") {
		t.Errorf("names = %s", got)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"syntax":        "profiles: [",
		"bad range":     "profiles:\n  - name: x\n    x_components: 12\n    y_components: 3\n",
		"missing name":  "profiles:\n  - x_components: 3\n    y_components: 3\n",
		"undef default": "default: nope\n",
		"inf punch":     "profiles:\n  - name: x\n    x_components: 3\n    y_components: 3\n    punch: .inf\n",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestBuiltins_Isolated(t *testing.T) {
	s, err := Parse([]byte("profiles:\n  - name: default\n    x_components: 1\n    y_components: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Get("default").XComponents != 1 {
		t.Fatal("override not applied")
	}
	if Get("default").XComponents != 4 {
		t.Error("override leaked into built-ins")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte("profiles:\n  - name: tiny\n    x_components: 1\n    y_components: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Lookup("tiny"); !ok {
		t.Error("tiny not loaded")
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file: expected error")
	}
}
