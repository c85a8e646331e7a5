package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/blang/semver"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Unmarshal parses data in the encoding implied by path.  Unknown
// fields are ignored so older tools can read newer minor versions.
func Unmarshal(data []byte, path string) (*Manifest, error) {
	enc := encodingFor(path)

	if enc.zstd {
		zr, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd reader: %w", err)
		}
		defer zr.Close()
		data, err = zr.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress: %w", err)
		}
	}

	var m Manifest
	var err error
	if enc.cbor {
		err = cbor.Unmarshal(data, &m)
	} else {
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, err
	}
	if m.Entries == nil {
		m.Entries = make(map[string]Entry)
	}
	return &m, nil
}

// Read loads the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Unmarshal(data, path)
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return m, nil
}

// CheckCompatible reports whether a tool at toolVersion can consume m:
// the schema version must be supported and m must not come from a newer
// major release of the generator.
func CheckCompatible(m *Manifest, toolVersion string) error {
	if m.Version != SupportedManifestVersion {
		return fmt.Errorf("unsupported manifest version: %d", m.Version)
	}
	tool, err := parseVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("tool version: %w", err)
	}
	if m.GeneratorVersion == "" {
		return nil
	}
	gen, err := parseVersion(m.GeneratorVersion)
	if err != nil {
		return fmt.Errorf("generator_version: %w", err)
	}
	if gen.Major > tool.Major {
		return fmt.Errorf("manifest written by generator %s, newer than %s", gen, tool)
	}
	return nil
}

func parseVersion(s string) (semver.Version, error) {
	return semver.Parse(strings.TrimPrefix(s, "v"))
}
