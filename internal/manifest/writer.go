package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// DefaultFileName is written into the output directory by `build`.
const DefaultFileName = "blurhash.manifest.json"

// New creates an empty manifest with defaults.
func New(profileName, generatorVersion string) *Manifest {
	return &Manifest{
		Version:          SupportedManifestVersion,
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		GeneratorVersion: generatorVersion,
		Profile:          profileName,
		Entries:          make(map[string]Entry),
	}
}

// ComputeStats recalculates aggregate statistics from entries.  Reused
// and Failed are owned by the builder and left untouched.
func (m *Manifest) ComputeStats() {
	s := m.Stats
	s.TotalEntries = len(m.Entries)
	s.TotalSourceBytes = 0
	s.TotalHashBytes = 0
	for _, e := range m.Entries {
		s.TotalSourceBytes += e.Size
		s.TotalHashBytes += len(e.BlurHash)
	}
	m.Stats = s
}

// encoding is the on-disk representation selected by file name.
type encoding struct {
	cbor bool
	zstd bool
}

// encodingFor maps "x.json", "x.cbor", "x.json.zst" and "x.cbor.zst".
// Any other suffix is treated as JSON.
func encodingFor(path string) encoding {
	var e encoding
	if strings.HasSuffix(path, ".zst") {
		e.zstd = true
		path = strings.TrimSuffix(path, ".zst")
	}
	e.cbor = strings.HasSuffix(path, ".cbor")
	return e
}

// cborEnc uses Core Deterministic Encoding: identical manifests always
// produce identical bytes.
var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("manifest: CBOR encoder initialization failed: " + err.Error())
	}
}

// Marshal serializes m in the encoding implied by path.
func Marshal(m *Manifest, path string) ([]byte, error) {
	enc := encodingFor(path)

	var data []byte
	var err error
	if enc.cbor {
		data, err = cborEnc.Marshal(m)
	} else {
		data, err = json.MarshalIndent(m, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return nil, err
	}

	if enc.zstd {
		zw, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
		data = zw.EncodeAll(data, nil)
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("zstd writer: %w", err)
		}
	}
	return data, nil
}

// Write refreshes stats and writes m to path.
func Write(m *Manifest, path string) error {
	m.ComputeStats()
	data, err := Marshal(m, path)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
