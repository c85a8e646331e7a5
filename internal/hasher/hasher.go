// Package hasher computes content digests of source images so that
// rebuilds can skip files whose bytes have not changed.
package hasher

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

// DigestLen is the length of a digest string: xxHash64 as 16 hex chars.
const DigestLen = 16

// Digest returns the xxHash64 of data as a hex string.
func Digest(data []byte) string {
	return format(xxhash.Sum64(data))
}

// DigestReader streams r through xxHash64.
func DigestReader(r io.Reader) (string, error) {
	h := xxhash.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return format(h.Sum64()), nil
}

// FileDigest streams the file at path through xxHash64.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	d, err := DigestReader(f)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return d, nil
}

func format(sum uint64) string {
	return hex.EncodeToString(binary.BigEndian.AppendUint64(nil, sum))
}
