package blurhash

import "errors"

// Error kinds.  Every error returned by this package wraps exactly one
// of these, so callers branch with errors.Is.
var (
	ErrRange                 = errors.New("blurhash: value out of range")
	ErrSizeMismatch          = errors.New("blurhash: size mismatch")
	ErrFormat                = errors.New("blurhash: invalid hash")
	ErrOverflow              = errors.New("blurhash: integer overflow")
	ErrCapabilityUnavailable = errors.New("blurhash: capability unavailable")
)
