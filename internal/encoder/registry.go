package encoder

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps format names and file extensions to encoders.
type Registry struct {
	byFormat map[string]Encoder
	byExt    map[string]Encoder
	order    []string
}

// NewRegistry creates a registry holding every built-in encoder.
func NewRegistry() *Registry {
	r := &Registry{
		byFormat: make(map[string]Encoder),
		byExt:    make(map[string]Encoder),
	}
	for _, enc := range []Encoder{
		&PNGEncoder{},
		&JPEGEncoder{},
		&BMPEncoder{},
		&TIFFEncoder{},
	} {
		r.byFormat[enc.Format()] = enc
		r.order = append(r.order, enc.Format())
		for _, ext := range enc.Extensions() {
			r.byExt[ext] = enc
		}
	}
	return r
}

// Get returns an encoder for the given format or extension, or nil.
func (r *Registry) Get(format string) Encoder {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if enc, ok := r.byFormat[format]; ok {
		return enc
	}
	return r.byExt[format]
}

// ForPath picks an encoder from the extension of path.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%s: no file extension; use one of %s", path, r)
	}
	enc := r.Get(ext)
	if enc == nil {
		return nil, fmt.Errorf("%s: unsupported output format %q; use one of %s", path, ext, r)
	}
	return enc, nil
}

// Available returns all format names in registration order.
func (r *Registry) Available() []string {
	return append([]string(nil), r.order...)
}

// String returns a summary of available formats.
func (r *Registry) String() string {
	return strings.Join(r.order, ", ")
}
