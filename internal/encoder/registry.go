package encoder

import (
	"fmt"
	"image/png"
	"path/filepath"
	"strings"
)

// DefaultFormat is used when neither a format nor a known extension is given.
const DefaultFormat = "png"

// Registry holds the available lossless encoders.
type Registry struct {
	encoders map[string]Encoder
}

// NewRegistry creates a registry whose PNG encoder uses the given level.
func NewRegistry(level png.CompressionLevel) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
	}

	all := []Encoder{
		&PNGEncoder{Level: level},
		&BMPEncoder{},
		&TIFFEncoder{},
	}
	for _, enc := range all {
		r.encoders[enc.Format()] = enc
	}

	return r
}

// Get returns an encoder for the given format, or nil if unavailable.
func (r *Registry) Get(format string) Encoder {
	return r.encoders[normalize(format)]
}

// Resolve picks the encoder for an explicit format, or from the output
// path's extension when format is empty. Unknown extensions fall back to PNG;
// an unknown explicit format is an error.
func (r *Registry) Resolve(format, path string) (Encoder, error) {
	if format != "" {
		enc := r.Get(format)
		if enc == nil {
			return nil, fmt.Errorf("unsupported format %q (%s)", format, r)
		}
		return enc, nil
	}
	if enc := r.Get(strings.TrimPrefix(filepath.Ext(path), ".")); enc != nil {
		return enc, nil
	}
	return r.encoders[DefaultFormat], nil
}

// Available returns all format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range []string{"png", "tiff", "bmp"} {
		if _, ok := r.encoders[f]; ok {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}

func normalize(format string) string {
	f := strings.ToLower(format)
	if f == "tif" {
		f = "tiff"
	}
	return f
}
