package encoder

import (
	"errors"
	"image"
)

// ErrNoAlpha is returned when an image with alpha is routed to an encoder
// that would flatten it.
var ErrNoAlpha = errors.New("format cannot store alpha")

// Encoder encodes an image to a specific lossless format.
type Encoder interface {
	// Format returns the output format name (e.g. "png", "bmp", "tiff").
	Format() string

	// Encode converts the image to bytes losslessly.
	Encode(img image.Image) ([]byte, error)

	// Alpha reports whether non-opaque pixels survive the encoding.
	// Callers must not hand images with alpha to an encoder without it.
	Alpha() bool

	// Extension returns the file extension without dot.
	Extension() string
}
