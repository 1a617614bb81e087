package encoder

import (
	"bytes"
	"image"

	"golang.org/x/image/bmp"
)

// BMPEncoder encodes images to BMP via golang.org/x/image/bmp.
// Non-opaque images are written as 32-bit pixels under a BITMAPINFOHEADER,
// whose fourth byte readers treat as padding. Only opaque images round-trip.
type BMPEncoder struct{}

func (e *BMPEncoder) Format() string    { return "bmp" }
func (e *BMPEncoder) Extension() string { return "bmp" }
func (e *BMPEncoder) Alpha() bool       { return false }

func (e *BMPEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
