// Package raw reads fixed 16×16 RGBA pixel dumps.
//
// A raw buffer has no header: 256 consecutive 4-byte records (R, G, B, A)
// in row-major order, so pixel (x, y) starts at byte (y*Width+x)*4.
// Alpha is straight (not premultiplied), which maps onto image.NRGBA.
package raw

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
)

const (
	Width         = 16
	Height        = 16
	BytesPerPixel = 4
	BufferSize    = Width * Height * BytesPerPixel // 1024
)

var (
	// ErrShortBuffer is returned when a buffer holds fewer than BufferSize bytes.
	ErrShortBuffer = errors.New("raw buffer too short")
	// ErrDimensions is returned when an image is not Width×Height.
	ErrDimensions = errors.New("image is not 16x16")
)

// Pixel is one straight-alpha RGBA record.
type Pixel = color.NRGBA

// Offset returns the byte offset of pixel (x, y) inside a raw buffer.
func Offset(x, y int) int {
	return (y*Width + x) * BytesPerPixel
}

// Decode builds the 16×16 pixel grid from buf. Bytes past BufferSize are
// ignored; a shorter buffer is rejected instead of partially filled.
func Decode(buf []byte) (*image.NRGBA, error) {
	if len(buf) < BufferSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrShortBuffer, len(buf), BufferSize)
	}

	img := image.NewNRGBA(image.Rect(0, 0, Width, Height))
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			off := Offset(x, y)
			bs := buf[off : off+BytesPerPixel]
			img.SetNRGBA(x, y, Pixel{R: bs[0], G: bs[1], B: bs[2], A: bs[3]})
		}
	}
	return img, nil
}

// Encode flattens a 16×16 image back into a raw buffer.
func Encode(img image.Image) ([]byte, error) {
	b := img.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		return nil, fmt.Errorf("%w: got %dx%d", ErrDimensions, b.Dx(), b.Dy())
	}

	buf := make([]byte, BufferSize)
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			off := Offset(x, y)
			buf[off] = c.R
			buf[off+1] = c.G
			buf[off+2] = c.B
			buf[off+3] = c.A
		}
	}
	return buf, nil
}

// ReadFile reads a raw buffer from disk. It also reports how many bytes
// follow the first BufferSize bytes, which Decode will not look at.
func ReadFile(path string) ([]byte, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	trailing := 0
	if len(data) > BufferSize {
		trailing = len(data) - BufferSize
	}
	return data, trailing, nil
}
