package convert

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"

	"github.com/AnyUserName/rawpng-cli/internal/hasher"
	"github.com/AnyUserName/rawpng-cli/internal/raw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ErrMismatch is returned by Verify when the image does not match the buffer.
var ErrMismatch = errors.New("image does not match raw buffer")

// maxMismatches caps how many differing pixels a Report keeps.
const maxMismatches = 16

// Mismatch is one differing pixel, in 16×16 grid coordinates.
type Mismatch struct {
	X, Y int
	Want raw.Pixel
	Got  raw.Pixel
}

func (m Mismatch) String() string {
	return fmt.Sprintf("(%d,%d): want rgba(%d,%d,%d,%d), got rgba(%d,%d,%d,%d)",
		m.X, m.Y, m.Want.R, m.Want.G, m.Want.B, m.Want.A, m.Got.R, m.Got.G, m.Got.B, m.Got.A)
}

// Report is the outcome of Verify.
type Report struct {
	Format     string
	Width      int
	Height     int
	Scale      int
	ImageHash  string // xxhash of the image file, comparable to Result.OutputHash
	Checked    int
	Mismatched int
	Mismatches []Mismatch // first maxMismatches only
}

// OK reports whether every pixel matched.
func (r *Report) OK() bool {
	return r.Mismatched == 0
}

// Verify decodes the image at imagePath and checks every grid pixel against
// the raw buffer at rawPath. The image may be a whole-number upscale of the
// grid; one source pixel per cell is sampled.
func Verify(rawPath, imagePath string) (*Report, error) {
	data, _, err := raw.ReadFile(rawPath)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if _, err := raw.Decode(data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", rawPath, err)
	}

	f, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", imagePath, err)
	}

	b := img.Bounds()
	scale := b.Dx() / raw.Width
	if scale < 1 || b.Dx() != raw.Width*scale || b.Dy() != raw.Height*scale {
		return nil, fmt.Errorf("%w: %s is %dx%d", raw.ErrDimensions, imagePath, b.Dx(), b.Dy())
	}

	got, err := raw.Encode(cellView{img: img, scale: scale})
	if err != nil {
		return nil, fmt.Errorf("flatten %s: %w", imagePath, err)
	}
	sum, err := hasher.FileHash(imagePath, 16)
	if err != nil {
		return nil, fmt.Errorf("hash image: %w", err)
	}

	rep := &Report{Format: format, Width: b.Dx(), Height: b.Dy(), Scale: scale, ImageHash: sum}
	_, straight := img.(*image.NRGBA)

	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			w, g := pixelAt(data, x, y), pixelAt(got, x, y)
			rep.Checked++
			if samePixel(w, g, straight) {
				continue
			}
			rep.Mismatched++
			if len(rep.Mismatches) < maxMismatches {
				rep.Mismatches = append(rep.Mismatches, Mismatch{X: x, Y: y, Want: w, Got: g})
			}
		}
	}

	if !rep.OK() {
		return rep, fmt.Errorf("%w: %d of %d pixels differ", ErrMismatch, rep.Mismatched, rep.Checked)
	}
	return rep, nil
}

// cellView presents a scaled image as a 16×16 grid, sampling the top-left
// source pixel of each cell.
type cellView struct {
	img   image.Image
	scale int
}

func (v cellView) ColorModel() color.Model { return v.img.ColorModel() }
func (v cellView) Bounds() image.Rectangle { return image.Rect(0, 0, raw.Width, raw.Height) }

func (v cellView) At(x, y int) color.Color {
	o := v.img.Bounds().Min
	return v.img.At(o.X+x*v.scale, o.Y+y*v.scale)
}

func pixelAt(buf []byte, x, y int) raw.Pixel {
	off := raw.Offset(x, y)
	return raw.Pixel{R: buf[off], G: buf[off+1], B: buf[off+2], A: buf[off+3]}
}

// samePixel compares exactly. Decoders that premultiply lose the color of
// fully transparent pixels, so for those only alpha is compared.
func samePixel(want, got raw.Pixel, straight bool) bool {
	if !straight && want.A == 0 {
		return got.A == 0
	}
	return want == got
}
