package encoder

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func sprite(alpha bool) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			a := uint8(255)
			if alpha {
				a = uint8(x * 16)
			}
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 77, A: a})
		}
	}
	return img
}

// samePixels compares straight-alpha values of every pixel.
func samePixels(t *testing.T, want *image.NRGBA, got image.Image) {
	t.Helper()
	if got.Bounds() != want.Bounds() {
		t.Fatalf("bounds: got %v, want %v", got.Bounds(), want.Bounds())
	}
	b := want.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.NRGBAModel.Convert(got.At(x, y)).(color.NRGBA)
			w := want.NRGBAAt(x, y)
			if w.A == 0 {
				// Color of fully transparent pixels is not observable.
				if g.A != 0 {
					t.Fatalf("pixel (%d,%d): alpha %d, want 0", x, y, g.A)
				}
				continue
			}
			if g != w {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestPNGEncoder_Roundtrip(t *testing.T) {
	src := sprite(true)
	enc := &PNGEncoder{Level: png.BestCompression}
	data, err := enc.Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := dec.(*image.NRGBA); !ok {
		t.Errorf("decoded type %T, want *image.NRGBA", dec)
	}
	samePixels(t, src, dec)
}

func TestPNGEncoder_Deterministic(t *testing.T) {
	enc := &PNGEncoder{Level: png.DefaultCompression}
	a, err := enc.Encode(sprite(true))
	if err != nil {
		t.Fatal(err)
	}
	b, err := enc.Encode(sprite(true))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different PNG bytes")
	}
}

func TestTIFFEncoder_Roundtrip(t *testing.T) {
	src := sprite(true)
	data, err := (&TIFFEncoder{}).Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	samePixels(t, src, dec)
}

func TestBMPEncoder_Opaque(t *testing.T) {
	src := sprite(false)
	data, err := (&BMPEncoder{}).Encode(src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	samePixels(t, src, dec)
}

func TestEncoder_Alpha(t *testing.T) {
	r := NewRegistry(png.DefaultCompression)
	want := map[string]bool{"png": true, "tiff": true, "bmp": false}
	for name, alpha := range want {
		enc := r.Get(name)
		if enc == nil {
			t.Fatalf("%s not registered", name)
		}
		if enc.Alpha() != alpha {
			t.Errorf("%s: Alpha() = %v, want %v", name, enc.Alpha(), alpha)
		}
	}
}

// BMP readers treat the fourth byte of a 32-bit pixel as padding, which is
// why BMPEncoder reports no alpha support.
func TestBMPEncoder_DropsAlpha(t *testing.T) {
	data, err := (&BMPEncoder{}).Encode(sprite(true))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	dec, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := dec.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := dec.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("pixel (%d,%d): alpha %#x, want opaque", x, y, a)
			}
		}
	}
}

// PNG color types from the IHDR chunk, which starts at byte 8 of the file.
const (
	pngTruecolor      = 2
	pngTruecolorAlpha = 6
)

func TestPNGEncoder_ColorType(t *testing.T) {
	enc := &PNGEncoder{Level: png.DefaultCompression}
	tests := []struct {
		name  string
		alpha bool
		want  byte
	}{
		{"opaque", false, pngTruecolor},
		{"translucent", true, pngTruecolorAlpha},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := sprite(tt.alpha)
			data, err := enc.Encode(src)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if string(data[12:16]) != "IHDR" {
				t.Fatalf("first chunk %q, want IHDR", data[12:16])
			}
			if depth := data[24]; depth != 8 {
				t.Errorf("bit depth %d, want 8", depth)
			}
			if got := data[25]; got != tt.want {
				t.Errorf("color type %d, want %d", got, tt.want)
			}

			dec, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			samePixels(t, src, dec)
		})
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry(png.DefaultCompression)

	tests := []struct {
		format, path, want string
	}{
		{"", "pimg.png", "png"},
		{"", "pimg.TIF", "tiff"},
		{"", "pimg.bmp", "bmp"},
		{"", "pimg", "png"},
		{"", "pimg.jpg", "png"},
		{"tiff", "pimg.png", "tiff"},
		{"PNG", "pimg.bmp", "png"},
	}
	for _, tt := range tests {
		enc, err := r.Resolve(tt.format, tt.path)
		if err != nil {
			t.Errorf("Resolve(%q, %q): %v", tt.format, tt.path, err)
			continue
		}
		if enc.Format() != tt.want {
			t.Errorf("Resolve(%q, %q): got %s, want %s", tt.format, tt.path, enc.Format(), tt.want)
		}
	}

	if _, err := r.Resolve("jpeg", "x.png"); err == nil {
		t.Error("expected error for lossy format")
	}
}

func TestRegistry_String(t *testing.T) {
	r := NewRegistry(png.DefaultCompression)
	if got := r.String(); got != "encoders: png, tiff, bmp" {
		t.Errorf("String: got %q", got)
	}
}
