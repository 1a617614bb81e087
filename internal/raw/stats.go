package raw

import "image"

// Stats summarizes the pixels of a decoded grid.
type Stats struct {
	Opaque      int   // A == 255
	Transparent int   // A == 0
	Translucent int   // 0 < A < 255
	Avg         Pixel // per-channel mean, straight alpha
}

// HasAlpha reports whether any pixel is not fully opaque.
func (s Stats) HasAlpha() bool {
	return s.Transparent+s.Translucent > 0
}

// Analyze walks the grid once and fills Stats.
func Analyze(img *image.NRGBA) Stats {
	var s Stats
	b := img.Bounds()
	count := uint64(b.Dx() * b.Dy())
	if count == 0 {
		return s
	}

	var rSum, gSum, bSum, aSum uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		row := img.Pix[i : i+b.Dx()*BytesPerPixel : i+b.Dx()*BytesPerPixel]
		for ; len(row) >= BytesPerPixel; row = row[BytesPerPixel:] {
			rSum += uint64(row[0])
			gSum += uint64(row[1])
			bSum += uint64(row[2])
			aSum += uint64(row[3])
			switch row[3] {
			case 0xff:
				s.Opaque++
			case 0:
				s.Transparent++
			default:
				s.Translucent++
			}
		}
	}

	s.Avg = Pixel{
		R: uint8(rSum / count),
		G: uint8(gSum / count),
		B: uint8(bSum / count),
		A: uint8(aSum / count),
	}
	return s
}
