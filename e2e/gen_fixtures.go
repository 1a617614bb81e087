//go:build ignore

// gen_fixtures creates raw 16x16 RGBA buffers for the E2E smoke test.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	size = 16
	bpp  = 4
)

type rgba [4]uint8

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	os.MkdirAll(filepath.Join(dir, "icons"), 0o755)

	// Default input name picked up by a bare `rawpng` run.
	writeRaw(filepath.Join(dir, "out.hex"), gradient())

	writeRaw(filepath.Join(dir, "icons", "clear.hex"), solid(rgba{0, 0, 0, 0}))
	writeRaw(filepath.Join(dir, "icons", "white.hex"), solid(rgba{255, 255, 255, 255}))
	writeRaw(filepath.Join(dir, "icons", "coin.hex"), coin())

	// Truncated buffer, expected to fail conversion.
	os.WriteFile(filepath.Join(dir, "short.raw"), gradient()[:1000], 0o644)

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 5 fixtures in %s\n", dir)
}

func gradient() []byte {
	return fill(func(x, y int) rgba {
		return rgba{uint8(x * 17), uint8(y * 17), 128, uint8(255 - x*8)}
	})
}

func solid(c rgba) []byte {
	return fill(func(int, int) rgba { return c })
}

// coin is a filled circle on a transparent background.
func coin() []byte {
	return fill(func(x, y int) rgba {
		dx, dy := 2*x-15, 2*y-15
		if dx*dx+dy*dy <= 14*14 {
			return rgba{230, 180, 40, 255}
		}
		return rgba{}
	})
}

func fill(at func(x, y int) rgba) []byte {
	buf := make([]byte, size*size*bpp)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := at(x, y)
			copy(buf[(y*size+x)*bpp:], c[:])
		}
	}
	return buf
}

func writeRaw(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
}
