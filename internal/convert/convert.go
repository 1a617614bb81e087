package convert

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/AnyUserName/rawpng-cli/internal/encoder"
	"github.com/AnyUserName/rawpng-cli/internal/hasher"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
	"github.com/AnyUserName/rawpng-cli/internal/raw"
	"github.com/disintegration/imaging"
)

// Fixed names used when no paths are given.
const (
	DefaultInput  = "out.hex"
	DefaultOutput = "pimg.png"
)

// Options holds all parameters for a single conversion.
type Options struct {
	Input    string
	Output   string
	Format   string // empty = from output extension, png otherwise
	Scale    int    // integer upscale factor, <= 1 keeps 16x16
	Profile  profile.Profile
	Registry *encoder.Registry // nil = built from Profile
	Verbose  bool
}

// Result describes a finished conversion.
type Result struct {
	Input      string
	Output     string
	Format     string
	Width      int
	Height     int
	InputSize  int64
	OutputSize int64
	Trailing   int // input bytes past raw.BufferSize, ignored
	InputHash  string
	OutputHash string
	Stats      raw.Stats
}

func (o *Options) defaults() {
	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	if o.Profile.Name == "" {
		o.Profile = profile.Get("default")
	}
	if o.Registry == nil {
		o.Registry = encoder.NewRegistry(o.Profile.Compression)
	}
}

// Convert reads a raw 16×16 RGBA buffer and writes it as an image.
// Nothing is created at opts.Output unless the whole conversion succeeds.
func Convert(opts Options) (*Result, error) {
	opts.defaults()

	enc, err := opts.Registry.Resolve(opts.Format, opts.Output)
	if err != nil {
		return nil, err
	}

	data, trailing, err := raw.ReadFile(opts.Input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if trailing > 0 {
		logf(opts.Verbose, "warn: %s has %d trailing bytes past %d, ignored", opts.Input, trailing, raw.BufferSize)
	}

	grid, err := raw.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", opts.Input, err)
	}

	stats := raw.Analyze(grid)
	if stats.HasAlpha() && !enc.Alpha() {
		return nil, fmt.Errorf("%w: %s has %d non-opaque pixels, %s output would flatten them",
			encoder.ErrNoAlpha, opts.Input, stats.Transparent+stats.Translucent, enc.Format())
	}

	var img image.Image = grid
	if opts.Scale > 1 {
		img = imaging.Resize(grid, raw.Width*opts.Scale, raw.Height*opts.Scale, imaging.NearestNeighbor)
		logf(opts.Verbose, "scaled to %dx%d", raw.Width*opts.Scale, raw.Height*opts.Scale)
	}

	out, err := enc.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", enc.Format(), err)
	}

	if err := writeAtomic(opts.Output, out); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	logf(opts.Verbose, "wrote %s (%s, %d bytes)", opts.Output, enc.Format(), len(out))

	b := img.Bounds()
	return &Result{
		Input:      opts.Input,
		Output:     opts.Output,
		Format:     enc.Format(),
		Width:      b.Dx(),
		Height:     b.Dy(),
		InputSize:  int64(len(data)),
		OutputSize: int64(len(out)),
		Trailing:   trailing,
		InputHash:  hasher.ContentHash(data[:raw.BufferSize], 16),
		OutputHash: hasher.ContentHash(out, 16),
		Stats:      stats,
	}, nil
}

// writeAtomic writes data next to path and renames it into place, so a
// failed run never leaves a truncated image behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".rawpng-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func logf(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[rawpng] "+format+"\n", args...)
	}
}

// Entry turns the result into a manifest entry. Paths are stored as given,
// normally relative to the manifest location.
func (r *Result) Entry(inPath, outPath string) manifest.Entry {
	avg := r.Stats.Avg
	return manifest.Entry{
		Input: manifest.InputInfo{
			Path:     filepath.ToSlash(inPath),
			Size:     r.InputSize,
			Hash:     r.InputHash,
			Trailing: r.Trailing,
		},
		Output: manifest.OutputInfo{
			Path:   filepath.ToSlash(outPath),
			Format: r.Format,
			Width:  r.Width,
			Height: r.Height,
			Size:   r.OutputSize,
			Hash:   r.OutputHash,
		},
		HasAlpha: r.Stats.HasAlpha(),
		AvgColor: [4]uint8{avg.R, avg.G, avg.B, avg.A},
	}
}
