package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/AnyUserName/rawpng-cli/internal/convert"
	"github.com/AnyUserName/rawpng-cli/internal/encoder"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
)

// Config holds all parameters for a batch run.
type Config struct {
	InputDir  string
	OutputDir string
	Profile   profile.Profile
	Format    string // empty = png
	Scale     int
	Workers   int
	Verbose   bool
}

// Pipeline converts every raw buffer under a directory.
type Pipeline struct {
	cfg      Config
	registry *encoder.Registry
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Scale < 1 {
		cfg.Scale = 1
	}
	return &Pipeline{
		cfg:      cfg,
		registry: encoder.NewRegistry(cfg.Profile.Compression),
	}
}

type result struct {
	src   Source
	entry manifest.Entry
	err   error
}

// Run converts all sources and returns the manifest. Individual failures are
// logged and counted; Run fails only when nothing could be converted.
func (p *Pipeline) Run() (*manifest.Manifest, error) {
	enc, err := p.registry.Resolve(p.cfg.Format, "")
	if err != nil {
		return nil, err
	}
	p.logf("%s", p.registry.String())

	sources, err := ScanRaw(p.cfg.InputDir)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no raw buffers found in %s", p.cfg.InputDir)
	}
	p.logf("found %d raw buffers", len(sources))

	results := make([]result, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			results[idx] = p.process(s, enc)
		}(i, src)
	}
	wg.Wait()

	m := manifest.New(p.cfg.Profile.Name)
	m.BuildInfo = &manifest.BuildInfo{
		Workers: p.cfg.Workers,
		Format:  enc.Format(),
		Scale:   p.cfg.Scale,
	}

	var failed int
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "[rawpng] error: %v\n", r.err)
			continue
		}
		m.Entries[r.src.Key] = r.entry
	}
	if failed == len(sources) {
		return nil, fmt.Errorf("all %d raw buffers failed to convert", failed)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "[rawpng] warning: %d of %d raw buffers had errors\n", failed, len(sources))
	}

	m.Stats.Failed = failed
	m.ComputeStats()
	return m, nil
}

func (p *Pipeline) process(src Source, enc encoder.Encoder) result {
	r := result{src: src}

	relOut := src.Key + "." + enc.Extension()
	outPath := filepath.Join(p.cfg.OutputDir, filepath.FromSlash(relOut))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		r.err = fmt.Errorf("create dir for %s: %w", relOut, err)
		return r
	}

	res, err := convert.Convert(convert.Options{
		Input:    src.AbsPath,
		Output:   outPath,
		Format:   enc.Format(),
		Scale:    p.cfg.Scale,
		Profile:  p.cfg.Profile,
		Registry: p.registry,
		Verbose:  p.cfg.Verbose,
	})
	if err != nil {
		r.err = fmt.Errorf("%s: %w", src.RelPath, err)
		return r
	}
	p.logf("done: %s -> %s", src.RelPath, relOut)

	r.entry = res.Entry(src.RelPath, relOut)
	return r
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[rawpng] "+format+"\n", args...)
	}
}
