package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Source represents a discovered raw buffer file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory.
	RelPath string
	// Key is the entry key (relpath without extension).
	Key string
	// Size is the file size in bytes.
	Size int64
}

// ErrDuplicateKey is returned when two inputs map to the same output path,
// e.g. sprite.hex and sprite.raw.
var ErrDuplicateKey = errors.New("duplicate entry key")

// rawExtensions lists recognized raw buffer extensions.
var rawExtensions = map[string]bool{
	".hex":  true,
	".raw":  true,
	".rgba": true,
	".bin":  true,
}

// ScanRaw walks the input directory and returns all raw buffer sources,
// sorted by key. Keys must be unique since each one names an output file.
func ScanRaw(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Skip hidden directories.
			if strings.HasPrefix(info.Name(), ".") && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !rawExtensions[ext] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}

		sources = append(sources, Source{
			AbsPath: path,
			RelPath: filepath.ToSlash(relPath),
			Key:     filepath.ToSlash(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
			Size:    info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Key != sources[j].Key {
			return sources[i].Key < sources[j].Key
		}
		return sources[i].RelPath < sources[j].RelPath
	})
	for i := 1; i < len(sources); i++ {
		if prev, cur := sources[i-1], sources[i]; prev.Key == cur.Key {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateKey, cur.Key, prev.RelPath, cur.RelPath)
		}
	}
	return sources, nil
}
