package profile

import (
	"image/png"
	"sort"
)

// Profile defines PNG output parameters.
type Profile struct {
	Name        string
	Compression png.CompressionLevel
}

// Built-in profiles.
var profiles = map[string]Profile{
	"default": {Name: "default", Compression: png.DefaultCompression},
	"best":    {Name: "best", Compression: png.BestCompression},
	"fast":    {Name: "fast", Compression: png.BestSpeed},
	"none":    {Name: "none", Compression: png.NoCompression},
}

// Get returns a profile by name. Falls back to default if unknown.
func Get(name string) Profile {
	if p, ok := profiles[name]; ok {
		return p
	}
	p := profiles["default"]
	p.Name = name // preserve requested name
	return p
}

// Known reports whether name is a built-in profile.
func Known(name string) bool {
	_, ok := profiles[name]
	return ok
}

// Names lists the built-in profile names, sorted.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
