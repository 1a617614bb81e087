package manifest

// Manifest is the record written by a rawpng batch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run parameters for diagnostics.
type BuildInfo struct {
	Workers int    `json:"workers"`
	Format  string `json:"format,omitempty"`
	Scale   int    `json:"scale,omitempty"`
}

// Entry describes one raw buffer and the image written from it.
type Entry struct {
	Input    InputInfo  `json:"input"`
	Output   OutputInfo `json:"output"`
	HasAlpha bool       `json:"has_alpha"`
	AvgColor [4]uint8   `json:"avg_color"` // [R,G,B,A]
}

// InputInfo holds metadata about the source buffer.
type InputInfo struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Hash     string `json:"hash"`               // xxhash64 of the first 1024 bytes
	Trailing int    `json:"trailing,omitempty"` // ignored bytes past 1024
}

// OutputInfo describes the encoded image.
type OutputInfo struct {
	Path   string `json:"path"` // relative to the manifest
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
	Hash   string `json:"hash"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalEntries     int   `json:"total_entries"`
	WithAlpha        int   `json:"with_alpha"`
	Failed           int   `json:"failed,omitempty"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "rawpng.manifest.json"
