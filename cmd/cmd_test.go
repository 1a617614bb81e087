package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/rawpng-cli/internal/encoder"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/raw"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with fresh flag state and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// chdir moves into dir for the duration of the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })
}

func checker() []byte {
	buf := make([]byte, raw.BufferSize)
	for y := 0; y < raw.Height; y++ {
		for x := 0; x < raw.Width; x++ {
			off := raw.Offset(x, y)
			if (x+y)%2 == 0 {
				copy(buf[off:], []byte{255, 0, 255, 255})
			} else {
				copy(buf[off:], []byte{0, 0, 0, 64})
			}
		}
	}
	return buf
}

func TestRoot_DefaultPaths(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("out.hex", checker(), 0o644))

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "out.hex -> pimg.png")
	assert.FileExists(t, filepath.Join(dir, "pimg.png"))

	out, err = execute(t, "verify")
	require.NoError(t, err)
	assert.Contains(t, out, "256 pixels checked")
	assert.Regexp(t, `Hash [0-9a-f]{16}`, out)
}

func TestRoot_BMPWithAlpha(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("out.hex", checker(), 0o644))

	_, err := execute(t, "-o", "pimg.bmp")
	require.ErrorIs(t, err, encoder.ErrNoAlpha)
	assert.NoFileExists(t, filepath.Join(dir, "pimg.bmp"))
}

func TestRoot_MissingInput(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	_, err := execute(t)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "pimg.png"))
}

func TestRoot_FlagsAndManifest(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "sprite.raw")
	out := filepath.Join(dir, "sprite.png")
	man := filepath.Join(dir, "sprite.json")
	require.NoError(t, os.WriteFile(in, checker(), 0o644))

	_, err := execute(t, "-i", in, "-o", out, "--scale", "2", "--profile", "best", "--manifest", man)
	require.NoError(t, err)

	m, err := manifest.ReadJSON(man)
	require.NoError(t, err)
	e, ok := m.Entries["sprite"]
	require.True(t, ok)
	assert.Equal(t, "sprite.raw", e.Input.Path)
	assert.Equal(t, "sprite.png", e.Output.Path)
	assert.Equal(t, 32, e.Output.Width)
	assert.True(t, e.HasAlpha)
	assert.Equal(t, "best", m.Profile)
}

func TestRoot_BadScale(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("out.hex", checker(), 0o644))

	_, err := execute(t, "--scale", "0")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "pimg.png"))
}

func TestRoot_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile("tile.bin", checker(), 0o644))
	require.NoError(t, os.WriteFile("rawpng.yaml", []byte("input: tile.bin\noutput: tile.tiff\n"), 0o644))

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "tiff")
	assert.FileExists(t, filepath.Join(dir, "tile.tiff"))

	// Flags win over the file.
	_, err = execute(t, "-o", "flag.png")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "flag.png"))
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := execute(t, "--config", "nope.yaml")
	assert.Error(t, err)
}

func TestInspect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.hex")
	require.NoError(t, os.WriteFile(path, append(checker(), 0, 0), 0o644))

	out, err := execute(t, "inspect", path)
	require.NoError(t, err)
	assert.Regexp(t, `Opaque:\s+128 pixels`, out)
	assert.Regexp(t, `Translucent:\s+128 pixels`, out)
	assert.Regexp(t, `Transparent:\s+0 pixels`, out)
	assert.Regexp(t, `Trailing:\s+2 bytes`, out)
	assert.Regexp(t, `Alpha:\s+true`, out)
}

func TestInspect_Short(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.hex")
	require.NoError(t, os.WriteFile(path, make([]byte, 100), 0o644))

	_, err := execute(t, "inspect", path)
	assert.ErrorIs(t, err, raw.ErrShortBuffer)
}

func TestVerify_Mismatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "out.hex")
	img := filepath.Join(dir, "pimg.png")
	require.NoError(t, os.WriteFile(in, checker(), 0o644))

	_, err := execute(t, "-i", in, "-o", img)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(in, make([]byte, raw.BufferSize), 0o644))
	out, err := execute(t, "verify", in, img)
	require.Error(t, err)
	assert.Contains(t, out, "256 of 256 pixels differ")
	assert.Contains(t, out, "more")
}

func TestBatch(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "dist")
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.hex"), checker(), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "b.hex"), make([]byte, raw.BufferSize), 0o644))

	out, err := execute(t, "batch", in, "-o", outDir, "-w", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Converted:   2")

	m, err := manifest.ReadJSON(filepath.Join(outDir, manifest.FileName))
	require.NoError(t, err)
	assert.Len(t, m.Entries, 2)
	assert.FileExists(t, filepath.Join(outDir, "a.png"))
	assert.FileExists(t, filepath.Join(outDir, "b.png"))
}
