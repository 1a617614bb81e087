package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AnyUserName/rawpng-cli/internal/convert"
	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	convIn       string
	convOut      string
	convFormat   string
	convScale    int
	convProfile  string
	convManifest string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&convIn, "in", "i", convert.DefaultInput, "raw 16x16 RGBA input file")
	f.StringVarP(&convOut, "out", "o", convert.DefaultOutput, "output image file")
	f.StringVarP(&convFormat, "format", "f", "", "output format: png, tiff, bmp (default from --out extension)")
	f.IntVarP(&convScale, "scale", "s", 1, "nearest-neighbour upscale factor")
	f.StringVarP(&convProfile, "profile", "p", "default", "compression profile: "+strings.Join(profile.Names(), ", "))
	f.StringVar(&convManifest, "manifest", "", "also write a JSON manifest to this path")
}

func runConvert(cmd *cobra.Command, _ []string) error {
	opts := convert.Options{
		Input:   stringOpt(cmd, "in", convIn, cfg.Input),
		Output:  stringOpt(cmd, "out", convOut, cfg.Output),
		Format:  stringOpt(cmd, "format", convFormat, cfg.Format),
		Scale:   intOpt(cmd, "scale", convScale, cfg.Scale),
		Profile: profile.Get(stringOpt(cmd, "profile", convProfile, cfg.Profile)),
		Verbose: verbose,
	}
	if opts.Scale < 1 {
		return fmt.Errorf("--scale must be >= 1, got %d", opts.Scale)
	}
	if !profile.Known(opts.Profile.Name) {
		fmt.Fprintf(cmd.ErrOrStderr(), "[rawpng] warning: unknown profile %q, using default compression\n", opts.Profile.Name)
	}

	logVerbose("input:   %s", opts.Input)
	logVerbose("output:  %s", opts.Output)
	logVerbose("profile: %s (scale=%d)", opts.Profile.Name, opts.Scale)

	res, err := convert.Convert(opts)
	if err != nil {
		return err
	}

	if convManifest != "" {
		if err := writeSingleManifest(res, opts); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
		logVerbose("manifest: %s", convManifest)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%dx%d %s, %s)\n",
		res.Input, res.Output, res.Width, res.Height, res.Format, formatBytes(res.OutputSize))
	return nil
}

func writeSingleManifest(res *convert.Result, opts convert.Options) error {
	base := filepath.Dir(convManifest)
	rel := func(p string) string {
		if abs, err := filepath.Abs(p); err == nil {
			if absBase, err := filepath.Abs(base); err == nil {
				if r, err := filepath.Rel(absBase, abs); err == nil {
					return r
				}
			}
		}
		return p
	}

	m := manifest.New(opts.Profile.Name)
	m.BuildInfo = &manifest.BuildInfo{Workers: 1, Format: res.Format, Scale: opts.Scale}
	key := strings.TrimSuffix(filepath.Base(res.Input), filepath.Ext(res.Input))
	m.Entries[key] = res.Entry(rel(res.Input), rel(res.Output))
	return manifest.WriteJSON(m, convManifest)
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
