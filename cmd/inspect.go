package cmd

import (
	"fmt"
	"io"

	"github.com/AnyUserName/rawpng-cli/internal/convert"
	"github.com/AnyUserName/rawpng-cli/internal/hasher"
	"github.com/AnyUserName/rawpng-cli/internal/raw"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [raw_file]",
	Short: "Display pixel statistics for a raw 16x16 RGBA buffer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := convert.DefaultInput
	if cfg.Input != "" {
		path = cfg.Input
	}
	if len(args) == 1 {
		path = args[0]
	}

	data, trailing, err := raw.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	grid, err := raw.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	printInspect(cmd.OutOrStdout(), path, data, trailing, raw.Analyze(grid))
	return nil
}

func printInspect(w io.Writer, path string, data []byte, trailing int, s raw.Stats) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  File:         %s\n", path)
	fmt.Fprintf(w, "  Size:         %s\n", formatBytes(int64(len(data))))
	fmt.Fprintf(w, "  Grid:         %dx%d, %d bytes/pixel\n", raw.Width, raw.Height, raw.BytesPerPixel)
	fmt.Fprintf(w, "  Hash:         %s\n", hasher.ContentHash(data[:raw.BufferSize], 16))
	if trailing > 0 {
		fmt.Fprintf(w, "  Trailing:     %d bytes (ignored)\n", trailing)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  Opaque:       %4d pixels\n", s.Opaque)
	fmt.Fprintf(w, "  Translucent:  %4d pixels\n", s.Translucent)
	fmt.Fprintf(w, "  Transparent:  %4d pixels\n", s.Transparent)
	fmt.Fprintf(w, "  Alpha:        %t\n", s.HasAlpha())
	fmt.Fprintf(w, "  Average:      rgba(%d,%d,%d,%d) #%02x%02x%02x%02x\n",
		s.Avg.R, s.Avg.G, s.Avg.B, s.Avg.A, s.Avg.R, s.Avg.G, s.Avg.B, s.Avg.A)
	fmt.Fprintln(w)
}
