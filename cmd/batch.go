package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/AnyUserName/rawpng-cli/internal/manifest"
	"github.com/AnyUserName/rawpng-cli/internal/pipeline"
	"github.com/AnyUserName/rawpng-cli/internal/profile"
	"github.com/spf13/cobra"
)

var (
	batchOutDir  string
	batchProfile string
	batchFormat  string
	batchScale   int
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <input_dir>",
	Short: "Convert every raw buffer in a directory and write a manifest",
	Long: `Scans input directory for raw 16x16 RGBA buffers (hex, raw, rgba, bin),
converts each one to <out>/<key>.<ext> and writes rawpng.manifest.json
describing inputs, outputs and content hashes.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().StringVarP(&batchOutDir, "out", "o", "./rawpng_out", "output directory")
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "default", "compression profile")
	batchCmd.Flags().StringVarP(&batchFormat, "format", "f", "", "output format (default png)")
	batchCmd.Flags().IntVarP(&batchScale, "scale", "s", 1, "nearest-neighbour upscale factor")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	start := time.Now()

	absInput, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(batchOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	prof := profile.Get(stringOpt(cmd, "profile", batchProfile, cfg.Profile))
	scale := intOpt(cmd, "scale", batchScale, cfg.Scale)
	if scale < 1 {
		return fmt.Errorf("--scale must be >= 1, got %d", scale)
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (scale=%d)", prof.Name, scale)

	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p := pipeline.New(pipeline.Config{
		InputDir:  absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Format:    stringOpt(cmd, "format", batchFormat, cfg.Format),
		Scale:     scale,
		Workers:   intOpt(cmd, "workers", batchWorkers, cfg.Workers),
		Verbose:   verbose,
	})

	m, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	manifestPath := filepath.Join(absOutput, manifest.FileName)
	if err := manifest.WriteJSON(m, manifestPath); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	printBatchReport(cmd.OutOrStdout(), m, time.Since(start))
	return nil
}

func printBatchReport(w io.Writer, m *manifest.Manifest, elapsed time.Duration) {
	s := m.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Converted:   %d\n", s.TotalEntries)
	if s.Failed > 0 {
		fmt.Fprintf(w, "  Failed:      %d\n", s.Failed)
	}
	fmt.Fprintf(w, "  With alpha:  %d\n", s.WithAlpha)
	fmt.Fprintf(w, "  Input size:  %s\n", formatBytes(s.TotalInputBytes))
	fmt.Fprintf(w, "  Output size: %s\n", formatBytes(s.TotalOutputBytes))
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	if m.BuildInfo != nil {
		fmt.Fprintf(w, "  Workers:     %d\n", m.BuildInfo.Workers)
	}
	fmt.Fprintln(w)

	keys := make([]string, 0, len(m.Entries))
	for k := range m.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		e := m.Entries[k]
		fmt.Fprintf(w, "    %-32s → %s (%s)\n", k, e.Output.Path, formatBytes(e.Output.Size))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Manifest:    %s\n", manifest.FileName)
	fmt.Fprintln(w)
}
