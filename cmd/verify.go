package cmd

import (
	"fmt"

	"github.com/AnyUserName/rawpng-cli/internal/convert"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [raw_file] [image_file]",
	Short: "Check that an image holds exactly the pixels of a raw buffer",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	rawPath, imgPath := convert.DefaultInput, convert.DefaultOutput
	if cfg.Input != "" {
		rawPath = cfg.Input
	}
	if cfg.Output != "" {
		imgPath = cfg.Output
	}
	if len(args) > 0 {
		rawPath = args[0]
	}
	if len(args) > 1 {
		imgPath = args[1]
	}

	rep, err := convert.Verify(rawPath, imgPath)
	out := cmd.OutOrStdout()
	if rep == nil {
		return err
	}

	if rep.OK() {
		fmt.Fprintln(out, "  ✓ Image matches raw buffer")
		fmt.Fprintf(out, "  ✓ %d pixels checked (%s %dx%d, scale %d)\n",
			rep.Checked, rep.Format, rep.Width, rep.Height, rep.Scale)
		fmt.Fprintf(out, "  ✓ Hash %s\n", rep.ImageHash)
		return nil
	}

	fmt.Fprintf(out, "  ✗ %d of %d pixels differ:\n", rep.Mismatched, rep.Checked)
	for _, m := range rep.Mismatches {
		fmt.Fprintf(out, "    • %s\n", m)
	}
	if rep.Mismatched > len(rep.Mismatches) {
		fmt.Fprintf(out, "    … %d more\n", rep.Mismatched-len(rep.Mismatches))
	}
	return err
}
