package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/AnyUserName/rawpng-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	verbose    bool
	configPath string
	cfg        = &config.Config{}
)

var rootCmd = &cobra.Command{
	Use:   "rawpng",
	Short: "Convert a raw 16x16 RGBA dump into a PNG",
	Long: `rawpng — reads a headerless 1024-byte buffer of 16x16 RGBA pixels
(row-major, 4 bytes per pixel) and writes it as a lossless PNG.

With no arguments it converts out.hex into pimg.png in the working directory.`,
	Version:           version,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runConvert,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML defaults file (default ./"+config.DefaultPath+" if present)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"rawpng %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// loadConfig reads the YAML defaults before any command runs.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path, required := configPath, true
	if path == "" {
		path, required = config.DefaultPath, false
	}
	c, err := config.Load(path, required)
	if err != nil {
		return err
	}
	cfg = c
	logVerbose("config: %s (required=%t)", path, required)
	return nil
}

// stringOpt returns the flag value unless the flag was left unset and the
// config file provides one.
func stringOpt(cmd *cobra.Command, flag, value, fromConfig string) string {
	if !cmd.Flags().Changed(flag) && fromConfig != "" {
		return fromConfig
	}
	return value
}

func intOpt(cmd *cobra.Command, flag string, value, fromConfig int) int {
	if !cmd.Flags().Changed(flag) && fromConfig != 0 {
		return fromConfig
	}
	return value
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[rawpng] "+format+"\n", args...)
	}
}
