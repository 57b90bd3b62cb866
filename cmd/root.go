package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time or from the embedded VERSION file.
var Version = "dev"

var configDirFlag string

var rootCmd = &cobra.Command{
	Use:   "exfix",
	Short: "Fix photo and video dates from metadata, filenames and folders",
	Long: `exfix finds the most precise capture date for media files by looking at
embedded metadata, the filename and the folder names, then writes it back to
the metadata fields and the filesystem times.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

// ApplyVersion copies Version onto the root command.
func ApplyVersion() {
	rootCmd.Version = Version
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "", "Directory holding exfix.toml (default: user config dir)")
}
