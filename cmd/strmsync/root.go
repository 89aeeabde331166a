package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "strmsync",
	Short: "CLI client for the strmsync daemon",
	Long: `strmsync - CLI client for strmsync

Mirrors an Xtream provider's VOD catalog into a tree of .strm pointer
files that media servers can index.

Run 'strmsyncd' to start the server daemon, or use 'strmsync sync --local'
for a one-shot sync without it.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8585", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: discovered)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("strmsync {{.Version}}\n")
}
