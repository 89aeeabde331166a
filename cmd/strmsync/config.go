package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/strmsync/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate configuration file",
	Long:  "Validates config.toml syntax, required fields, and environment variable substitution without starting the server.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return err
		}
		path = found
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n\n", path)

	cfg, err := config.Load(path)
	if err != nil {
		var configErr *config.ConfigError
		if errors.As(err, &configErr) {
			printConfigErrors(out, configErr)
			return errors.New("configuration invalid")
		}
		return fmt.Errorf("failed to load config: %w", err)
	}

	printConfigSummary(out, cfg)
	fmt.Fprintln(out, "\nConfiguration valid!")
	return nil
}

func printConfigErrors(w io.Writer, e *config.ConfigError) {
	if len(e.Missing) > 0 {
		fmt.Fprintln(w, "Missing environment variables:")
		for _, m := range e.Missing {
			fmt.Fprintf(w, "  - %s\n", m)
		}
		fmt.Fprintln(w)
	}

	if len(e.Errors) > 0 {
		fmt.Fprintln(w, "Validation errors:")
		for _, err := range e.Errors {
			fmt.Fprintf(w, "  - %s\n", err)
		}
		fmt.Fprintln(w)
	}
}

func printConfigSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration Summary:")
	fmt.Fprintf(w, "  Server:     %s:%d (log: %s, %s)\n", cfg.Server.Host, cfg.Server.Port, cfg.Server.LogLevel, cfg.Server.LogFormat)
	fmt.Fprintf(w, "  Database:   %s\n", cfg.Database.Path)
	fmt.Fprintf(w, "  Provider:   %s (user %s)\n", cfg.Provider.URL, cfg.Provider.Username)
	fmt.Fprintf(w, "  Library:    %s (folders: %s)\n", cfg.Library.Root, cfg.Sync.FolderMode)

	kinds := []string{}
	if cfg.Sync.Movies {
		kinds = append(kinds, "movies"+categoryFilter(cfg.Sync.MovieCategories))
	}
	if cfg.Sync.Series {
		kinds = append(kinds, "series"+categoryFilter(cfg.Sync.SeriesCategories))
	}
	fmt.Fprintf(w, "  Sync:       %s\n", strings.Join(kinds, ", "))

	opts := cfg.SyncOptions()
	fmt.Fprintf(w, "  Workers:    %d\n", opts.Concurrency())

	features := []string{}
	if cfg.Sync.Incremental {
		features = append(features, "incremental")
	}
	if cfg.Sync.SmartSkip {
		features = append(features, "smart-skip")
	}
	if cfg.Sync.CleanupOrphans {
		features = append(features, "orphan-cleanup")
	}
	if len(features) > 0 {
		fmt.Fprintf(w, "  Features:   %s\n", strings.Join(features, ", "))
	}
	if d := cfg.Sync.Interval.Duration; d > 0 {
		fmt.Fprintf(w, "  Schedule:   every %s\n", d)
	} else {
		fmt.Fprintln(w, "  Schedule:   manual")
	}

	if cfg.Plex != nil {
		fmt.Fprintf(w, "  Plex:       %s\n", cfg.Plex.URL)
	}
}

func categoryFilter(ids []int) string {
	if len(ids) == 0 {
		return " (all categories)"
	}
	return fmt.Sprintf(" (%d categories)", len(ids))
}
