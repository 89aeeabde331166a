package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status and progress",
	Long: `Show whether a sync is running, its live progress and the last result.

Examples:
  strmsync status            # Dashboard
  strmsync status --verify   # Also check provider, Plex and library root`,
	Args: cobra.NoArgs,
	RunE: runStatusCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().Bool("verify", false, "Check connections and library root")
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	client := NewClient(serverURL)
	runVerify, _ := cmd.Flags().GetBool("verify")
	out := cmd.OutOrStdout()

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	var verify *VerifyResponse
	if runVerify {
		verify, err = client.Verify()
		if err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
	}

	if jsonOutput {
		if verify != nil {
			return printJSON(out, map[string]any{"status": status, "verify": verify})
		}
		return printJSON(out, status)
	}

	printStatus(out, serverURL, status)
	if verify != nil {
		fmt.Fprintln(out)
		printVerify(out, verify)
	}
	return nil
}

func printStatus(w io.Writer, server string, s *StatusResponse) {
	fmt.Fprintf(w, "strmsync v%s | Server: %s | Library: %s\n\n", s.Version, server, s.LibraryRoot)
	printProgress(w, &s.Progress)
	if s.LastResult != nil {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Last run (%s)\n", s.LastResult.StartedAt.Local().Format("2006-01-02 15:04"))
		printResult(w, s.LastResult)
	} else {
		fmt.Fprintln(w, "\nNo sync has run since the daemon started.")
	}
}

func printVerify(w io.Writer, v *VerifyResponse) {
	fmt.Fprintln(w, "Checks")
	for _, c := range v.Checks {
		switch {
		case c.Skip:
			fmt.Fprintf(w, "  - %-14s not configured\n", c.Name)
		case c.OK:
			fmt.Fprintf(w, "  ✓ %-14s ok\n", c.Name)
		default:
			fmt.Fprintf(w, "  ✗ %-14s %s\n", c.Name, c.Error)
		}
	}
}
