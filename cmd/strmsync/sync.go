package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/strmsync/internal/app"
	"github.com/vmunix/strmsync/internal/config"
	"github.com/vmunix/strmsync/internal/syncer"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a synchronization",
	Long: `Start a synchronization of the provider catalog into the library.

By default the daemon performs the sync in the background. With --local the
sync runs in this process using the config file, no daemon needed.

Examples:
  strmsync sync               # Incremental sync on the daemon
  strmsync sync --full --wait # Full sync, wait and print the result
  strmsync sync --local       # One-shot sync without a daemon`,
	Args: cobra.NoArgs,
	RunE: runSyncCmd,
}

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the running sync",
	Args:  cobra.NoArgs,
	RunE:  runCancelCmd,
}

// pollInterval is how often --wait checks progress.
var pollInterval = time.Second

func init() {
	rootCmd.AddCommand(syncCmd, cancelCmd)
	syncCmd.Flags().Bool("full", false, "Bypass the incremental delta and smart skip")
	syncCmd.Flags().Bool("local", false, "Run in-process instead of on the daemon")
	syncCmd.Flags().Bool("wait", false, "Wait for the daemon's sync to finish")
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	full, _ := cmd.Flags().GetBool("full")
	local, _ := cmd.Flags().GetBool("local")
	wait, _ := cmd.Flags().GetBool("wait")
	out := cmd.OutOrStdout()

	if local {
		return runLocalSync(cmd.Context(), out, cmd.ErrOrStderr(), full)
	}

	client := NewClient(serverURL)
	accepted, err := client.StartSync(full)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
			return errors.New("a sync is already running")
		}
		return fmt.Errorf("start sync: %w", err)
	}
	if !wait {
		if jsonOutput {
			return printJSON(out, accepted)
		}
		fmt.Fprintf(out, "Sync started (full: %t). Follow with 'strmsync status'.\n", accepted.Full)
		return nil
	}

	return waitForSync(cmd.Context(), client, out)
}

// waitForSync polls until the daemon reports idle, then prints the last result.
func waitForSync(ctx context.Context, client *Client, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		p, err := client.Progress()
		if err != nil {
			return fmt.Errorf("progress: %w", err)
		}
		if !p.Running {
			break
		}
		if !jsonOutput {
			fmt.Fprintf(out, "\r%-20s %d/%d", p.Phase, p.Processed, p.Total)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	if !jsonOutput {
		fmt.Fprintln(out)
	}

	status, err := client.Status()
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if status.LastResult == nil {
		return errors.New("sync finished but no result was reported")
	}
	if jsonOutput {
		return printJSON(out, status.LastResult)
	}
	printResult(out, status.LastResult)
	if !status.LastResult.Success {
		return errors.New("sync did not succeed")
	}
	return nil
}

func runLocalSync(parent context.Context, out, errOut io.Writer, full bool) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := app.NewLogger(errOut, cfg.Server.LogLevel, cfg.Server.LogFormat)
	stack, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = stack.Close() }()

	res, syncErr := stack.Syncer.Sync(ctx, syncer.Request{Full: full})
	if res == nil {
		return syncErr
	}

	view, err := toSyncResult(res)
	if err != nil {
		return err
	}
	if jsonOutput {
		if err := printJSON(out, view); err != nil {
			return err
		}
	} else {
		printResult(out, view)
	}
	return syncErr
}

// toSyncResult converts an engine result to the wire view.
func toSyncResult(r *syncer.Result) (*SyncResult, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var view SyncResult
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	view.Outcome = string(r.Outcome())
	return &view, nil
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.Discover()
}

func runCancelCmd(cmd *cobra.Command, _ []string) error {
	err := NewClient(serverURL).CancelSync()
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		fmt.Fprintln(cmd.OutOrStdout(), "No sync is running.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancellation requested.")
	return nil
}
