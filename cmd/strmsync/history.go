package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent sync runs",
	Args:  cobra.NoArgs,
	RunE:  runHistoryCmd,
}

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List stored catalog snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotsCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd, snapshotsCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	resp, err := NewClient(serverURL).History(limit)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), resp)
	}
	printHistory(cmd.OutOrStdout(), resp)
	return nil
}

func printHistory(w io.Writer, resp *HistoryResponse) {
	if len(resp.Items) == 0 {
		fmt.Fprintln(w, "No sync runs recorded.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tMODE\tOUTCOME\tDURATION\tMOVIES\tEPISODES\tORPHANS\tERRORS")
	for i := range resp.Items {
		r := &resp.Items[i]
		mode := "incr"
		if r.Full {
			mode = "full"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t+%d ~%d\t+%d ~%d\t%d\t%d\n",
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			mode,
			outcomeLabel(r),
			formatDuration(time.Duration(r.DurationMS)*time.Millisecond),
			r.MoviesCreated, r.MoviesUpdated,
			r.EpisodesCreated, r.EpisodesUpdated,
			r.OrphansDeleted,
			r.Errors,
		)
	}
	_ = tw.Flush()
}

func runSnapshotsCmd(cmd *cobra.Command, _ []string) error {
	resp, err := NewClient(serverURL).Snapshots()
	if err != nil {
		return fmt.Errorf("snapshots: %w", err)
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp)
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(out, "No snapshots stored.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSAVED\tSIZE")
	for _, s := range resp.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, s.SavedAt.Local().Format("2006-01-02 15:04:05"), formatSize(s.SizeBytes))
	}
	return tw.Flush()
}
