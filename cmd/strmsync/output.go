package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize renders a byte count using binary units.
func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// formatDuration rounds d for display.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	case d < time.Minute:
		return d.Round(100 * time.Millisecond).String()
	default:
		return d.Round(time.Second).String()
	}
}

func outcomeLabel(r *SyncResult) string {
	if r.Outcome != "" {
		return strings.ReplaceAll(r.Outcome, "_", " ")
	}
	switch {
	case r.Cancelled:
		return "cancelled"
	case !r.Success:
		return "failed"
	case r.Errors > 0:
		return "succeeded with errors"
	default:
		return "succeeded"
	}
}

func printResult(w io.Writer, r *SyncResult) {
	mode := "incremental"
	if r.Full {
		mode = "full"
	}
	fmt.Fprintf(w, "Sync %s (%s", outcomeLabel(r), mode)
	if r.FullReason != "" && r.Full {
		fmt.Fprintf(w, ": %s", r.FullReason)
	}
	fmt.Fprintf(w, ") in %s\n", formatDuration(time.Duration(r.DurationMS)*time.Millisecond))
	if r.Error != "" {
		fmt.Fprintf(w, "  Error:     %s\n", r.Error)
	}
	fmt.Fprintf(w, "  Movies:    %d created, %d updated, %d skipped\n", r.MoviesCreated, r.MoviesUpdated, r.MoviesSkipped)
	fmt.Fprintf(w, "  Episodes:  %d created, %d updated, %d skipped\n", r.EpisodesCreated, r.EpisodesUpdated, r.EpisodesSkipped)
	fmt.Fprintf(w, "  Series:    %d skipped unchanged\n", r.SeriesSkipped)
	fmt.Fprintf(w, "  Orphans:   %d deleted\n", r.OrphansDeleted)
	fmt.Fprintf(w, "  Delta:     %d new, %d modified, %d removed (%.1f%% of %d)\n",
		r.Delta.New, r.Delta.Modified, r.Delta.Removed, r.Delta.ChangePercent, r.Delta.TotalCurrent)
	if r.Errors > 0 {
		fmt.Fprintf(w, "  Errors:    %d\n", r.Errors)
	}
	if len(r.MissingCategories) > 0 {
		fmt.Fprintf(w, "  Missing categories: %v\n", r.MissingCategories)
	}
}

func printProgress(w io.Writer, p *ProgressResponse) {
	if !p.Running {
		fmt.Fprintf(w, "Idle (%s)\n", p.Phase)
		return
	}
	fmt.Fprintf(w, "Running: %s %d/%d (%.0f%%)", p.Phase, p.Processed, p.Total, p.Percent)
	if p.CurrentItem != "" {
		fmt.Fprintf(w, " - %s", p.CurrentItem)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Movies created: %d  Episodes created: %d  Orphans deleted: %d  Errors: %d\n",
		p.MoviesCreated, p.EpisodesCreated, p.OrphansDeleted, p.Errors)
}
