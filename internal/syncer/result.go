package syncer

import (
	"sync/atomic"
	"time"

	"github.com/vmunix/strmsync/internal/delta"
)

// Outcome classifies a finished run.
type Outcome string

const (
	OutcomeSucceeded           Outcome = "succeeded"
	OutcomeSucceededWithErrors Outcome = "succeeded_with_errors"
	OutcomeFailed              Outcome = "failed"
	OutcomeCancelled           Outcome = "cancelled"
)

// Result reports what a sync run did.
type Result struct {
	ID         int64     `json:"id,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Cancelled  bool      `json:"cancelled"`
	Error      string    `json:"error,omitempty"`

	Full       bool   `json:"full"`
	FullReason string `json:"full_reason,omitempty"`

	MoviesCreated   int `json:"movies_created"`
	MoviesUpdated   int `json:"movies_updated"`
	MoviesSkipped   int `json:"movies_skipped"`
	SeriesSkipped   int `json:"series_skipped"`
	EpisodesCreated int `json:"episodes_created"`
	EpisodesUpdated int `json:"episodes_updated"`
	EpisodesSkipped int `json:"episodes_skipped"`
	OrphansDeleted  int `json:"orphans_deleted"`
	Errors          int `json:"errors"`

	Delta             delta.Stats `json:"delta"`
	MissingCategories []int       `json:"missing_categories,omitempty"`
	SnapshotPath      string      `json:"snapshot_path,omitempty"`
	SnapshotError     string      `json:"snapshot_error,omitempty"`
}

// Duration returns the wall-clock length of the run.
func (r *Result) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}

// Outcome distinguishes full success, success with item errors, failure and
// cancellation.
func (r *Result) Outcome() Outcome {
	switch {
	case r.Cancelled:
		return OutcomeCancelled
	case !r.Success:
		return OutcomeFailed
	case r.Errors > 0:
		return OutcomeSucceededWithErrors
	default:
		return OutcomeSucceeded
	}
}

// Changed reports whether the run created, rewrote or deleted any file.
func (r *Result) Changed() bool {
	return r.MoviesCreated+r.MoviesUpdated+r.EpisodesCreated+r.EpisodesUpdated+r.OrphansDeleted > 0
}

// counters accumulate per-item outcomes from concurrent workers.
type counters struct {
	moviesCreated   atomic.Int64
	moviesUpdated   atomic.Int64
	moviesSkipped   atomic.Int64
	seriesSkipped   atomic.Int64
	episodesCreated atomic.Int64
	episodesUpdated atomic.Int64
	episodesSkipped atomic.Int64
	orphansDeleted  atomic.Int64
	errors          atomic.Int64
}

func (c *counters) apply(r *Result) {
	r.MoviesCreated = int(c.moviesCreated.Load())
	r.MoviesUpdated = int(c.moviesUpdated.Load())
	r.MoviesSkipped = int(c.moviesSkipped.Load())
	r.SeriesSkipped = int(c.seriesSkipped.Load())
	r.EpisodesCreated = int(c.episodesCreated.Load())
	r.EpisodesUpdated = int(c.episodesUpdated.Load())
	r.EpisodesSkipped = int(c.episodesSkipped.Load())
	r.OrphansDeleted = int(c.orphansDeleted.Load())
	r.Errors = int(c.errors.Load())
}

func (c *counters) publish(p *Progress) {
	p.MoviesCreated = int(c.moviesCreated.Load())
	p.EpisodesCreated = int(c.episodesCreated.Load())
	p.OrphansDeleted = int(c.orphansDeleted.Load())
	p.Errors = int(c.errors.Load())
}
