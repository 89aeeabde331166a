package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/delta"
	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/snapshot"
)

// run holds the state of a single sync pass.
type run struct {
	s      *Syncer
	id     int64
	req    Request
	log    *slog.Logger
	layout naming.Layout

	result   *Result
	counters counters

	baseline *snapshot.Snapshot
	delta    *delta.Delta
	full     bool

	movies      []catalog.Movie
	series      []catalog.Series
	movieCats   map[int]string
	seriesCats  map[int]string
	builder     *snapshot.Builder
	collected   bool
	phase       Phase
	changedShow map[int]bool

	// synced holds every pointer path that belongs to the current catalog.
	syncedMu sync.Mutex
	synced   map[string]struct{}
}

func (s *Syncer) newRun(req Request) *run {
	id := s.runSeq.Add(1)
	return &run{
		s:      s,
		id:     id,
		req:    req,
		log:    s.log.With("run", id),
		layout: naming.NewLayout(s.cfg.LibraryRoot, s.cfg.FolderMode),
		synced: make(map[string]struct{}),
	}
}

// execute walks the state machine. It always returns a non-nil Result.
func (r *run) execute(ctx context.Context) (*Result, error) {
	s := r.s
	started := s.now()
	r.result = &Result{StartedAt: started}
	s.progress.reset(started)
	r.enter(PhaseInitializing, 0)

	s.publish(ctx, &events.SyncStarted{BaseEvent: events.NewBase(events.EventSyncStarted, events.EntitySync, r.id), Full: r.req.Full})

	err := r.steps(ctx)
	return r.finish(ctx, err)
}

func (r *run) steps(ctx context.Context) error {
	if err := r.initialize(ctx); err != nil {
		return err
	}

	r.enter(PhaseCollecting, 0)
	if err := r.collect(ctx); err != nil {
		return err
	}
	r.decide(ctx)

	if r.s.cfg.SyncMovies {
		r.enter(PhaseSyncingMovies, len(r.movies))
		if err := r.syncMovies(ctx); err != nil {
			return err
		}
	}

	if r.s.cfg.SyncSeries {
		r.enter(PhaseSyncingSeries, len(r.series))
		if err := r.syncSeries(ctx); err != nil {
			return err
		}
	}

	if r.s.cfg.CleanupOrphans {
		r.enter(PhaseCleaningOrphans, 0)
		if err := r.cleanOrphans(ctx); err != nil {
			return err
		}
	}
	return nil
}

// initialize validates configuration and loads the baseline snapshot.
func (r *run) initialize(ctx context.Context) error {
	cfg := r.s.cfg
	if !cfg.Credentials.Configured() {
		return fmt.Errorf("%w: provider url, username and password are required", ErrNotConfigured)
	}
	if cfg.LibraryRoot == "" {
		return fmt.Errorf("%w: library root is required", ErrNotConfigured)
	}
	if !cfg.SyncMovies && !cfg.SyncSeries {
		return fmt.Errorf("%w: movies and series are both disabled", ErrNotConfigured)
	}

	r.builder = snapshot.NewBuilder(cfg.Credentials.Identity(), cfg.Fingerprint(), r.result.StartedAt)

	if r.s.snapshots == nil {
		return nil
	}
	prev, err := r.s.snapshots.LoadLatest(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.log.Warn("failed to load snapshot, treating as absent", "error", err)
		return nil
	}
	switch {
	case prev == nil:
		r.log.Info("no usable snapshot, running without baseline")
	case prev.ProviderIdentity != cfg.Credentials.Identity():
		r.log.Info("snapshot belongs to a different provider, ignoring",
			"snapshot_provider", prev.ProviderIdentity)
	case prev.ConfigFingerprint != "" && prev.ConfigFingerprint != cfg.Fingerprint():
		r.log.Info("sync configuration changed since last snapshot, ignoring it")
	default:
		r.baseline = prev
	}
	return nil
}

// decide computes the delta and chooses between full and incremental.
func (r *run) decide(ctx context.Context) {
	cfg := r.s.cfg
	r.delta = delta.Compute(r.baseline, r.movies, r.series)
	r.result.Delta = r.delta.Stats

	var decision delta.Decision
	switch {
	case r.req.Full:
		decision = delta.Decision{Full: true, Reason: "requested"}
	case !cfg.Incremental:
		decision = delta.Decision{Full: true, Reason: "incremental disabled"}
	default:
		decision = cfg.Policy.Decide(r.delta, r.s.lastFullSync(ctx), r.s.now())
	}
	r.full = decision.Full
	r.result.Full = decision.Full
	r.result.FullReason = decision.Reason

	if cfg.Incremental && !r.full {
		r.changedShow = r.delta.ChangedSeriesIDs()
	}

	r.log.Info("delta computed",
		"full", r.full,
		"reason", decision.Reason,
		"new", r.delta.Stats.New,
		"modified", r.delta.Stats.Modified,
		"removed", r.delta.Stats.Removed,
		"unchanged", r.delta.Stats.Unchanged,
		"change_percent", fmt.Sprintf("%.1f", r.delta.Stats.ChangePercent))
}

// finish records totals, rescans and snapshots, and resets progress.
func (r *run) finish(ctx context.Context, err error) (*Result, error) {
	s := r.s
	res := r.result
	cancelled := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || (err == nil && ctx.Err() != nil)

	if err == nil && !cancelled {
		r.enter(PhaseFinalizing, 0)
	}
	r.counters.apply(res)

	switch {
	case cancelled:
		res.Cancelled = true
		res.Error = ErrCancelled.Error()
		err = ErrCancelled
	case err != nil:
		res.Error = err.Error()
	default:
		res.Success = true
	}

	if res.Success {
		if res.Changed() && s.scanner != nil {
			if scanErr := s.scanner.Scan(ctx); scanErr != nil {
				r.log.Warn("library rescan failed", "error", scanErr)
			}
		}
		r.saveSnapshot(ctx)
	}

	res.EndedAt = s.now()
	res.DurationMS = res.Duration().Milliseconds()

	switch {
	case res.Cancelled:
		s.progress.stop(PhaseCancelled)
		r.log.Warn("sync cancelled", "phase", r.phase)
		s.publish(ctx, &events.SyncCancelled{BaseEvent: events.NewBase(events.EventSyncCancelled, events.EntitySync, r.id), Phase: string(r.phase)})
	case !res.Success:
		s.progress.stop(PhaseIdle)
		r.log.Error("sync failed", "phase", r.phase, "error", err)
		s.publish(ctx, &events.SyncFailed{BaseEvent: events.NewBase(events.EventSyncFailed, events.EntitySync, r.id), Phase: string(r.phase), Error: res.Error})
	default:
		s.progress.stop(PhaseIdle)
		r.log.Info("sync completed",
			"outcome", res.Outcome(),
			"movies_created", res.MoviesCreated,
			"movies_skipped", res.MoviesSkipped,
			"episodes_created", res.EpisodesCreated,
			"episodes_skipped", res.EpisodesSkipped,
			"series_skipped", res.SeriesSkipped,
			"orphans_deleted", res.OrphansDeleted,
			"errors", res.Errors,
			"duration_ms", res.DurationMS)
		s.publish(ctx, &events.SyncCompleted{
			BaseEvent:       events.NewBase(events.EventSyncCompleted, events.EntitySync, r.id),
			Full:            res.Full,
			MoviesCreated:   res.MoviesCreated,
			EpisodesCreated: res.EpisodesCreated,
			OrphansDeleted:  res.OrphansDeleted,
			Errors:          res.Errors,
			DurationMS:      res.DurationMS,
		})
	}
	return res, err
}

// saveSnapshot persists the new baseline. Only a fully collected catalog is
// marked complete; failures are reported on the result, not as run errors.
func (r *run) saveSnapshot(ctx context.Context) {
	if r.s.snapshots == nil || r.builder == nil {
		return
	}
	snap := r.builder.Build(r.collected, r.s.now())
	path, err := r.s.snapshots.Save(ctx, snap)
	if err != nil {
		r.result.SnapshotError = err.Error()
		r.log.Error("failed to save snapshot", "error", err)
		return
	}
	r.result.SnapshotPath = path
	r.s.publish(ctx, &events.SnapshotSaved{
		BaseEvent: events.NewBase(events.EventSnapshotSaved, events.EntitySnapshot, r.id),
		Path:      path,
		Movies:    len(snap.Movies),
		Series:    len(snap.Series),
	})
}

func (r *run) enter(phase Phase, total int) {
	r.phase = phase
	r.s.progress.enter(phase, total)
}

// itemDone advances the phase counter and republishes running totals.
func (r *run) itemDone() {
	r.s.progress.update(func(p *Progress) {
		p.Processed++
		r.counters.publish(p)
	})
}

// claim records path as written by the current item. It reports false when
// another catalog item already owns the path.
func (r *run) claim(path string) bool {
	r.syncedMu.Lock()
	defer r.syncedMu.Unlock()
	if _, taken := r.synced[path]; taken {
		return false
	}
	r.synced[path] = struct{}{}
	return true
}

// markSynced records path as belonging to the current catalog.
func (r *run) markSynced(path string) {
	r.syncedMu.Lock()
	r.synced[path] = struct{}{}
	r.syncedMu.Unlock()
}

func (r *run) isSynced(path string) bool {
	r.syncedMu.Lock()
	defer r.syncedMu.Unlock()
	_, ok := r.synced[path]
	return ok
}
