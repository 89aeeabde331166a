// Package syncer drives the provider catalog into a tree of pointer files,
// applying only what changed since the last snapshot.
package syncer

//go:generate mockgen -destination=mocks/mock_syncer.go -package=mocks . LibraryScanner,SnapshotStore,Publisher,ResultRecorder

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/delta"
	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/naming"
	"github.com/vmunix/strmsync/internal/snapshot"
)

const (
	// DefaultConcurrency is used when MaxConcurrency is unset.
	DefaultConcurrency = 5
	// MinConcurrency and MaxConcurrency bound the per-item worker pool.
	MinConcurrency = 1
	MaxConcurrency = 20
)

// LibraryScanner asks the host media library to re-index.
type LibraryScanner interface {
	Scan(ctx context.Context) error
}

// SnapshotStore persists catalog snapshots between runs.
type SnapshotStore interface {
	LoadLatest(ctx context.Context) (*snapshot.Snapshot, error)
	Save(ctx context.Context, snap *snapshot.Snapshot) (string, error)
}

// Publisher receives lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// ResultRecorder stores finished runs and remembers the last full sync.
type ResultRecorder interface {
	Record(ctx context.Context, r *Result) error
	LastFullSync(ctx context.Context) (time.Time, error)
}

// Config is the sync-relevant configuration.
type Config struct {
	Credentials      catalog.Credentials
	LibraryRoot      string
	FolderMode       naming.FolderMode
	SyncMovies       bool
	SyncSeries       bool
	MovieCategories  []int
	SeriesCategories []int
	MaxConcurrency   int
	CleanupOrphans   bool
	SmartSkip        bool
	Incremental      bool
	Policy           delta.Policy
	MetadataLookup   bool
}

// Concurrency returns MaxConcurrency clamped to MinConcurrency..MaxConcurrency.
func (c Config) Concurrency() int {
	n := c.MaxConcurrency
	if n == 0 {
		n = DefaultConcurrency
	}
	if n < MinConcurrency {
		return MinConcurrency
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

// Fingerprint digests the parts of c that shape the library tree.
func (c Config) Fingerprint() string {
	return snapshot.ConfigFingerprint(snapshot.FingerprintInput{
		FolderMode:       string(c.FolderMode),
		MovieCategories:  c.MovieCategories,
		SeriesCategories: c.SeriesCategories,
		SyncMovies:       c.SyncMovies,
		SyncSeries:       c.SyncSeries,
		MetadataLookup:   c.MetadataLookup,
		SmartSkip:        c.SmartSkip,
	})
}

// Request parameterizes a single run.
type Request struct {
	// Full bypasses the incremental delta and smart skip.
	Full bool `json:"full"`
}

// Syncer runs synchronizations. At most one run is active at a time.
type Syncer struct {
	cfg       Config
	client    catalog.Client
	snapshots SnapshotStore
	scanner   LibraryScanner
	fs        FileSystem
	publisher Publisher
	recorder  ResultRecorder
	now       func() time.Time
	log       *slog.Logger

	running  atomic.Bool
	progress *tracker
	runSeq   atomic.Int64

	mu         sync.Mutex
	cancel     context.CancelFunc
	lastResult *Result
	lastFull   time.Time
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithScanner sets the library rescan trigger.
func WithScanner(s LibraryScanner) Option {
	return func(sy *Syncer) { sy.scanner = s }
}

// WithFileSystem replaces the local filesystem.
func WithFileSystem(fs FileSystem) Option {
	return func(sy *Syncer) { sy.fs = fs }
}

// WithPublisher sets the event sink.
func WithPublisher(p Publisher) Option {
	return func(sy *Syncer) { sy.publisher = p }
}

// WithRecorder sets the run history store.
func WithRecorder(r ResultRecorder) Option {
	return func(sy *Syncer) { sy.recorder = r }
}

// WithClock sets the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(sy *Syncer) { sy.now = now }
}

// New creates a Syncer.
func New(cfg Config, client catalog.Client, snapshots SnapshotStore, logger *slog.Logger, opts ...Option) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Syncer{
		cfg:       cfg,
		client:    client,
		snapshots: snapshots,
		fs:        OSFileSystem{},
		now:       time.Now,
		log:       logger.With("component", "syncer"),
		progress:  newTracker(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Progress returns the live progress record.
func (s *Syncer) Progress() Progress {
	return s.progress.load()
}

// Running reports whether a run is active.
func (s *Syncer) Running() bool {
	return s.running.Load()
}

// LastResult returns the result of the most recent finished run, or nil.
func (s *Syncer) LastResult() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

// Cancel stops the active run. It reports whether a run was active.
func (s *Syncer) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Sync performs one run. It returns ErrSyncInProgress without side effects if
// another run is active. Otherwise a Result is always returned; the error is
// non-nil when the run failed or was cancelled.
func (s *Syncer) Sync(ctx context.Context, req Request) (*Result, error) {
	runCtx, ok := s.acquire(ctx)
	if !ok {
		return nil, ErrSyncInProgress
	}
	return s.sync(runCtx, req)
}

// Start launches a run in the background. It fails with ErrSyncInProgress if
// a run is already active; otherwise the run owns the running flag before
// Start returns.
func (s *Syncer) Start(ctx context.Context, req Request) error {
	runCtx, ok := s.acquire(ctx)
	if !ok {
		return ErrSyncInProgress
	}
	go func() {
		_, _ = s.sync(runCtx, req)
	}()
	return nil
}

// acquire takes the single run slot and registers the run's cancel func
// under one lock, so a run that reports Running can always be cancelled.
func (s *Syncer) acquire(ctx context.Context) (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running.Load() {
		return nil, false
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running.Store(true)
	return runCtx, true
}

func (s *Syncer) release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.running.Store(false)
}

// sync runs one pass inside a slot taken by acquire.
func (s *Syncer) sync(ctx context.Context, req Request) (*Result, error) {
	defer s.release()

	r := s.newRun(req)
	res, err := r.execute(ctx)

	s.mu.Lock()
	s.lastResult = res
	if res.Success && res.Full {
		s.lastFull = res.StartedAt
	}
	s.mu.Unlock()

	if s.recorder != nil {
		// The run context may already be cancelled; history must still land.
		if recErr := s.recorder.Record(context.WithoutCancel(ctx), res); recErr != nil {
			s.log.Warn("failed to record sync result", "error", recErr)
		}
	}
	return res, err
}

// lastFullSync returns when the last successful full sync started.
func (s *Syncer) lastFullSync(ctx context.Context) time.Time {
	s.mu.Lock()
	last := s.lastFull
	s.mu.Unlock()

	if s.recorder != nil {
		recorded, err := s.recorder.LastFullSync(ctx)
		if err != nil {
			s.log.Warn("failed to read last full sync", "error", err)
		} else if recorded.After(last) {
			last = recorded
		}
	}
	return last
}

func (s *Syncer) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), e); err != nil {
		s.log.Warn("failed to publish event", "type", e.EventType(), "error", err)
	}
}
