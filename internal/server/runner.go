// Package server runs the daemon's long-lived components.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/strmsync/internal/syncer"
)

const (
	defaultShutdownTimeout = 30 * time.Second
	defaultPruneInterval   = time.Hour
	defaultEventRetention  = 30 * 24 * time.Hour
	defaultHistoryKeep     = 500
)

// Config for the runner.
type Config struct {
	// Addr is the HTTP listen address. Empty disables the HTTP server.
	Addr string
	// SyncInterval schedules incremental syncs. Zero means manual only.
	SyncInterval    time.Duration
	PruneInterval   time.Duration
	EventRetention  time.Duration
	HistoryKeep     int
	ShutdownTimeout time.Duration
}

// Syncer is the part of the sync engine the runner drives.
type Syncer interface {
	Sync(ctx context.Context, req syncer.Request) (*syncer.Result, error)
	Cancel() bool
}

// EventPruner deletes old audit events.
type EventPruner interface {
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}

// HistoryPruner trims the run history.
type HistoryPruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// Runner manages the HTTP server, the sync scheduler and housekeeping.
type Runner struct {
	config  Config
	handler http.Handler
	syncer  Syncer
	events  EventPruner
	history HistoryPruner
	logger  *slog.Logger

	// listening receives the bound address once the HTTP server is up.
	listening chan net.Addr
}

// Option configures a Runner.
type Option func(*Runner)

// WithEventPruner enables event log pruning.
func WithEventPruner(p EventPruner) Option {
	return func(r *Runner) { r.events = p }
}

// WithHistoryPruner enables run history pruning.
func WithHistoryPruner(p HistoryPruner) Option {
	return func(r *Runner) { r.history = p }
}

// NewRunner creates a new runner.
func NewRunner(cfg Config, handler http.Handler, s Syncer, logger *slog.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PruneInterval <= 0 {
		cfg.PruneInterval = defaultPruneInterval
	}
	if cfg.EventRetention <= 0 {
		cfg.EventRetention = defaultEventRetention
	}
	if cfg.HistoryKeep <= 0 {
		cfg.HistoryKeep = defaultHistoryKeep
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	r := &Runner{
		config:    cfg,
		handler:   handler,
		syncer:    s,
		logger:    logger.With("component", "runner"),
		listening: make(chan net.Addr, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Listening returns a channel that receives the HTTP address once bound.
func (r *Runner) Listening() <-chan net.Addr {
	return r.listening
}

// Run starts all components.
// It blocks until the context is canceled or an error occurs.
func (r *Runner) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if r.config.Addr != "" && r.handler != nil {
		g.Go(func() error { return r.serveHTTP(ctx) })
	}
	if r.config.SyncInterval > 0 && r.syncer != nil {
		g.Go(func() error { return r.schedule(ctx) })
	}
	if r.events != nil || r.history != nil {
		g.Go(func() error { return r.prune(ctx) })
	}

	// Stop an in-flight sync on shutdown.
	g.Go(func() error {
		<-ctx.Done()
		if r.syncer != nil && r.syncer.Cancel() {
			r.logger.Info("cancelled running sync for shutdown")
		}
		return ctx.Err()
	})

	return g.Wait()
}

func (r *Runner) serveHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", r.config.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           r.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	r.logger.Info("http server listening", "addr", ln.Addr().String())
	r.listening <- ln.Addr()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	r.logger.Info("http server stopped")
	return ctx.Err()
}

func (r *Runner) schedule(ctx context.Context) error {
	ticker := time.NewTicker(r.config.SyncInterval)
	defer ticker.Stop()

	r.logger.Info("sync scheduler started", "interval", r.config.SyncInterval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("sync scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.runScheduled(ctx)
		}
	}
}

func (r *Runner) runScheduled(ctx context.Context) {
	_, err := r.syncer.Sync(ctx, syncer.Request{})
	switch {
	case err == nil:
	case errors.Is(err, syncer.ErrSyncInProgress):
		r.logger.Debug("scheduled sync skipped, another sync is running")
	case errors.Is(err, syncer.ErrCancelled):
		r.logger.Info("scheduled sync cancelled")
	default:
		r.logger.Error("scheduled sync failed", "error", err)
	}
}

func (r *Runner) prune(ctx context.Context) error {
	ticker := time.NewTicker(r.config.PruneInterval)
	defer ticker.Stop()

	r.pruneOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.pruneOnce(ctx)
		}
	}
}

func (r *Runner) pruneOnce(ctx context.Context) {
	if r.events != nil {
		n, err := r.events.Prune(ctx, r.config.EventRetention)
		if err != nil {
			r.logger.Warn("event pruning failed", "error", err)
		} else if n > 0 {
			r.logger.Info("pruned events", "count", n)
		}
	}
	if r.history != nil {
		n, err := r.history.Prune(ctx, r.config.HistoryKeep)
		if err != nil {
			r.logger.Warn("history pruning failed", "error", err)
		} else if n > 0 {
			r.logger.Info("pruned sync history", "count", n)
		}
	}
}
