// Package app assembles the sync engine and its collaborators from a
// loaded configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/strmsync/internal/api/v1"
	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/config"
	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/history"
	"github.com/vmunix/strmsync/internal/migrations"
	"github.com/vmunix/strmsync/internal/plex"
	"github.com/vmunix/strmsync/internal/snapshot"
	"github.com/vmunix/strmsync/internal/syncer"
	"github.com/vmunix/strmsync/pkg/xtream"
)

// ParseLogLevel maps a config level name to a slog level. Unknown names mean info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger for the given level and format.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// OpenDB opens the SQLite database at path and applies migrations.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite allows one writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if err := migrations.Apply(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Stack is the wired set of components behind both the daemon and a local
// one-shot sync.
type Stack struct {
	DB        *sql.DB
	EventLog  *events.EventLog
	Bus       *events.Bus
	History   *history.Store
	Snapshots *snapshot.Store
	Provider  *catalog.Provider
	Plex      *plex.Client
	Syncer    *syncer.Syncer
}

// Build opens storage and constructs every component described by cfg.
// The caller must Close the stack.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := OpenDB(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	st := &Stack{DB: db}
	st.EventLog = events.NewEventLog(db)
	st.Bus = events.NewBus(st.EventLog, logger.With("component", "bus"))
	st.History = history.NewStore(db)
	st.Snapshots = snapshot.NewStore(cfg.Library.DataPath, logger)

	xtreamOpts := []xtream.Option{
		xtream.WithLogger(logger),
		xtream.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout.Duration}),
		xtream.WithMaxRetries(cfg.Provider.MaxRetries),
	}
	if cfg.Provider.UserAgent != "" {
		xtreamOpts = append(xtreamOpts, xtream.WithUserAgent(cfg.Provider.UserAgent))
	}
	st.Provider = catalog.NewProvider(xtream.New(cfg.Provider.URL, cfg.Provider.Username, cfg.Provider.Password, xtreamOpts...))

	syncOpts := []syncer.Option{
		syncer.WithPublisher(st.Bus),
		syncer.WithRecorder(st.History),
	}
	if p := cfg.Plex; p != nil {
		var plexOpts []plex.Option
		if p.LocalPath != "" && p.RemotePath != "" {
			plexOpts = append(plexOpts, plex.WithPathMapping(p.LocalPath, p.RemotePath))
		}
		st.Plex = plex.NewClient(p.URL, p.Token, logger, plexOpts...)
		syncOpts = append(syncOpts, syncer.WithScanner(plex.NewScanner(st.Plex, p.Libraries, cfg.Library.Root, logger)))
	}

	st.Syncer = syncer.New(cfg.SyncOptions(), st.Provider, st.Snapshots, logger, syncOpts...)
	return st, nil
}

// API returns the HTTP API over the stack.
func (s *Stack) API(cfg *config.Config, version string, logger *slog.Logger) (*v1.Server, error) {
	deps := v1.ServerDeps{
		Syncer:    s.Syncer,
		History:   s.History,
		Snapshots: s.Snapshots,
		Catalog:   s.Provider,
		EventLog:  s.EventLog,
	}
	// A nil *plex.Client must not become a non-nil interface.
	if s.Plex != nil {
		deps.Plex = s.Plex
	}
	return v1.New(deps, v1.Config{Version: version, LibraryRoot: cfg.Library.Root}, logger)
}

// Close releases the bus and the database.
func (s *Stack) Close() error {
	var errs []error
	if s.Bus != nil {
		errs = append(errs, s.Bus.Close())
	}
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
	}
	return errors.Join(errs...)
}
