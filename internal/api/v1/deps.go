package v1

//go:generate mockgen -destination=mocks/mock_deps.go -package=mocks . SyncRunner,HistoryReader,SnapshotLister,PlexPinger

import (
	"context"
	"errors"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/events"
	"github.com/vmunix/strmsync/internal/plex"
	"github.com/vmunix/strmsync/internal/snapshot"
	"github.com/vmunix/strmsync/internal/syncer"
)

// ErrMissingDependency is returned when a required dependency is nil.
var ErrMissingDependency = errors.New("missing required dependency")

// SyncRunner controls the sync engine.
type SyncRunner interface {
	Start(ctx context.Context, req syncer.Request) error
	Cancel() bool
	Running() bool
	Progress() syncer.Progress
	LastResult() *syncer.Result
}

// HistoryReader reads finished runs.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]*syncer.Result, error)
	Get(ctx context.Context, id int64) (*syncer.Result, error)
}

// SnapshotLister lists persisted catalog snapshots.
type SnapshotLister interface {
	List() ([]snapshot.Info, error)
}

// PlexPinger checks the Plex connection.
type PlexPinger interface {
	Identity(ctx context.Context) (*plex.Identity, error)
}

// ServerDeps contains all dependencies for the API server.
// Required dependencies must be non-nil; optional dependencies may be nil.
type ServerDeps struct {
	// Required dependencies
	Syncer  SyncRunner
	History HistoryReader

	// Optional dependencies (nil if not configured)
	Snapshots SnapshotLister
	Catalog   catalog.Client
	Plex      PlexPinger
	EventLog  *events.EventLog
}

// Validate checks that all required dependencies are provided.
func (d ServerDeps) Validate() error {
	if d.Syncer == nil {
		return errors.New("syncer is required")
	}
	if d.History == nil {
		return errors.New("history store is required")
	}
	return nil
}
