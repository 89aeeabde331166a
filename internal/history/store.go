// Package history persists finished sync runs to SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/strmsync/internal/syncer"
)

// ErrNotFound indicates the requested run doesn't exist.
var ErrNotFound = errors.New("not found")

// DefaultLimit is used by List when no positive limit is given.
const DefaultLimit = 20

// Store records sync results. It implements syncer.ResultRecorder.
type Store struct {
	db *sql.DB
}

var _ syncer.ResultRecorder = (*Store)(nil)

// NewStore creates a history store. The sync_runs table is created by the
// migrations package.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts r and sets r.ID.
func (s *Store) Record(ctx context.Context, r *syncer.Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_runs (started_at, ended_at, success, cancelled, full_sync, outcome, error,
			movies_created, episodes_created, orphans_deleted, errors, change_percent, result)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC(), r.EndedAt.UTC(), r.Success, r.Cancelled, r.Full, string(r.Outcome()), r.Error,
		r.MoviesCreated, r.EpisodesCreated, r.OrphansDeleted, r.Errors, r.Delta.ChangePercent, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert sync run: %w", err)
	}
	r.ID = id
	return nil
}

// Get returns a recorded run. Returns ErrNotFound if it does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*syncer.Result, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT result FROM sync_runs WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get sync run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get sync run %d: %w", id, err)
	}
	return decode(id, payload)
}

// List returns the newest runs first.
func (s *Store) List(ctx context.Context, limit int) ([]*syncer.Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, result FROM sync_runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sync runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*syncer.Result
	for rows.Next() {
		var id int64
		var payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}
		r, err := decode(id, payload)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastFullSync returns the start of the newest successful full run, or the
// zero time when there is none.
func (s *Store) LastFullSync(ctx context.Context) (time.Time, error) {
	var started time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT started_at FROM sync_runs
		WHERE full_sync = 1 AND success = 1
		ORDER BY started_at DESC
		LIMIT 1`).Scan(&started)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("last full sync: %w", err)
	}
	return started, nil
}

// Prune keeps the newest keep runs and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM sync_runs WHERE id NOT IN (
			SELECT id FROM sync_runs ORDER BY started_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune sync runs: %w", err)
	}
	return res.RowsAffected()
}

func decode(id int64, payload string) (*syncer.Result, error) {
	var r syncer.Result
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, fmt.Errorf("decode sync run %d: %w", id, err)
	}
	r.ID = id
	return &r, nil
}
