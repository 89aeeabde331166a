package syncer

import (
	"errors"
	"fmt"
)

var (
	// ErrSyncInProgress is returned when a sync is requested while one runs.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNotConfigured indicates missing provider credentials or library root.
	ErrNotConfigured = errors.New("sync not configured")

	// ErrCancelled indicates the run was cancelled before it finished.
	ErrCancelled = errors.New("sync cancelled")
)

// CatalogError is a failure to fetch categories or listings from the
// provider. It aborts the run.
type CatalogError struct {
	Phase Phase
	Op    string
	Err   error
}

func (e *CatalogError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Op, e.Err)
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}
