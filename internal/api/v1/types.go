package v1

import (
	"time"

	"github.com/vmunix/strmsync/internal/catalog"
	"github.com/vmunix/strmsync/internal/syncer"
)

// statusResponse is the response for GET /status.
type statusResponse struct {
	Version     string           `json:"version"`
	Running     bool             `json:"running"`
	LibraryRoot string           `json:"library_root"`
	LastResult  *syncer.Result   `json:"last_result,omitempty"`
	Progress    progressResponse `json:"progress"`
}

// progressResponse is the response for GET /progress.
type progressResponse struct {
	syncer.Progress
	Percent float64 `json:"percent"`
}

// syncRequest is the body of POST /sync.
type syncRequest struct {
	Full bool `json:"full"`
}

type syncAcceptedResponse struct {
	Status string `json:"status"`
	Full   bool   `json:"full"`
}

type cancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type listHistoryResponse struct {
	Items []historyItem `json:"items"`
	Limit int           `json:"limit"`
}

// historyItem adds the derived outcome to a stored run.
type historyItem struct {
	*syncer.Result
	Outcome syncer.Outcome `json:"outcome"`
}

type listSnapshotsResponse struct {
	Items []snapshotItem `json:"items"`
}

type snapshotItem struct {
	Name      string    `json:"name"`
	SavedAt   time.Time `json:"saved_at"`
	SizeBytes int64     `json:"size_bytes"`
}

type categoryItem struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Score *float64 `json:"score,omitempty"`
}

type listCategoriesResponse struct {
	Kind  catalog.Kind   `json:"kind"`
	Items []categoryItem `json:"items"`
}

// EventResponse is a single event log entry.
type EventResponse struct {
	ID         int64  `json:"id"`
	EventType  string `json:"event_type"`
	EntityType string `json:"entity_type"`
	EntityID   int64  `json:"entity_id"`
	OccurredAt string `json:"occurred_at"`
	Data       any    `json:"data,omitempty"`
}

type listEventsResponse struct {
	Items []EventResponse `json:"items"`
	Limit int             `json:"limit"`
}

func newProgressResponse(p syncer.Progress) progressResponse {
	return progressResponse{Progress: p, Percent: p.Percent()}
}
