package events

// Event types.
const (
	EventSyncStarted    = "sync.started"
	EventSyncCompleted  = "sync.completed"
	EventSyncFailed     = "sync.failed"
	EventSyncCancelled  = "sync.cancelled"
	EventOrphansRemoved = "orphans.removed"
	EventSnapshotSaved  = "snapshot.saved"
)

// Entity types.
const (
	EntitySync     = "sync"
	EntitySnapshot = "snapshot"
)

// SyncStarted is emitted when a run leaves Idle.
type SyncStarted struct {
	BaseEvent
	Full bool `json:"full"`
}

// SyncCompleted is emitted when a run finishes, with or without item errors.
type SyncCompleted struct {
	BaseEvent
	Full            bool  `json:"full"`
	MoviesCreated   int   `json:"movies_created"`
	EpisodesCreated int   `json:"episodes_created"`
	OrphansDeleted  int   `json:"orphans_deleted"`
	Errors          int   `json:"errors"`
	DurationMS      int64 `json:"duration_ms"`
}

// SyncFailed is emitted when configuration or catalog errors abort a run.
type SyncFailed struct {
	BaseEvent
	Phase string `json:"phase"`
	Error string `json:"error"`
}

// SyncCancelled is emitted when a run is cancelled.
type SyncCancelled struct {
	BaseEvent
	Phase string `json:"phase"`
}

// OrphansRemoved is emitted after orphan cleanup deleted pointer files.
type OrphansRemoved struct {
	BaseEvent
	Count int      `json:"count"`
	Paths []string `json:"paths,omitempty"`
}

// SnapshotSaved is emitted when a new baseline snapshot is written.
type SnapshotSaved struct {
	BaseEvent
	Path   string `json:"path"`
	Movies int    `json:"movies"`
	Series int    `json:"series"`
}
