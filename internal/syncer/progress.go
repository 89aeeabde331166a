package syncer

import (
	"sync/atomic"
	"time"
)

// Phase is a state of the sync state machine.
type Phase string

const (
	PhaseIdle            Phase = "idle"
	PhaseInitializing    Phase = "initializing"
	PhaseCollecting      Phase = "collecting_catalog"
	PhaseSyncingMovies   Phase = "syncing_movies"
	PhaseSyncingSeries   Phase = "syncing_series"
	PhaseCleaningOrphans Phase = "cleaning_orphans"
	PhaseFinalizing      Phase = "finalizing"
	PhaseCancelled       Phase = "cancelled"
)

// Progress is an immutable view of a running sync. A new value is published
// for every update; readers never observe a half-written record.
type Progress struct {
	Running         bool      `json:"running"`
	Phase           Phase     `json:"phase"`
	CurrentItem     string    `json:"current_item,omitempty"`
	Total           int       `json:"total"`
	Processed       int       `json:"processed"`
	MoviesCreated   int       `json:"movies_created"`
	EpisodesCreated int       `json:"episodes_created"`
	OrphansDeleted  int       `json:"orphans_deleted"`
	Errors          int       `json:"errors"`
	StartedAt       time.Time `json:"started_at,omitzero"`
}

// Percent returns completion of the current phase in 0..100.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Processed) / float64(p.Total) * 100
}

// tracker publishes Progress values through a single atomic pointer.
type tracker struct {
	cur atomic.Pointer[Progress]
}

func newTracker() *tracker {
	t := &tracker{}
	t.cur.Store(&Progress{Phase: PhaseIdle})
	return t
}

func (t *tracker) load() Progress {
	return *t.cur.Load()
}

// update applies fn to a copy of the current value and publishes it,
// retrying if another goroutine published first.
func (t *tracker) update(fn func(p *Progress)) {
	for {
		old := t.cur.Load()
		next := *old
		fn(&next)
		if t.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}

func (t *tracker) reset(started time.Time) {
	t.cur.Store(&Progress{Running: true, Phase: PhaseInitializing, StartedAt: started})
}

func (t *tracker) enter(phase Phase, total int) {
	t.update(func(p *Progress) {
		p.Phase = phase
		p.Total = total
		p.Processed = 0
		p.CurrentItem = ""
	})
}

func (t *tracker) item(label string) {
	t.update(func(p *Progress) {
		p.CurrentItem = label
	})
}

func (t *tracker) stop(phase Phase) {
	t.update(func(p *Progress) {
		p.Running = false
		p.Phase = phase
		p.CurrentItem = ""
	})
}
