package delta

import (
	"fmt"
	"time"
)

// Policy decides when the incremental path can no longer be trusted and a
// full sync must run instead.
type Policy struct {
	// FullSyncInterval forces a full sync when this much time has passed
	// since the last one. Zero disables the interval trigger.
	FullSyncInterval time.Duration
	// ChangeThreshold forces a full sync when the change percentage exceeds
	// it. Zero disables the threshold trigger.
	ChangeThreshold float64
}

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Full   bool   `json:"full"`
	Reason string `json:"reason"`
}

// Decide evaluates d. lastFull is the start of the last successful full sync;
// the zero value means none has run.
func (p Policy) Decide(d *Delta, lastFull, now time.Time) Decision {
	if d == nil || !d.HasBaseline {
		return Decision{Full: true, Reason: "no baseline snapshot"}
	}
	if p.FullSyncInterval > 0 {
		if lastFull.IsZero() {
			return Decision{Full: true, Reason: "no previous full sync"}
		}
		if elapsed := now.Sub(lastFull); elapsed >= p.FullSyncInterval {
			return Decision{Full: true, Reason: fmt.Sprintf("last full sync %s ago exceeds %s", elapsed.Round(time.Second), p.FullSyncInterval)}
		}
	}
	if p.ChangeThreshold > 0 && d.Stats.ChangePercent > p.ChangeThreshold {
		return Decision{Full: true, Reason: fmt.Sprintf("change %.1f%% exceeds threshold %.1f%%", d.Stats.ChangePercent, p.ChangeThreshold)}
	}
	return Decision{Full: false, Reason: "incremental"}
}
