// Package events carries sync lifecycle events between the engine, the
// event log and any in-process subscribers.
package events

import "time"

// Event is anything the bus can carry. Every event names the entity it is
// about, which for a run is its history id.
type Event interface {
	EventType() string
	EntityType() string
	EntityID() int64
	OccurredAt() time.Time
}

// BaseEvent holds the fields shared by every event. Concrete events embed it.
type BaseEvent struct {
	Type      string    `json:"type"`
	Entity    string    `json:"entity_type"`
	ID        int64     `json:"entity_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EntityType() string    { return e.Entity }
func (e BaseEvent) EntityID() int64       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBase stamps an event header with the current UTC time.
func NewBase(eventType, entityType string, entityID int64) BaseEvent {
	return BaseEvent{Type: eventType, Entity: entityType, ID: entityID, Timestamp: time.Now().UTC()}
}
