package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus fans events out to subscribers and optionally appends them to an
// EventLog. Delivery never blocks the publisher: a full subscriber channel
// drops the event.
type Bus struct {
	mu     sync.RWMutex
	byType map[string][]chan Event
	all    []chan Event
	log    *EventLog
	logger *slog.Logger
	closed bool
}

// NewBus creates a bus. log may be nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		byType: make(map[string][]chan Event),
		log:    log,
		logger: logger,
	}
}

// Publish delivers e to subscribers of its type and to catch-all subscribers.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	for _, ch := range b.byType[e.EventType()] {
		b.deliver(ch, e)
	}
	for _, ch := range b.all {
		b.deliver(ch, e)
	}
	return nil
}

func (b *Bus) deliver(ch chan Event, e Event) {
	select {
	case ch <- e:
	default:
		b.logger.Warn("subscriber channel full, dropping event",
			"type", e.EventType(),
			"entity_type", e.EntityType(),
			"entity_id", e.EntityID())
	}
}

// Subscribe returns a channel receiving events of eventType.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.byType[eventType] = append(b.byType[eventType], ch)
	return ch
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, bufferSize)
	if b.closed {
		close(ch)
		return ch
	}
	b.all = append(b.all, ch)
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.byType {
		if i := indexOf(subs, ch); i >= 0 {
			close(subs[i])
			b.byType[eventType] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
	if i := indexOf(b.all, ch); i >= 0 {
		close(b.all[i])
		b.all = append(b.all[:i], b.all[i+1:]...)
	}
}

func indexOf(subs []chan Event, ch <-chan Event) int {
	for i, sub := range subs {
		if (<-chan Event)(sub) == ch {
			return i
		}
	}
	return -1
}

// Close shuts the bus down and closes every subscriber channel.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for _, subs := range b.byType {
		for _, ch := range subs {
			close(ch)
		}
	}
	for _, ch := range b.all {
		close(ch)
	}
	b.byType = nil
	b.all = nil
	return nil
}
