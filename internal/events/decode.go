package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by Decode for event types it has no struct for.
var ErrUnknownEvent = errors.New("unknown event type")

type decoder func(payload []byte) (Event, error)

var decoders = map[string]decoder{
	EventSyncStarted:    decodeAs[SyncStarted],
	EventSyncCompleted:  decodeAs[SyncCompleted],
	EventSyncFailed:     decodeAs[SyncFailed],
	EventSyncCancelled:  decodeAs[SyncCancelled],
	EventOrphansRemoved: decodeAs[OrphansRemoved],
	EventSnapshotSaved:  decodeAs[SnapshotSaved],
}

func decodeAs[T any, P interface {
	*T
	Event
}](payload []byte) (Event, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, err
	}
	return P(&v), nil
}

// Decode restores the typed event from a persisted row.
func Decode(raw RawEvent) (Event, error) {
	dec, ok := decoders[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, raw.EventType)
	}
	e, err := dec([]byte(raw.Payload))
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", raw.EventType, err)
	}
	return e, nil
}
