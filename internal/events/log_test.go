package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLog_AppendAndForEntity(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))

	id, err := log.Append(ctx, &testEvent{BaseEvent: NewBase("test.created", EntitySync, 1), Message: "hello"})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = log.Append(ctx, &testEvent{BaseEvent: NewBase("test.other", EntitySync, 2), Message: "other"})
	require.NoError(t, err)

	events, err := log.ForEntity(ctx, EntitySync, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Payload, `"message":"hello"`)
	assert.Equal(t, "test.created", events[0].EventType)
}

func TestEventLog_Recent(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))

	for i := 1; i <= 5; i++ {
		_, err := log.Append(ctx, &testEvent{BaseEvent: NewBase("test.seq", EntitySync, int64(i))})
		require.NoError(t, err)
	}

	recent, err := log.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, int64(5), recent[0].EntityID)
	assert.Equal(t, int64(3), recent[2].EntityID)
}

func TestEventLog_Prune(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))

	old := &testEvent{BaseEvent: NewBase("test.old", EntitySync, 1)}
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	_, err := log.Append(ctx, old)
	require.NoError(t, err)
	_, err = log.Append(ctx, &testEvent{BaseEvent: NewBase("test.new", EntitySync, 2)})
	require.NoError(t, err)

	n, err := log.Prune(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	recent, err := log.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "test.new", recent[0].EventType)
}

func TestDecode_RoundTrip(t *testing.T) {
	ctx := context.Background()
	log := NewEventLog(setupTestDB(t))

	_, err := log.Append(ctx, &OrphansRemoved{BaseEvent: NewBase(EventOrphansRemoved, EntitySync, 7), Count: 3})
	require.NoError(t, err)

	raw, err := log.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, raw, 1)

	e, err := Decode(raw[0])
	require.NoError(t, err)
	removed, ok := e.(*OrphansRemoved)
	require.True(t, ok)
	assert.Equal(t, 3, removed.Count)
	assert.Equal(t, int64(7), removed.EntityID())

	_, err = Decode(RawEvent{EventType: "unknown"})
	assert.ErrorIs(t, err, ErrUnknownEvent)

	_, err = Decode(RawEvent{EventType: EventSyncFailed, Payload: "{"})
	assert.Error(t, err)
}
