package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGrace = 20 * time.Millisecond

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)

	room := reg.GetOrCreate("abc123")
	require.NotNil(t, room)
	assert.Equal(t, "abc123", room.Code)
	assert.Same(t, room, reg.GetOrCreate("abc123"))
	assert.Same(t, room, reg.Get("abc123"))
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryGetMissing(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	assert.Nil(t, reg.Get("nope"))
}

func TestCleanupDeletesEmptyRoom(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	reg.GetOrCreate("abc123")

	reg.ScheduleCleanup("abc123")
	require.Eventually(t, func() bool {
		return reg.Get("abc123") == nil
	}, time.Second, 5*time.Millisecond)
}

func TestCleanupSkipsRepopulatedRoom(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	room := reg.GetOrCreate("abc123")
	room.AddConnection(&fakeConn{name: "Alice"}, "Alice")

	reg.ScheduleCleanup("abc123")
	time.Sleep(4 * testGrace)
	assert.Same(t, room, reg.Get("abc123"), "non-empty room must survive cleanup")
}

func TestGetOrCreateCancelsPendingCleanup(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	reg.GetOrCreate("abc123")

	reg.ScheduleCleanup("abc123")
	room := reg.GetOrCreate("abc123") // quick reconnect

	time.Sleep(4 * testGrace)
	assert.Same(t, room, reg.Get("abc123"), "cancelled cleanup must not fire")
}

func TestScheduleCleanupIsIdempotentWhilePending(t *testing.T) {
	reg := NewRegistry(testLogger(), time.Hour)
	room := reg.GetOrCreate("abc123")

	reg.ScheduleCleanup("abc123")
	first := room.cleanup
	require.NotNil(t, first)

	reg.ScheduleCleanup("abc123")
	assert.Same(t, first, room.cleanup, "second arm while pending is a no-op")
}

func TestScheduleCleanupOnMissingRoom(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	reg.ScheduleCleanup("ghost") // must not panic or create anything
	assert.Equal(t, 0, reg.Len())
}

func TestCleanupRearmAfterCancel(t *testing.T) {
	reg := NewRegistry(testLogger(), testGrace)
	reg.GetOrCreate("abc123")

	reg.ScheduleCleanup("abc123")
	reg.GetOrCreate("abc123") // cancel
	reg.ScheduleCleanup("abc123")

	require.Eventually(t, func() bool {
		return reg.Get("abc123") == nil
	}, time.Second, 5*time.Millisecond)
}
