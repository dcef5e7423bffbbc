package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversToAll(t *testing.T) {
	room := NewRoom("abc123")
	conns := []*fakeConn{{name: "a"}, {name: "b"}, {name: "c"}}
	for _, c := range conns {
		room.AddConnection(c, c.name)
	}

	ev := ErrorEvent{Type: EventError, Message: "hi"}
	Broadcast(context.Background(), testLogger(), room, ev)

	for _, c := range conns {
		require.Len(t, c.events, 1)
		assert.Equal(t, ev, c.events[0])
	}
}

func TestBroadcastPrunesDeadConnections(t *testing.T) {
	room := NewRoom("abc123")
	alive := &fakeConn{name: "alive"}
	dead := &fakeConn{name: "dead", fail: true}
	room.AddConnection(alive, "alive")
	room.AddConnection(dead, "dead")

	Broadcast(context.Background(), testLogger(), room, NewTurnUpdate(room))

	require.Len(t, alive.events, 1, "failure for one conn must not abort the rest")
	assert.Equal(t, []string{"alive"}, room.PlayersInOrder(), "dead conn removed after the sweep")
	assert.False(t, room.IsEmpty())

	// The pruned connection also vanishes from the turn queue.
	assert.Equal(t, "alive", room.CurrentPlayerName())
}

func TestBroadcastAllDeadEmptiesRoom(t *testing.T) {
	room := NewRoom("abc123")
	for _, n := range []string{"a", "b"} {
		room.AddConnection(&fakeConn{name: n, fail: true}, n)
	}

	Broadcast(context.Background(), testLogger(), room, NewTurnUpdate(room))
	assert.True(t, room.IsEmpty())
}
