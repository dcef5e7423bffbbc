package game

import (
	"log/slog"
	"sync"
	"time"

	"github.com/GRaf-NEET/dice/pkg/metrics"
)

// Registry owns the set of live rooms. A single mutex serializes every
// map mutation and every cleanup-handle swap, so a room can never be
// deleted while a connection is mid-registration into it.
type Registry struct {
	log   *slog.Logger
	grace time.Duration

	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRegistry builds an empty registry. grace is how long an empty
// room survives before deferred deletion fires.
func NewRegistry(log *slog.Logger, grace time.Duration) *Registry {
	return &Registry{
		log:   log,
		grace: grace,
		rooms: make(map[string]*Room),
	}
}

// GetOrCreate returns the room for code, creating it if absent. A
// pending cleanup for the room is always cancelled: a new arrival
// preempts scheduled deletion.
func (g *Registry) GetOrCreate(code string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()

	room := g.rooms[code]
	if room == nil {
		room = NewRoom(code)
		g.rooms[code] = room
		metrics.RoomsActive.Inc()
		g.log.Info("room.created", "room", code)
	}
	if room.cleanup != nil {
		room.cleanup.Stop()
		room.cleanup = nil
		g.log.Debug("room.cleanup.cancelled", "room", code)
	}
	return room
}

// Get looks a room up without creating it.
func (g *Registry) Get(code string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[code]
}

// Len reports the number of live rooms.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}

// ScheduleCleanup arms a one-shot deferred deletion for code. At most
// one task is pending per room; arming while one is pending is a
// no-op. When the task fires it re-resolves the code and deletes the
// room only if it still exists and is still empty.
func (g *Registry) ScheduleCleanup(code string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room := g.rooms[code]
	if room == nil || room.cleanup != nil {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(g.grace, func() { g.fireCleanup(code, t) })
	room.cleanup = t
	g.log.Debug("room.cleanup.armed", "room", code, "grace", g.grace)
}

// fireCleanup is the body of the deferred task. The handle identity
// check makes cancellation race-free: a timer that loses the Stop race
// still finds its handle cleared (or replaced) and backs off.
func (g *Registry) fireCleanup(code string, t *time.Timer) {
	defer func() {
		if rec := recover(); rec != nil {
			g.log.Error("room.cleanup.panic", "room", code, "panic", rec)
		}
	}()

	g.mu.Lock()
	defer g.mu.Unlock()

	room := g.rooms[code]
	if room == nil || room.cleanup != t {
		return
	}
	room.cleanup = nil
	if !room.IsEmpty() {
		g.log.Debug("room.cleanup.skip", "room", code)
		return
	}
	g.removeLocked(code)
}

// removeLocked deletes the room entry. Callers must hold g.mu; only
// the cleanup task removes rooms.
func (g *Registry) removeLocked(code string) {
	delete(g.rooms, code)
	metrics.RoomsActive.Dec()
	g.log.Info("room.deleted", "room", code)
}
