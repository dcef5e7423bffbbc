package game

import (
	"context"
	"sync"
	"time"
)

// historyLimit bounds the per-room roll history; oldest entries are
// evicted first.
const historyLimit = 50

// Conn is one live client endpoint in a room. Implementations must
// serialize concurrent Sends so that every event reaches the client as
// a single message. Implementations must be comparable (pointers are).
type Conn interface {
	Send(ctx context.Context, event any) error
}

// Room holds the membership, turn order and roll history of one
// session. All methods are safe for concurrent use; the cleanup timer
// handle is owned by the Registry and guarded by its lock instead.
type Room struct {
	Code string

	mu        sync.Mutex
	members   map[Conn]string
	turnOrder []Conn
	turnIndex int
	turnBased bool
	history   []RollResult

	// Pending deferred-deletion timer, if any. Guarded by the
	// Registry mutex, not r.mu.
	cleanup *time.Timer
}

func NewRoom(code string) *Room {
	return &Room{
		Code:      code,
		members:   make(map[Conn]string),
		turnBased: true,
	}
}

// AddConnection registers c under name. The name binding is always
// overwritten; the turn-order entry is only appended if c is not
// already queued, so a rejoin does not duplicate it.
func (r *Room) AddConnection(c Conn, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[c] = name
	for _, existing := range r.turnOrder {
		if existing == c {
			return
		}
	}
	r.turnOrder = append(r.turnOrder, c)
}

// RemoveConnection drops c from the room and repairs the turn index:
// removing an entry before the current one shifts the index left,
// removing the current entry re-wraps it onto the next player, and an
// emptied queue resets it to zero. Returns the removed name and
// whether c was a member.
func (r *Room) RemoveConnection(c Conn) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.members[c]
	if !ok {
		return "", false
	}
	delete(r.members, c)

	for i, existing := range r.turnOrder {
		if existing != c {
			continue
		}
		r.turnOrder = append(r.turnOrder[:i], r.turnOrder[i+1:]...)
		if i < r.turnIndex {
			r.turnIndex--
		} else if i == r.turnIndex && len(r.turnOrder) > 0 {
			r.turnIndex %= len(r.turnOrder)
		}
		break
	}
	if len(r.turnOrder) == 0 {
		r.turnIndex = 0
	}
	return name, true
}

// IsEmpty reports whether no live connections remain.
func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members) == 0
}

// CurrentPlayer returns the connection whose turn it is, or nil when
// the turn queue is empty.
func (r *Room) CurrentPlayer() Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLocked()
}

func (r *Room) currentLocked() Conn {
	if len(r.turnOrder) > 0 && r.turnIndex < len(r.turnOrder) {
		return r.turnOrder[r.turnIndex]
	}
	return nil
}

// CurrentPlayerName returns the display name of the current player, or
// "" when there is none.
func (r *Room) CurrentPlayerName() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c := r.currentLocked(); c != nil {
		return r.members[c]
	}
	return ""
}

// IsCurrent reports whether c holds the turn.
func (r *Room) IsCurrent(c Conn) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLocked() == c
}

// NextTurn advances the turn pointer round-robin. No-op on an empty
// queue.
func (r *Room) NextTurn() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.turnOrder) > 0 {
		r.turnIndex = (r.turnIndex + 1) % len(r.turnOrder)
	}
}

// PlayersInOrder returns display names following the turn order,
// skipping any handle no longer present in members.
func (r *Room) PlayersInOrder() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.turnOrder))
	for _, c := range r.turnOrder {
		if name, ok := r.members[c]; ok {
			out = append(out, name)
		}
	}
	return out
}

// Conns returns a snapshot of the live connections.
func (r *Room) Conns() []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Conn, 0, len(r.members))
	for c := range r.members {
		out = append(out, c)
	}
	return out
}

// TurnBased reports the current mode.
func (r *Room) TurnBased() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.turnBased
}

// SetTurnBased switches between turn-based and free play. Any member
// may toggle the mode.
func (r *Room) SetTurnBased(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.turnBased = v
}

// AppendHistory records a roll, evicting the oldest entries beyond the
// history limit.
func (r *Room) AppendHistory(res RollResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, res)
	if len(r.history) > historyLimit {
		r.history = r.history[len(r.history)-historyLimit:]
	}
}

// History returns a copy of the recorded rolls, oldest first.
func (r *Room) History() []RollResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RollResult, len(r.history))
	copy(out, r.history)
	return out
}
