package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/GRaf-NEET/dice/internal/game"
	"github.com/GRaf-NEET/dice/pkg/metrics"
)

// Inbound messages beyond this rate are dropped. Generous on purpose:
// it only has to stop a misbehaving client from flooding the room.
const (
	inboundRate  = 20
	inboundBurst = 40
)

// Hub runs one session loop per accepted connection. All sessions
// share the room registry; everything else is per-connection state.
type Hub struct {
	log      *slog.Logger
	registry *game.Registry
}

func NewHub(logger *slog.Logger, registry *game.Registry) *Hub {
	return &Hub{log: logger, registry: registry}
}

// ServeWS handles a new /ws/{code} connection
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		http.Error(w, "room code required", http.StatusBadRequest)
		return
	}

	sock, err := Accept(w, r)
	if err != nil {
		h.log.Error("ws.accept", "room", code, "err", err)
		return
	}

	ctx := r.Context()
	room := h.registry.GetOrCreate(code)
	c := NewConn(sock)
	go c.PingLoop(ctx)

	nickname, ok := h.awaitJoin(ctx, code, c)
	if !ok {
		c.CloseViolation("expected join message")
		// The attach may have created (or rescued) a room nobody
		// ever joined; make sure it does not linger forever.
		if room.IsEmpty() {
			h.registry.ScheduleCleanup(code)
		}
		return
	}

	c.SetName(nickname)
	room.AddConnection(c, nickname)
	metrics.ConnectionsActive.Inc()
	h.log.Info("player.joined", "room", code, "nickname", nickname, "conn", c.ID())

	// A panic in the loop takes the same disconnect path as a normal
	// close; it must never take the process down.
	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("ws.session_panic", "room", code, "conn", c.ID(), "panic", rec)
		}
		h.leave(code, c)
		_ = c.Close()
	}()

	game.Broadcast(ctx, h.log, room, game.NewRosterEvent(game.EventPlayerJoined, room, nickname))

	h.pump(ctx, room, c)
}

// awaitJoin enforces the join handshake: the first frame must be a
// valid join message. Anything else is a protocol violation.
func (h *Hub) awaitJoin(ctx context.Context, code string, c *Conn) (string, bool) {
	data, err := c.Read(ctx)
	if err != nil {
		h.log.Debug("ws.closed_before_join", "room", code, "err", err)
		return "", false
	}
	msg, err := game.ParseClientMessage(data)
	if err != nil {
		h.log.Warn("ws.invalid_join", "room", code, "err", err)
		return "", false
	}
	join, ok := msg.(game.JoinMessage)
	if !ok {
		h.log.Warn("ws.invalid_join", "room", code, "type", fmt.Sprintf("%T", msg))
		return "", false
	}
	return join.Nickname, true
}

// pump is the per-connection message loop. It returns on disconnect or
// on a malformed frame; either way the caller runs the leave path.
func (h *Hub) pump(ctx context.Context, room *game.Room, c *Conn) {
	limiter := rate.NewLimiter(rate.Limit(inboundRate), inboundBurst)

	for {
		data, err := c.Read(ctx)
		if err != nil {
			return
		}
		if !limiter.Allow() {
			h.log.Warn("ws.rate_limited", "room", room.Code, "conn", c.ID())
			continue
		}

		msg, err := game.ParseClientMessage(data)
		if err != nil {
			if errors.Is(err, game.ErrUnknownMessage) {
				continue
			}
			h.log.Warn("ws.bad_frame", "room", room.Code, "conn", c.ID(), "err", err)
			return
		}

		switch m := msg.(type) {
		case game.RollMessage:
			h.handleRoll(ctx, room, c, m)
		case game.ModeMessage:
			room.SetTurnBased(m.TurnBased)
			game.Broadcast(ctx, h.log, room, game.NewTurnUpdate(room))
		case game.JoinMessage:
			// Already joined; repeated joins carry no meaning.
		}
	}
}

func (h *Hub) handleRoll(ctx context.Context, room *game.Room, c *Conn, m game.RollMessage) {
	if room.TurnBased() && !room.IsCurrent(c) {
		err := c.Send(ctx, game.ErrorEvent{
			Type:    game.EventError,
			Message: fmt.Sprintf("It is %s's turn now. Please wait for your move.", room.CurrentPlayerName()),
		})
		if err != nil {
			h.log.Debug("ws.error_send_failed", "room", room.Code, "conn", c.ID(), "err", err)
		}
		return
	}

	spec := game.ResolveDice(m.DiceType, m.Quantity, m.CustomSides)
	rolls := game.Roll(spec.Quantity, spec.Sides)
	total := 0
	for _, v := range rolls {
		total += v
	}

	result := game.RollResult{
		Type:         game.EventDiceResult,
		Nickname:     c.Name(),
		DiceType:     spec.Type,
		DiceNotation: spec.Notation,
		Quantity:     spec.Quantity,
		Sides:        spec.Sides,
		Rolls:        rolls,
		Total:        total,
	}
	room.AppendHistory(result)
	metrics.RollsTotal.Inc()
	h.log.Debug("dice.rolled", "room", room.Code, "nickname", c.Name(), "notation", spec.Notation, "total", total)

	game.Broadcast(ctx, h.log, room, game.RollAnnouncement{
		Type:         game.EventDiceRoll,
		Nickname:     c.Name(),
		DiceNotation: spec.Notation,
		Quantity:     spec.Quantity,
		Sides:        spec.Sides,
	})
	game.Broadcast(ctx, h.log, room, result)

	if room.TurnBased() {
		room.NextTurn()
		game.Broadcast(ctx, h.log, room, game.NewTurnUpdate(room))
	}
}

// leave runs the disconnect path: deregister, tell the others, and arm
// deferred deletion if the room emptied. The room is re-resolved
// through the registry, not taken from the attach-time pointer. The
// request context is gone by now, so broadcasts use a fresh one.
func (h *Hub) leave(code string, c *Conn) {
	metrics.ConnectionsActive.Dec()

	room := h.registry.Get(code)
	if room == nil {
		return
	}

	// A broadcast sweep may have pruned this connection already; then
	// the departure was implicit and there is nothing to announce, but
	// an emptied room still needs its cleanup armed.
	if nickname, removed := room.RemoveConnection(c); removed {
		h.log.Info("player.left", "room", code, "nickname", nickname, "conn", c.ID())
		game.Broadcast(context.Background(), h.log, room, game.NewRosterEvent(game.EventPlayerLeft, room, nickname))
	}

	if room.IsEmpty() {
		h.registry.ScheduleCleanup(code)
	}
}
