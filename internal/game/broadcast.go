package game

import (
	"context"
	"log/slog"

	"github.com/GRaf-NEET/dice/pkg/metrics"
)

// Broadcast delivers event to every connection in the room. A failed
// send marks that connection dead without aborting delivery to the
// rest; dead connections are removed from the room after the sweep.
func Broadcast(ctx context.Context, log *slog.Logger, room *Room, event any) {
	var dead []Conn
	for _, c := range room.Conns() {
		if err := c.Send(ctx, event); err != nil {
			log.Warn("broadcast.send_failed", "room", room.Code, "err", err)
			metrics.DeadConnectionsTotal.Inc()
			dead = append(dead, c)
			continue
		}
		metrics.BroadcastMessagesTotal.Inc()
	}
	for _, c := range dead {
		room.RemoveConnection(c)
	}
}
