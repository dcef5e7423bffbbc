package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dice_rooms_active",
		Help: "Number of live rooms in the registry.",
	})
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dice_connections_active",
		Help: "Number of registered player connections.",
	})
	RollsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dice_rolls_total",
		Help: "Total dice rolls performed.",
	})
	BroadcastMessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dice_broadcast_messages_total",
		Help: "Total per-connection event deliveries.",
	})
	DeadConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dice_dead_connections_total",
		Help: "Connections pruned after a failed delivery.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
