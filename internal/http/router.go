package httpx

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/GRaf-NEET/dice/internal/app"
	"github.com/GRaf-NEET/dice/internal/ws"
	"github.com/GRaf-NEET/dice/pkg/metrics"
)

//go:embed static
var staticFS embed.FS

// NewRouter wires up all HTTP routes, middleware, and handlers
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub) http.Handler {
	mw := NewMiddleware(cfg)

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint, one room per code
	mux.HandleFunc("/ws/{code}", hub.ServeWS)

	// Landing on the site drops the visitor into a fresh room
	toNewRoom := func(w http.ResponseWriter, r *http.Request) {
		code := GenerateRoomCode(cfg.RoomCodeLen)
		logger.Debug("room.redirect", "room", code)
		http.Redirect(w, r, "/room/"+code, http.StatusTemporaryRedirect)
	}
	mux.HandleFunc("/{$}", toNewRoom)
	mux.HandleFunc("/room", toNewRoom)
	mux.HandleFunc("/room/{code}", servePage(logger))

	// Static assets + an empty favicon so browsers stop 404ing
	mux.Handle("/static/", http.FileServerFS(staticFS))
	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/x-icon")
	})

	return mw.Wrap(mux)
}

// servePage returns the handler for the room page; the room code in
// the path is resolved client-side when the page opens its websocket.
func servePage(logger *slog.Logger) http.HandlerFunc {
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// Embedded at build time; missing means a broken build.
		panic(err)
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			logger.Debug("http.page_write", "err", err)
		}
	}
}
