package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 20 * time.Second
)

// Accept upgrades HTTP to websocket (allow all origins)
func Accept(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
}

// Conn wraps one client socket. Each Conn carries an opaque handle so
// the same player reconnecting gets a fresh identity.
type Conn struct {
	sock *websocket.Conn
	id   string
	name string // display name, set once the join handshake succeeds
}

func NewConn(sock *websocket.Conn) *Conn {
	return &Conn{sock: sock, id: uuid.NewString()}
}

func (c *Conn) ID() string       { return c.id }
func (c *Conn) Name() string     { return c.name }
func (c *Conn) SetName(n string) { c.name = n }

// Send writes one JSON event. nhooyr serializes concurrent writers, so
// every event reaches the client as a single message.
func (c *Conn) Send(ctx context.Context, event any) error {
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(wctx, c.sock, event)
}

// Read blocks until the next text/binary frame arrives. Any read error
// (including peer close) ends the session.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	for {
		typ, data, err := c.sock.Read(ctx)
		if err != nil {
			return nil, err
		}
		if typ == websocket.MessageText || typ == websocket.MessageBinary {
			return data, nil
		}
	}
}

// PingLoop sends periodic pings until ctx is cancelled. Ping errors
// are ignored; the read loop observes the closed socket.
func (c *Conn) PingLoop(ctx context.Context) {
	t := time.NewTicker(pingInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			_ = c.sock.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Close closes the socket normally.
func (c *Conn) Close() error {
	return c.sock.Close(websocket.StatusNormalClosure, "bye")
}

// CloseViolation rejects a connection that broke the join protocol.
func (c *Conn) CloseViolation(reason string) {
	_ = c.sock.Close(websocket.StatusPolicyViolation, reason)
}
