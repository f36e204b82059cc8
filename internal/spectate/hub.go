// Package spectate streams read-only match snapshots to websocket viewers.
package spectate

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/pucks/internal/match"
	"github.com/vmihailenco/msgpack/v5"
)

// MinInterval caps broadcasts at 15 per second.
const MinInterval = time.Second / 15

const (
	sendBuffer   = 4
	writeTimeout = 5 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 25 * time.Second
	readLimit    = 512
)

// Source publishes the latest snapshot of a match.
type Source interface {
	Snapshot() *match.Snapshot
}

// Options configures a Hub.
type Options struct {
	Interval time.Duration // Broadcast period, never below MinInterval
	Logger   *log.Logger
}

// Hub upgrades viewers to websockets and broadcasts msgpack snapshots to
// them. Viewers that fall behind are disconnected.
type Hub struct {
	source   Source
	interval time.Duration
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *match.Snapshot
}

type client struct {
	conn   *websocket.Conn
	remote string
	send   chan []byte
	once   sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHub creates a hub reading snapshots from src.
func NewHub(src Source, opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		source:   src,
		interval: max(opts.Interval, MinInterval),
		logger:   logger.WithPrefix("spectate"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Encode serializes a snapshot for the wire.
func Encode(snap *match.Snapshot) ([]byte, error) {
	return msgpack.Marshal(snap)
}

// Decode parses a snapshot received from the hub.
func Decode(data []byte) (*match.Snapshot, error) {
	var snap match.Snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Clients returns the number of connected viewers.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams snapshots until the viewer
// disconnects. Anything the viewer sends is ignored.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	c := &client{conn: conn, remote: r.RemoteAddr, send: make(chan []byte, sendBuffer)}

	if snap := h.source.Snapshot(); snap != nil {
		if data, err := Encode(snap); err == nil {
			c.send <- data
		}
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("viewer connected", "remote", r.RemoteAddr, "viewers", n)

	go h.writePump(c)
	h.readPump(c)

	h.remove(c)
	h.logger.Info("viewer disconnected", "remote", r.RemoteAddr)
}

// readPump keeps the read deadline fresh and detects closed connections.
func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump sends queued snapshots and pings until the send channel closes.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Run broadcasts new snapshots every interval until ctx is done, then
// disconnects all viewers.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.C:
			h.broadcast()
		}
	}
}

// broadcast sends the current snapshot if it changed since the last one.
func (h *Hub) broadcast() {
	snap := h.source.Snapshot()
	h.mu.Lock()
	defer h.mu.Unlock()
	if snap == nil || snap == h.last || len(h.clients) == 0 {
		return
	}
	h.last = snap

	data, err := Encode(snap)
	if err != nil {
		h.logger.Error("encode snapshot", "err", err)
		return
	}
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow viewer", "remote", c.remote)
			delete(h.clients, c)
			c.close()
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		c.close()
	}
}
