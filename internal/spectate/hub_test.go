package spectate

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/tomz197/pucks/internal/match"
)

type source struct {
	snap atomic.Pointer[match.Snapshot]
}

func (s *source) Snapshot() *match.Snapshot { return s.snap.Load() }

func (s *source) set(frame int) {
	s.snap.Store(&match.Snapshot{Frame: frame, Width: 800, Height: 1200, Turn: "RED", Score: [2]int{1, 2}})
}

func newHub(src Source) *Hub {
	return NewHub(src, Options{Logger: log.New(io.Discard)})
}

func readSnapshot(t *testing.T, conn *websocket.Conn) *match.Snapshot {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	kind, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if kind != websocket.BinaryMessage {
		t.Fatalf("message type = %d, want binary", kind)
	}
	snap, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return snap
}

func TestHubStreamsSnapshots(t *testing.T) {
	src := &source{}
	src.set(1)
	hub := newHub(src)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	first := readSnapshot(t, conn)
	if first.Frame != 1 || first.Score != [2]int{1, 2} || first.Turn != "RED" {
		t.Errorf("first snapshot = %+v", first)
	}

	src.set(2)
	for i := 0; ; i++ {
		if i == 5 {
			t.Fatal("new snapshot never arrived")
		}
		if readSnapshot(t, conn).Frame == 2 {
			break
		}
	}
}

func TestBroadcastDropsSlowViewer(t *testing.T) {
	src := &source{}
	src.set(1)
	hub := newHub(src)
	slow := &client{remote: "slow", send: make(chan []byte, sendBuffer)}
	for i := 0; i < sendBuffer; i++ {
		slow.send <- nil
	}
	hub.clients[slow] = struct{}{}

	hub.broadcast()
	if hub.Clients() != 0 {
		t.Fatal("slow viewer kept")
	}
	for range slow.send {
	}
}

func TestBroadcastSkipsUnchangedSnapshot(t *testing.T) {
	src := &source{}
	src.set(1)
	hub := newHub(src)
	c := &client{remote: "viewer", send: make(chan []byte, sendBuffer)}
	hub.clients[c] = struct{}{}

	hub.broadcast()
	hub.broadcast()
	if len(c.send) != 1 {
		t.Errorf("queued %d messages, want 1", len(c.send))
	}
	src.set(2)
	hub.broadcast()
	if len(c.send) != 2 {
		t.Errorf("queued %d messages after a new snapshot, want 2", len(c.send))
	}
}

func TestIntervalFloor(t *testing.T) {
	hub := NewHub(&source{}, Options{Interval: time.Millisecond, Logger: log.New(io.Discard)})
	if hub.interval != MinInterval {
		t.Errorf("interval = %v, want %v", hub.interval, MinInterval)
	}
}
