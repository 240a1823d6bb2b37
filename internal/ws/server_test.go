package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"diamond-bridge/internal/bridge"
	"diamond-bridge/internal/game"
)

type viewerMessage struct {
	Type        string        `json:"type"`
	State       game.Snapshot `json:"state"`
	Error       string        `json:"error"`
	TimestampMS int64         `json:"timestamp_ms"`
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	b, err := bridge.New(bridge.Config{Seed: 7, QualityInterval: time.Hour}, nil, nil)
	if err != nil {
		t.Fatalf("bridge.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()

	srv := NewServer(b, 16)
	httpSrv := httptest.NewServer(http.HandlerFunc(srv.HandleWS))

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
		httpSrv.Close()
		cancel()
		<-done
	})
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) viewerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m viewerMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return m
}

func sendCommand(t *testing.T, conn *websocket.Conn, cmdType string) {
	t.Helper()
	payload, _ := json.Marshal(Command{Type: cmdType})
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConnectReceivesAckAndSnapshot(t *testing.T) {
	conn := dialTestServer(t)

	m := readMessage(t, conn)
	if m.Type != "connection_established" {
		t.Fatalf("first message type = %q", m.Type)
	}
	if m.State.Inning != 1 || m.State.Half != "top" || m.State.HomeScore != 0 {
		t.Fatalf("unexpected snapshot: %+v", m.State)
	}
}

func TestPlayBallProducesStateUpdate(t *testing.T) {
	conn := dialTestServer(t)
	readMessage(t, conn) // connection_established

	sendCommand(t, conn, CommandPlayBall)
	m := readMessage(t, conn)
	if m.Type != "state_update" {
		t.Fatalf("message type = %q, want state_update", m.Type)
	}
	if m.State.LastPlay == "" {
		t.Fatal("state_update carries no last play")
	}
}

func TestResetGameReturnsInitialState(t *testing.T) {
	conn := dialTestServer(t)
	readMessage(t, conn)

	sendCommand(t, conn, CommandPlayBall)
	readMessage(t, conn)

	sendCommand(t, conn, CommandResetGame)
	m := readMessage(t, conn)
	if m.Type != "state_update" {
		t.Fatalf("message type = %q", m.Type)
	}
	if m.State.Inning != 1 || m.State.Outs != 0 || m.State.LastPlay != "" {
		t.Fatalf("reset state not initial: %+v", m.State)
	}
}

func TestRequestStateEchoesCurrentState(t *testing.T) {
	conn := dialTestServer(t)
	readMessage(t, conn)

	sendCommand(t, conn, CommandRequestState)
	m := readMessage(t, conn)
	if m.Type != "state_update" {
		t.Fatalf("message type = %q", m.Type)
	}
}

func TestUnknownCommandRejectedWithoutDisconnect(t *testing.T) {
	conn := dialTestServer(t)
	readMessage(t, conn)

	sendCommand(t, conn, "steal_base")
	m := readMessage(t, conn)
	if m.Type != "error" || m.Error != "unknown_command" {
		t.Fatalf("got %+v, want unknown_command error", m)
	}

	// Connection survives the rejected command.
	sendCommand(t, conn, CommandRequestState)
	if m := readMessage(t, conn); m.Type != "state_update" {
		t.Fatalf("message type = %q after rejection", m.Type)
	}
}

func TestClientTrySendAfterClose(t *testing.T) {
	c := newClient(nil, 1)
	// Close before any pump starts; conn is nil, so guard the close call.
	c.closed.Store(true)
	close(c.done)
	if err := c.TrySend([]byte("x")); err == nil {
		t.Fatal("TrySend on closed client should fail")
	}
}

func TestClientTrySendQueueFull(t *testing.T) {
	c := newClient(nil, 1)
	if err := c.TrySend([]byte("a")); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if err := c.TrySend([]byte("b")); err == nil {
		t.Fatal("second send should overflow the queue")
	}
}
