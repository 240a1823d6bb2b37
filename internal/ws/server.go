package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"diamond-bridge/internal/bridge"
)

const writeTimeout = 10 * time.Second

var (
	errClientClosed  = errors.New("ws: client closed")
	errSendQueueFull = errors.New("ws: send queue full")
)

// Client is one viewer connection. Sends are queued non-blocking; a full
// queue marks the viewer too slow and it gets evicted rather than stalling
// the bridge loop.
type Client struct {
	id        string
	conn      *websocket.Conn
	send      chan []byte
	done      chan struct{}
	closed    atomic.Bool
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 16
	}
	return &Client{
		id:   bridge.NewID(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *Client) ID() string { return c.id }

func (c *Client) TrySend(msg []byte) error {
	if c.closed.Load() {
		return errClientClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return errSendQueueFull
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.done)
		_ = c.conn.Close()
	})
}

// writeLoop is the single writer for the connection, which preserves
// per-viewer message order.
func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		}
	}
}

// Server upgrades viewer connections and feeds their commands to the bridge.
type Server struct {
	bridge     *bridge.Bridge
	upgrader   websocket.Upgrader
	sendBuffer int
}

func NewServer(b *bridge.Bridge, sendBuffer int) *Server {
	return &Server{
		bridge:     b,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		sendBuffer: sendBuffer,
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := newClient(conn, s.sendBuffer)

	go client.writeLoop()
	s.bridge.Attach(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.bridge.Detach(c)
		c.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Str("viewer", c.id).Err(err).Msg("viewer read ended")
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			s.bridge.UnknownCommand(c, "invalid_json")
			continue
		}
		switch cmd.Type {
		case CommandPlayBall:
			s.bridge.PlayBall(c)
		case CommandResetGame:
			s.bridge.ResetGame()
		case CommandRequestState:
			s.bridge.RequestState(c)
		default:
			s.bridge.UnknownCommand(c, cmd.Type)
		}
	}
}
