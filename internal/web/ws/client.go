package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
)

// Config holds socket timing and size limits
type Config struct {
	// Time allowed to write a message to the peer
	WriteWait time.Duration

	// Time allowed between pongs before the peer is considered dead
	PongWait time.Duration

	// Time between pings. Must be less than PongWait.
	PingPeriod time.Duration

	// Largest inbound frame accepted
	MaxMessageSize int64

	// Buffer size for outgoing messages
	SendBufferSize int
}

// DefaultConfig returns the standard socket settings
func DefaultConfig() Config {
	return Config{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 4096,
		SendBufferSize: 256,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBufferSize <= 0 {
		c.SendBufferSize = d.SendBufferSize
	}
	return c
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Displays and phones on the same network load the page from different hosts
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one open socket (one browser tab)
type Client struct {
	id          model.ConnID
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	remoteAddr  string
	connectedAt time.Time
}

// ServeWS upgrades the request and pumps the socket until it closes
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:         h,
		conn:        conn,
		send:        make(chan []byte, h.cfg.SendBufferSize),
		remoteAddr:  r.RemoteAddr,
		connectedAt: time.Now(),
	}
	if !h.register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(h.cfg.WriteWait))
		_ = conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

// ID returns the connection id
func (c *Client) ID() model.ConnID {
	return c.id
}

// readPump decodes inbound frames until the socket fails, then reports the disconnect
func (c *Client) readPump() {
	h := c.hub
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
		h.post(arcade.Event{Kind: arcade.Disconnected, Conn: c.id})
	}()

	c.conn.SetReadLimit(h.cfg.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
		h.post(arcade.Event{Kind: arcade.Pong, Conn: c.id})
		return nil
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.logger.Warn("ws read error",
					slog.String("conn_id", c.id.String()),
					slog.String("error", err.Error()))
			}
			return
		}
		_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))

		ev, err := decode(c.id, frame)
		if err != nil {
			level := slog.LevelDebug
			if !errors.Is(err, model.ErrUnknownEvent) && !errors.Is(err, model.ErrUnknownAction) {
				level = slog.LevelInfo
			}
			h.logger.Log(context.Background(), level, "ws frame ignored",
				slog.String("conn_id", c.id.String()),
				slog.String("error", err.Error()))
			continue
		}
		h.post(ev)
	}
}

// writePump drains the send buffer to the socket and keeps it alive with pings
func (c *Client) writePump() {
	h := c.hub
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
