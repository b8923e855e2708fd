package ws

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
)

// Sink receives decoded inbound events
type Sink interface {
	Post(ev arcade.Event)
}

// Hub tracks every open socket and implements arcade.Emitter over them.
// Emit and Broadcast encode on the caller's goroutine and never block on a
// slow client; a full send buffer drops the message.
type Hub struct {
	clients map[model.ConnID]*Client
	mu      sync.RWMutex
	nextID  atomic.Uint64
	closed  bool

	sink   Sink
	cfg    Config
	logger *slog.Logger
}

// Ensure Hub implements the emitter the arcade writes to
var _ arcade.Emitter = (*Hub)(nil)

// NewHub creates a new Hub delivering inbound events to sink
func NewHub(sink Sink, cfg Config, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.ConnID]*Client),
		sink:    sink,
		cfg:     cfg.withDefaults(),
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// SetSink replaces the inbound sink. Call before serving.
func (h *Hub) SetSink(sink Sink) {
	h.sink = sink
}

// register assigns an id and makes the client addressable
func (h *Hub) register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	client.id = model.ConnID(h.nextID.Add(1))
	h.clients[client.id] = client
	h.logger.Info("ws client registered",
		slog.String("conn_id", client.id.String()),
		slog.String("remote_addr", client.remoteAddr),
		slog.Int("total_clients", len(h.clients)))
	return true
}

// unregister removes the client and closes its send buffer. Returns false if
// it was already gone.
func (h *Hub) unregister(client *Client) bool {
	h.mu.Lock()
	if existing, ok := h.clients[client.id]; !ok || existing != client {
		h.mu.Unlock()
		return false
	}
	delete(h.clients, client.id)
	close(client.send)
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("ws client unregistered",
		slog.String("conn_id", client.id.String()),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", clientCount))
	return true
}

// Emit sends one event to one connection
func (h *Hub) Emit(conn model.ConnID, event string, payload any) {
	message, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	client, ok := h.clients[conn]
	if !ok {
		return
	}
	h.deliver(client, event, message)
}

// Broadcast sends one event to every connection
func (h *Hub) Broadcast(event string, payload any) {
	message, err := encode(event, payload)
	if err != nil {
		h.logger.Error("failed to encode event", slog.String("event", event), slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	droppedCount := 0
	for _, client := range h.clients {
		if !h.deliver(client, event, message) {
			droppedCount++
		}
	}
	if droppedCount > 0 {
		h.logger.Warn("ws broadcast partial failure",
			slog.String("event", event),
			slog.Int("sent", len(h.clients)-droppedCount),
			slog.Int("dropped", droppedCount))
	}
}

// deliver must be called with h.mu held
func (h *Hub) deliver(client *Client, event string, message []byte) bool {
	select {
	case client.send <- message:
		return true
	default:
		h.logger.Warn("ws message dropped - client buffer full",
			slog.String("conn_id", client.id.String()),
			slog.String("event", event))
		return false
	}
}

// Close disconnects every client and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	clientCount := len(h.clients)
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
	h.logger.Info("ws hub stopped", slog.Int("disconnected_clients", clientCount))
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) post(ev arcade.Event) {
	if h.sink != nil {
		h.sink.Post(ev)
	}
}
