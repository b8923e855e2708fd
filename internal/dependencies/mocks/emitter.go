package mocks

import (
	"sync"

	"github.com/mcoot/tetrisparty/internal/model"
)

// Sent is one message captured by RecordingEmitter.
// Conn is 0 for broadcasts.
type Sent struct {
	Conn      model.ConnID
	Event     string
	Payload   any
	Broadcast bool
}

// RecordingEmitter captures outbound messages instead of writing them to sockets
type RecordingEmitter struct {
	mu   sync.Mutex
	sent []Sent
}

// NewRecordingEmitter creates an empty RecordingEmitter
func NewRecordingEmitter() *RecordingEmitter {
	return &RecordingEmitter{}
}

// Emit records a message to one connection
func (e *RecordingEmitter) Emit(conn model.ConnID, event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, Sent{Conn: conn, Event: event, Payload: freeze(payload)})
}

// Broadcast records a message to every connection
func (e *RecordingEmitter) Broadcast(event string, payload any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = append(e.sent, Sent{Event: event, Payload: freeze(payload), Broadcast: true})
}

// All returns every recorded message in order
func (e *RecordingEmitter) All() []Sent {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Sent, len(e.sent))
	copy(out, e.sent)
	return out
}

// To returns the messages addressed to conn, broadcasts excluded
func (e *RecordingEmitter) To(conn model.ConnID) []Sent {
	var out []Sent
	for _, s := range e.All() {
		if !s.Broadcast && s.Conn == conn {
			out = append(out, s)
		}
	}
	return out
}

// Events returns the event names addressed to conn, in order
func (e *RecordingEmitter) Events(conn model.ConnID) []string {
	var out []string
	for _, s := range e.To(conn) {
		out = append(out, s.Event)
	}
	return out
}

// Broadcasts returns every broadcast with the given event name
func (e *RecordingEmitter) Broadcasts(event string) []Sent {
	var out []Sent
	for _, s := range e.All() {
		if s.Broadcast && s.Event == event {
			out = append(out, s)
		}
	}
	return out
}

// Last returns the most recent message addressed to conn with the given event
func (e *RecordingEmitter) Last(conn model.ConnID, event string) (Sent, bool) {
	msgs := e.To(conn)
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Event == event {
			return msgs[i], true
		}
	}
	return Sent{}, false
}

// Reset discards everything recorded so far
func (e *RecordingEmitter) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sent = nil
}

// freeze copies game states so later mutation does not rewrite history,
// matching a real emitter that encodes at send time
func freeze(payload any) any {
	if state, ok := payload.(*model.GameState); ok {
		return state.Clone()
	}
	return payload
}
