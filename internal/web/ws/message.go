package ws

import (
	"encoding/json"
	"fmt"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
)

// Envelope is the JSON frame used in both directions
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// inbound is an Envelope with the payload left undecoded
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// encode renders one outbound frame
func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: payload})
}

// decode turns a client frame into an arcade event
func decode(conn model.ConnID, frame []byte) (arcade.Event, error) {
	var msg inbound
	if err := json.Unmarshal(frame, &msg); err != nil {
		return arcade.Event{}, fmt.Errorf("malformed frame: %w", err)
	}

	ev := arcade.Event{Conn: conn}
	switch msg.Event {
	case model.EventDisplayConnect:
		ev.Kind = arcade.DisplayConnected
	case model.EventControlsConnect:
		ev.Kind = arcade.ControlsConnected
	case model.EventStartGame:
		ev.Kind = arcade.StartGame
	case model.EventHeartbeat:
		ev.Kind = arcade.Heartbeat
	case model.EventGameUpdate:
		var payload model.GameUpdatePayload
		if len(msg.Data) == 0 {
			return arcade.Event{}, fmt.Errorf("%w: missing action", model.ErrUnknownAction)
		}
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return arcade.Event{}, fmt.Errorf("malformed %s payload: %w", msg.Event, err)
		}
		if !payload.Action.Valid() {
			return arcade.Event{}, fmt.Errorf("%w: %q", model.ErrUnknownAction, payload.Action)
		}
		ev.Kind = arcade.GameUpdate
		ev.Action = payload.Action
	default:
		return arcade.Event{}, fmt.Errorf("%w: %q", model.ErrUnknownEvent, msg.Event)
	}
	return ev, nil
}
