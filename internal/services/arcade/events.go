package arcade

import (
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/scheduler"
)

// EventKind identifies an input to the controller loop
type EventKind int

const (
	DisplayConnected EventKind = iota + 1
	ControlsConnected
	StartGame
	GameUpdate
	Heartbeat
	Pong
	Disconnected

	// internal
	timerFired
	scoreResult
	statusQuery
)

func (k EventKind) String() string {
	switch k {
	case DisplayConnected:
		return "displayConnected"
	case ControlsConnected:
		return "controlsConnected"
	case StartGame:
		return "startGame"
	case GameUpdate:
		return "gameUpdate"
	case Heartbeat:
		return "heartbeat"
	case Pong:
		return "pong"
	case Disconnected:
		return "disconnected"
	case timerFired:
		return "timer"
	case scoreResult:
		return "scoreResult"
	case statusQuery:
		return "statusQuery"
	default:
		return "unknown"
	}
}

// Event is one serialized input: a connection message, a timer tick, or a
// completed background task.
type Event struct {
	Kind   EventKind
	Conn   model.ConnID
	Action model.Action

	tick  scheduler.Tick
	entry model.ScoreEntry
	err   error
	reply chan Status
}

// Status is a point-in-time summary of the arcade
type Status struct {
	Playing   bool `json:"playing"`
	Queued    int  `json:"queued"`
	Viewers   int  `json:"viewers"`
	Replaying bool `json:"replaying"`
}

// Emitter delivers outbound events. Unknown connections are ignored.
type Emitter interface {
	Emit(conn model.ConnID, event string, payload any)
	Broadcast(event string, payload any)
}
