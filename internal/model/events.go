package model

// Wire event names. Casing is part of the protocol.
const (
	// Inbound
	EventDisplayConnect  = "displayConnect"
	EventControlsConnect = "controlsConnect"
	EventStartGame       = "startGame"
	EventGameUpdate      = "gameUpdate"
	EventHeartbeat       = "heartbeat"

	// Outbound to viewers
	EventGameConfig  = "gameConfig"
	EventUpdateGame  = "updateGame"
	EventReplayStart = "replayStart"

	// Outbound to controllers
	EventQueueUpdate     = "queueUpdate"
	EventGameStart       = "gameStart"
	EventGameEnd         = "gameEnd"
	EventLevelUp         = "levelUp"
	EventScoreSaved      = "scoreSaved"
	EventScoreSaveFailed = "scoreSaveFailed"
	EventKicked          = "kicked"
	EventError           = "error"
)

// Action is a controller input carried by gameUpdate
type Action string

const (
	ActionMoveLeft  Action = "moveLeft"
	ActionMoveRight Action = "moveRight"
	ActionMoveDown  Action = "moveDown"
	ActionRotate    Action = "rotate"
	ActionHardDrop  Action = "hardDrop"
)

// Valid reports whether the action is one the mechanics understand
func (a Action) Valid() bool {
	switch a {
	case ActionMoveLeft, ActionMoveRight, ActionMoveDown, ActionRotate, ActionHardDrop:
		return true
	default:
		return false
	}
}

// GameUpdatePayload is the inbound gameUpdate body
type GameUpdatePayload struct {
	Action Action `json:"action"`
}

// GameConfigPayload tells a viewer the board dimensions
type GameConfigPayload struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// GameEndPayload reports a finished game to its player
type GameEndPayload struct {
	Score int `json:"score"`
	Level int `json:"level"`
	Lines int `json:"lines"`
}

// LevelUpPayload reports a level change and the new drop interval in ms
type LevelUpPayload struct {
	Level int `json:"level"`
	Speed int `json:"speed"`
}

// ScoreSaveFailedPayload reports a persistence failure to the finished player
type ScoreSaveFailedPayload struct {
	Error string `json:"error"`
}

// KickedPayload tells a connection why it was removed from the queue
type KickedPayload struct {
	Reason string `json:"reason"`
}

// InternalErrorMessage is sent to a connection whose event handler failed
const InternalErrorMessage = "Internal server error"
