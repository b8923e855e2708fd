package model

import "errors"

// Common errors used across the application
var (
	// Turn errors
	ErrNotCurrentPlayer = errors.New("connection is not the current player")
	ErrNotQueueHead     = errors.New("connection is not at the head of the queue")
	ErrNoActivePiece    = errors.New("no active piece")
	ErrUnknownAction    = errors.New("unknown game action")
	ErrUnknownEvent     = errors.New("unknown event")

	// Lifecycle errors
	ErrArcadeStopped = errors.New("arcade is not running")

	// Game setup errors
	ErrInvalidBoardSize = errors.New("invalid board size")

	// Score errors
	ErrScoreSaveTimeout = errors.New("score save timed out")

	// Storage errors
	ErrUnknownStorageType = errors.New("unknown storage type")
)
