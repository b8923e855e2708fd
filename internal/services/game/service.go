package game

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/board"
	"github.com/mcoot/tetrisparty/internal/services/pieces"
)

// DropResult describes what one drop transition did
type DropResult struct {
	Moved    bool              // piece fell one row
	Landed   bool              // piece froze and the next piece spawned (or failed to)
	GameOver bool              // the next piece collided at spawn
	Clear    board.ClearResult // line clear outcome when Landed
	Final    model.GameEndPayload
}

// LevelUp returns true if the landing raised the level
func (r DropResult) LevelUp() bool {
	return r.Landed && r.Clear.LevelUp
}

// Service implements the piece mechanics on a GameState.
// It holds no game state itself; callers own the state and serialize access.
type Service struct {
	pieces *pieces.Service
	logger *slog.Logger
}

// New creates a new game Service
func New(pieces *pieces.Service, logger *slog.Logger) *Service {
	return &Service{
		pieces: pieces,
		logger: logger,
	}
}

// NewGame returns a fresh state with an active piece at the spawn anchor and a next piece queued
func (s *Service) NewGame(rows, cols int) (*model.GameState, error) {
	if rows < 4 || cols < 4 {
		return nil, fmt.Errorf("%w: %dx%d", model.ErrInvalidBoardSize, rows, cols)
	}
	state := model.NewGameState(rows, cols)
	state.CurrentPiece = s.pieces.NewPiece()
	state.NextPiece = s.pieces.NewPiece()
	return state, nil
}

// Drop advances gravity by one row. If the piece cannot fall it is frozen,
// full rows are cleared, and the next piece spawns. A spawn collision ends the game.
func (s *Service) Drop(state *model.GameState) DropResult {
	if !state.HasActivePiece() {
		return DropResult{}
	}

	if !board.Collides(state.CurrentPiece, state.Board, state.CurrentX, state.CurrentY+1) {
		state.CurrentY++
		return DropResult{Moved: true}
	}

	return s.land(state)
}

// HardDrop moves the piece straight down as far as it goes, then lands it
func (s *Service) HardDrop(state *model.GameState) DropResult {
	if !state.HasActivePiece() {
		return DropResult{}
	}

	for !board.Collides(state.CurrentPiece, state.Board, state.CurrentX, state.CurrentY+1) {
		state.CurrentY++
	}

	return s.land(state)
}

// MoveLeft shifts the piece one column left unless blocked
func (s *Service) MoveLeft(state *model.GameState) bool {
	return s.shift(state, -1)
}

// MoveRight shifts the piece one column right unless blocked
func (s *Service) MoveRight(state *model.GameState) bool {
	return s.shift(state, 1)
}

func (s *Service) shift(state *model.GameState, dx int) bool {
	if !state.HasActivePiece() {
		return false
	}
	if board.Collides(state.CurrentPiece, state.Board, state.CurrentX+dx, state.CurrentY) {
		return false
	}
	state.CurrentX += dx
	return true
}

// Rotate turns the piece 90° in place. Blocked rotations are discarded; there is no wall kick.
func (s *Service) Rotate(state *model.GameState) bool {
	if !state.HasActivePiece() {
		return false
	}
	rotated := pieces.Rotate(state.CurrentPiece)
	if board.Collides(rotated, state.Board, state.CurrentX, state.CurrentY) {
		return false
	}
	state.CurrentPiece = rotated
	return true
}

// Apply runs one controller action. changed reports whether the state was modified.
func (s *Service) Apply(state *model.GameState, action model.Action) (result DropResult, changed bool, err error) {
	if !state.HasActivePiece() {
		return DropResult{}, false, model.ErrNoActivePiece
	}

	switch action {
	case model.ActionMoveLeft:
		return DropResult{}, s.MoveLeft(state), nil
	case model.ActionMoveRight:
		return DropResult{}, s.MoveRight(state), nil
	case model.ActionRotate:
		return DropResult{}, s.Rotate(state), nil
	case model.ActionMoveDown:
		result = s.Drop(state)
		return result, true, nil
	case model.ActionHardDrop:
		result = s.HardDrop(state)
		return result, true, nil
	default:
		return DropResult{}, false, fmt.Errorf("%w: %q", model.ErrUnknownAction, action)
	}
}

// land freezes the active piece, clears rows, and spawns the next piece
func (s *Service) land(state *model.GameState) DropResult {
	state.Board = board.Freeze(state.CurrentPiece, state.Board, state.CurrentX, state.CurrentY)
	cleared := board.ClearLines(state)

	state.CurrentPiece = state.NextPiece
	state.NextPiece = s.pieces.NewPiece()
	state.CurrentX = model.SpawnColumn(state.Board.Cols())
	state.CurrentY = 0

	result := DropResult{Landed: true, Clear: cleared}

	if board.Collides(state.CurrentPiece, state.Board, state.CurrentX, state.CurrentY) {
		state.CurrentPiece = nil
		result.GameOver = true
		result.Final = model.GameEndPayload{
			Score: state.Score,
			Level: state.Level,
			Lines: state.Lines,
		}
		s.logger.Info("game over",
			slog.Int("score", state.Score),
			slog.Int("level", state.Level),
			slog.Int("lines", state.Lines),
		)
	}

	return result
}
