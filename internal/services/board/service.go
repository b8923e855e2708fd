package board

import (
	"github.com/mcoot/tetrisparty/internal/model"
)

// ClearResult describes the outcome of a line clear
type ClearResult struct {
	LinesCleared int
	Points       int
	LevelUp      bool
	NewLevel     int
	NewSpeed     int // drop interval in ms, only meaningful with LevelUp
}

// Collides reports whether shape anchored at (x, y) leaves the horizontal
// bounds, reaches the bottom, or overlaps a settled block. Cells above the
// top row are exempt so pieces can spawn partially hidden.
func Collides(shape model.Shape, board model.Board, x, y int) bool {
	rows, cols := board.Rows(), board.Cols()
	for r, row := range shape {
		for c, cell := range row {
			if cell == 0 {
				continue
			}
			col := x + c
			boardRow := y + r
			if col < 0 || col >= cols || boardRow >= rows {
				return true
			}
			if boardRow >= 0 && board[boardRow][col] != 0 {
				return true
			}
		}
	}
	return false
}

// Freeze writes the piece's colors into the board at (x, y) and returns the board.
// Cells above the top row are dropped.
func Freeze(shape model.Shape, board model.Board, x, y int) model.Board {
	for r, row := range shape {
		for c, cell := range row {
			if cell == 0 {
				continue
			}
			if board.InBounds(y+r, x+c) {
				board[y+r][x+c] = cell
			}
		}
	}
	return board
}

// ClearLines removes full rows, shifts empty rows in at the top, and applies
// scoring and leveling to state. A call that clears nothing changes nothing.
func ClearLines(state *model.GameState) ClearResult {
	rows, cols := state.Board.Rows(), state.Board.Cols()

	kept := make(model.Board, 0, rows)
	cleared := 0
	for row := rows - 1; row >= 0; row-- {
		if state.Board.RowFull(row) {
			cleared++
			continue
		}
		kept = append(kept, state.Board[row])
	}

	result := ClearResult{LinesCleared: cleared, NewLevel: state.Level}
	if cleared == 0 {
		return result
	}

	// kept is bottom-to-top; rebuild top-to-bottom with empty rows above
	next := make(model.Board, 0, rows)
	for i := 0; i < cleared; i++ {
		next = append(next, make([]int, cols))
	}
	for i := len(kept) - 1; i >= 0; i-- {
		next = append(next, kept[i])
	}
	state.Board = next

	bonus := model.LineClearBonus[min(cleared, len(model.LineClearBonus)-1)]
	result.Points = bonus * state.Level
	state.Score += result.Points
	state.Lines += cleared

	newLevel := model.LevelForLines(state.Lines)
	if newLevel > state.Level {
		state.Level = newLevel
		state.DropSpeed = model.DropSpeed(newLevel)
		result.LevelUp = true
		result.NewLevel = newLevel
		result.NewSpeed = state.DropSpeed
	}

	return result
}
