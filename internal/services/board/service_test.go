package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/pieces"
	"github.com/mcoot/tetrisparty/internal/testutil"
)

var iPiece = model.Shape{{1, 1, 1, 1}}

func fillRow(b model.Board, row, color int) {
	for col := range b[row] {
		b[row][col] = color
	}
}

func TestCollidesBounds(t *testing.T) {
	board := model.NewBoard(20, 10)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 3, 0, false},
		{"flush left", 0, 5, false},
		{"flush right", 6, 5, false},
		{"past left edge", -1, 5, true},
		{"past right edge", 7, 5, true},
		{"bottom row", 3, 19, false},
		{"below bottom", 3, 20, true},
		{"above top is exempt", 3, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Collides(iPiece, board, tt.x, tt.y))
		})
	}
}

func TestCollidesWithSettledBlocks(t *testing.T) {
	board := model.NewBoard(20, 10)
	board[10][5] = 3

	assert.True(t, Collides(iPiece, board, 3, 10))
	assert.False(t, Collides(iPiece, board, 3, 9))
	assert.False(t, Collides(iPiece, board, 6, 10))
}

func TestCollidesIgnoresEmptyShapeCells(t *testing.T) {
	board := model.NewBoard(20, 10)
	board[18][0] = 2
	tPiece := model.Shape{{0, 7, 0}, {7, 7, 7}}

	// Top-left of the T template is empty and overlaps the settled cell
	assert.False(t, Collides(tPiece, board, 0, 18))
	assert.True(t, Collides(tPiece, board, 0, 17))
}

// Exhaustive check: Collides is true iff some occupied cell is out of
// [0,cols)x[0,rows) horizontally/below, or on a settled cell at row >= 0.
func TestCollidesMatchesDefinitionForAllPieces(t *testing.T) {
	board := model.NewBoard(6, 5)
	board[5][0] = 1
	board[4][2] = 5
	board[3][4] = 7

	for _, tet := range pieces.Catalog {
		shape := pieces.Stamp(tet)
		for rot := 0; rot < 4; rot++ {
			for x := -3; x <= 6; x++ {
				for y := -3; y <= 7; y++ {
					want := false
					for r, row := range shape {
						for c, cell := range row {
							if cell == 0 {
								continue
							}
							col, boardRow := x+c, y+r
							if col < 0 || col >= 5 || boardRow >= 6 {
								want = true
							} else if boardRow >= 0 && board[boardRow][col] != 0 {
								want = true
							}
						}
					}
					require.Equal(t, want, Collides(shape, board, x, y),
						"piece %s rot %d at (%d,%d)", tet.Kind, rot, x, y)
				}
			}
			shape = pieces.Rotate(shape)
		}
	}
}

func TestFreeze(t *testing.T) {
	board := model.NewBoard(20, 10)
	tPiece := model.Shape{{0, 7, 0}, {7, 7, 7}}

	result := Freeze(tPiece, board, 2, 18)

	assert.Equal(t, 0, result[18][2])
	assert.Equal(t, 7, result[18][3])
	assert.Equal(t, 0, result[18][4])
	assert.Equal(t, []int{0, 0, 7, 7, 7, 0, 0, 0, 0, 0}, result[19])
	assert.Equal(t, 4, testutil.FilledCells(result))
}

func TestFreezeDropsCellsAboveBoard(t *testing.T) {
	board := model.NewBoard(20, 10)
	vertical := model.Shape{{1}, {1}, {1}, {1}}

	Freeze(vertical, board, 0, -2)

	assert.Equal(t, 2, testutil.FilledCells(board))
	assert.Equal(t, 1, board[0][0])
	assert.Equal(t, 1, board[1][0])
}

func newState() *model.GameState {
	return model.NewGameState(20, 10)
}

func TestClearLinesNoFullRowsIsNoop(t *testing.T) {
	state := newState()
	state.Board[19][0] = 3
	state.Score = 1200
	state.Lines = 4
	before := state.Clone()

	result := ClearLines(state)

	assert.Equal(t, 0, result.LinesCleared)
	assert.False(t, result.LevelUp)
	assert.Equal(t, before, state)
}

func TestClearLinesScoring(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		level int
		want  int
	}{
		{"single at level 1", 1, 1, 100},
		{"double at level 1", 2, 1, 300},
		{"triple at level 1", 3, 1, 500},
		{"tetris at level 1", 4, 1, 800},
		{"single at level 3", 1, 3, 300},
		{"tetris at level 5", 4, 5, 4000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := newState()
			state.Level = tt.level
			state.Lines = (tt.level - 1) * model.LinesPerLevel
			for i := 0; i < tt.rows; i++ {
				fillRow(state.Board, 19-i, 2)
			}

			result := ClearLines(state)

			assert.Equal(t, tt.rows, result.LinesCleared)
			assert.Equal(t, tt.want, result.Points)
			assert.Equal(t, tt.want, state.Score)
			assert.Equal(t, (tt.level-1)*model.LinesPerLevel+tt.rows, state.Lines)
			assert.Equal(t, 0, testutil.FilledCells(state.Board))
		})
	}
}

func TestClearLinesPreservesOrderOfRemainingRows(t *testing.T) {
	state := newState()
	fillRow(state.Board, 19, 1)
	state.Board[18][0] = 5
	fillRow(state.Board, 17, 1)
	state.Board[16][9] = 6

	result := ClearLines(state)

	require.Equal(t, 2, result.LinesCleared)
	assert.Len(t, state.Board, 20)
	assert.Equal(t, 5, state.Board[19][0])
	assert.Equal(t, 6, state.Board[18][9])
	for row := 0; row < 18; row++ {
		for _, cell := range state.Board[row] {
			assert.Equal(t, 0, cell)
		}
	}
}

func TestClearLinesLevelsUpAfterTenLines(t *testing.T) {
	state := newState()

	clearTetris := func() ClearResult {
		for i := 0; i < 4; i++ {
			fillRow(state.Board, 19-i, 1)
		}
		return ClearLines(state)
	}

	r1 := clearTetris()
	assert.False(t, r1.LevelUp)
	r2 := clearTetris()
	assert.False(t, r2.LevelUp)
	assert.Equal(t, 8, state.Lines)
	assert.Equal(t, 1, state.Level)

	r3 := clearTetris()
	assert.True(t, r3.LevelUp)
	assert.Equal(t, 2, r3.NewLevel)
	assert.Equal(t, model.DropSpeed(2), r3.NewSpeed)
	assert.Equal(t, 2, state.Level)
	assert.Equal(t, model.DropSpeed(2), state.DropSpeed)
	// third tetris was scored at level 1
	assert.Equal(t, 800*3, state.Score)
}

func TestClearLinesLevelCapsAtMax(t *testing.T) {
	state := newState()
	state.Level = model.MaxLevel
	state.Lines = 200
	state.DropSpeed = model.DropSpeed(model.MaxLevel)
	fillRow(state.Board, 19, 4)

	result := ClearLines(state)

	assert.False(t, result.LevelUp)
	assert.Equal(t, model.MaxLevel, state.Level)
	assert.Equal(t, 100*model.MaxLevel, state.Score)
}

func TestDropSpeedTableIsNonIncreasing(t *testing.T) {
	for level := 2; level <= model.MaxLevel; level++ {
		assert.LessOrEqual(t, model.DropSpeed(level), model.DropSpeed(level-1))
	}
}
