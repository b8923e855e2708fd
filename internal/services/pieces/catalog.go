package pieces

import (
	"github.com/mcoot/tetrisparty/internal/dependencies/random"
	"github.com/mcoot/tetrisparty/internal/model"
)

// Catalog is the fixed set of seven tetrominoes, in selection order
var Catalog = []model.Tetromino{
	{Kind: model.TetrominoI, Color: 1, Template: [][]int{{1, 1, 1, 1}}},
	{Kind: model.TetrominoO, Color: 4, Template: [][]int{{1, 1}, {1, 1}}},
	{Kind: model.TetrominoT, Color: 7, Template: [][]int{{0, 1, 0}, {1, 1, 1}}},
	{Kind: model.TetrominoL, Color: 3, Template: [][]int{{1, 0, 0}, {1, 1, 1}}},
	{Kind: model.TetrominoJ, Color: 2, Template: [][]int{{0, 0, 1}, {1, 1, 1}}},
	{Kind: model.TetrominoS, Color: 5, Template: [][]int{{1, 1, 0}, {0, 1, 1}}},
	{Kind: model.TetrominoZ, Color: 6, Template: [][]int{{0, 1, 1}, {1, 1, 0}}},
}

// Service hands out fresh pieces
type Service struct {
	random random.Random
}

// New creates a new piece Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// NewPiece picks one of the seven tetrominoes uniformly at random
func (s *Service) NewPiece() model.Shape {
	return Stamp(Catalog[s.random.Intn(len(Catalog))])
}

// Stamp builds a fresh shape from a catalog entry, writing its color into every occupied cell
func Stamp(t model.Tetromino) model.Shape {
	shape := make(model.Shape, len(t.Template))
	for r, row := range t.Template {
		shape[r] = make([]int, len(row))
		for c, cell := range row {
			if cell != 0 {
				shape[r][c] = t.Color
			}
		}
	}
	return shape
}

// Rotate returns the shape turned 90° clockwise: transpose, then reverse each row.
// The input is never modified.
func Rotate(shape model.Shape) model.Shape {
	if shape.Height() == 0 {
		return model.Shape{}
	}
	rows, cols := shape.Height(), shape.Width()
	out := make(model.Shape, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]int, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = shape[rows-1-j][i]
		}
	}
	return out
}
