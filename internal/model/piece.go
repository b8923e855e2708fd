package model

// Shape is a piece matrix: 0 marks an empty cell, any other value is the
// piece color stamped into that cell.
type Shape [][]int

// Height returns the number of rows in the shape
func (s Shape) Height() int {
	return len(s)
}

// Width returns the number of columns in the shape
func (s Shape) Width() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Clone returns a deep copy of the shape
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// Equal compares two shapes cell by cell
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Color returns the color of the first occupied cell, or 0 for an empty shape
func (s Shape) Color() int {
	for _, row := range s {
		for _, cell := range row {
			if cell != 0 {
				return cell
			}
		}
	}
	return 0
}

// TetrominoKind names one of the seven pieces
type TetrominoKind string

const (
	TetrominoI TetrominoKind = "I"
	TetrominoO TetrominoKind = "O"
	TetrominoT TetrominoKind = "T"
	TetrominoL TetrominoKind = "L"
	TetrominoJ TetrominoKind = "J"
	TetrominoS TetrominoKind = "S"
	TetrominoZ TetrominoKind = "Z"
)

// Tetromino is a catalog entry: a 0/1 occupancy template and its color
type Tetromino struct {
	Kind     TetrominoKind
	Color    int
	Template [][]int
}
