package model

// Default board dimensions
const (
	DefaultRows = 20
	DefaultCols = 10
)

// Board is the grid of settled blocks, row-major: board[row][col].
// 0 is an empty cell; 1..7 is the color of a frozen piece cell.
type Board [][]int

// NewBoard creates an empty board of the given size
func NewBoard(rows, cols int) Board {
	b := make(Board, rows)
	for i := range b {
		b[i] = make([]int, cols)
	}
	return b
}

// Rows returns the number of rows
func (b Board) Rows() int {
	return len(b)
}

// Cols returns the number of columns
func (b Board) Cols() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// InBounds returns true if the cell lies inside the board
func (b Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.Rows() && col >= 0 && col < b.Cols()
}

// Occupied returns true if the cell holds a settled block.
// Cells outside the board are reported as unoccupied.
func (b Board) Occupied(row, col int) bool {
	if !b.InBounds(row, col) {
		return false
	}
	return b[row][col] != 0
}

// RowFull returns true if every cell of the row is non-zero
func (b Board) RowFull(row int) bool {
	if row < 0 || row >= b.Rows() {
		return false
	}
	for _, cell := range b[row] {
		if cell == 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	out := make(Board, len(b))
	for i, row := range b {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}
