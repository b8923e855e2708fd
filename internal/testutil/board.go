package testutil

import "github.com/mcoot/tetrisparty/internal/model"

// FilledCells counts the non-empty cells on a board
func FilledCells(b model.Board) int {
	count := 0
	for _, row := range b {
		for _, cell := range row {
			if cell != 0 {
				count++
			}
		}
	}
	return count
}
