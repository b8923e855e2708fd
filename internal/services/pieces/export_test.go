package pieces

import "github.com/mcoot/tetrisparty/internal/model"

// ByKind returns the stamped shape for a kind, or nil if unknown
func ByKind(kind model.TetrominoKind) model.Shape {
	for _, t := range Catalog {
		if t.Kind == kind {
			return Stamp(t)
		}
	}
	return nil
}
