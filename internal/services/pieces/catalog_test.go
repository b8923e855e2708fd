package pieces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisparty/internal/dependencies/mocks"
	"github.com/mcoot/tetrisparty/internal/model"
)

func TestCatalogHasSevenDistinctColors(t *testing.T) {
	require.Len(t, Catalog, 7)

	colors := make(map[int]bool)
	for _, tet := range Catalog {
		assert.GreaterOrEqual(t, tet.Color, 1)
		assert.LessOrEqual(t, tet.Color, 7)
		colors[tet.Color] = true

		cells := 0
		for _, row := range tet.Template {
			for _, c := range row {
				cells += c
			}
		}
		assert.Equal(t, 4, cells, "tetromino %s should have 4 cells", tet.Kind)
	}
	assert.Len(t, colors, 7)
}

func TestNewPieceUsesRandomIndex(t *testing.T) {
	rnd := mocks.NewMockRandom()
	rnd.QueueIntn(0, 1, 6)
	svc := New(rnd)

	assert.Equal(t, model.Shape{{1, 1, 1, 1}}, svc.NewPiece())
	assert.Equal(t, model.Shape{{4, 4}, {4, 4}}, svc.NewPiece())
	assert.Equal(t, model.Shape{{0, 6, 6}, {6, 6, 0}}, svc.NewPiece())
}

func TestNewPieceReturnsFreshMatrix(t *testing.T) {
	svc := New(mocks.NewMockRandom())

	a := svc.NewPiece()
	a[0][0] = 99
	b := svc.NewPiece()

	assert.Equal(t, 1, b[0][0])
	assert.Equal(t, 1, Catalog[0].Template[0][0])
}

func TestRotate(t *testing.T) {
	tests := []struct {
		name     string
		input    model.Shape
		expected model.Shape
	}{
		{
			name:     "I horizontal becomes vertical",
			input:    model.Shape{{1, 1, 1, 1}},
			expected: model.Shape{{1}, {1}, {1}, {1}},
		},
		{
			name:     "T pointing up becomes pointing right",
			input:    model.Shape{{0, 7, 0}, {7, 7, 7}},
			expected: model.Shape{{7, 0}, {7, 7}, {7, 0}},
		},
		{
			name:     "L",
			input:    model.Shape{{3, 0, 0}, {3, 3, 3}},
			expected: model.Shape{{3, 3}, {3, 0}, {3, 0}},
		},
		{
			name:     "O unchanged",
			input:    model.Shape{{4, 4}, {4, 4}},
			expected: model.Shape{{4, 4}, {4, 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Rotate(tt.input))
		})
	}
}

func TestRotateDoesNotMutateInput(t *testing.T) {
	input := model.Shape{{0, 7, 0}, {7, 7, 7}}
	original := input.Clone()

	_ = Rotate(input)

	assert.Equal(t, original, input)
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, tet := range Catalog {
		t.Run(string(tet.Kind), func(t *testing.T) {
			shape := Stamp(tet)
			rotated := shape
			for i := 0; i < 4; i++ {
				rotated = Rotate(rotated)
			}
			assert.True(t, shape.Equal(rotated))
		})
	}
}

func TestByKind(t *testing.T) {
	assert.Equal(t, model.Shape{{5, 5, 0}, {0, 5, 5}}, ByKind(model.TetrominoS))
	assert.Nil(t, ByKind("X"))
}
