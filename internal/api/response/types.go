package response

import (
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
)

// Health is the body of GET /health
type Health struct {
	Status string         `json:"status"`
	Arcade *arcade.Status `json:"arcade,omitempty"`
}

// Scores returns entries as a JSON array, never null
func Scores(entries []model.ScoreEntry) []model.ScoreEntry {
	if entries == nil {
		return []model.ScoreEntry{}
	}
	return entries
}
