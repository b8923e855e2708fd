package storage

import (
	"context"

	"github.com/mcoot/tetrisparty/internal/model"
)

// Storage defines the interface for score persistence
type Storage interface {
	// AppendScore adds entry at the front of the score list, keeping at most model.MaxScores entries
	AppendScore(ctx context.Context, entry model.ScoreEntry) error

	// ListScores returns up to limit entries, most recent first.
	// A limit <= 0 or above model.MaxScores means model.MaxScores.
	ListScores(ctx context.Context, limit int) ([]model.ScoreEntry, error)

	// Close releases any underlying resources
	Close() error
}

// ClampLimit normalises a ListScores limit
func ClampLimit(limit int) int {
	if limit <= 0 || limit > model.MaxScores {
		return model.MaxScores
	}
	return limit
}

// Prepend returns entries with entry at the front, trimmed to model.MaxScores.
// The input slice is not modified.
func Prepend(entries []model.ScoreEntry, entry model.ScoreEntry) []model.ScoreEntry {
	n := min(len(entries)+1, model.MaxScores)
	out := make([]model.ScoreEntry, 0, n)
	out = append(out, entry)
	out = append(out, entries[:n-1]...)
	return out
}
