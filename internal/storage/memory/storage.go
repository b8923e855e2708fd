package memory

import (
	"context"
	"sync"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu     sync.RWMutex
	scores []model.ScoreEntry
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) AppendScore(ctx context.Context, entry model.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = storage.Prepend(s.scores, entry)
	return nil
}

func (s *Storage) ListScores(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := min(storage.ClampLimit(limit), len(s.scores))
	out := make([]model.ScoreEntry, n)
	copy(out, s.scores[:n])
	return out, nil
}

func (s *Storage) Close() error {
	return nil
}
