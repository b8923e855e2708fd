package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/storage"
)

// DefaultPath is where scores are kept when no path is configured
const DefaultPath = "data/scores.json"

// Storage keeps the score list as a single JSON array on disk.
// The whole list is loaded at startup and rewritten on every append.
type Storage struct {
	mu     sync.RWMutex
	path   string
	scores []model.ScoreEntry
}

// New opens the score file at path, creating its directory if needed.
// A missing file starts an empty list.
func New(path string) (*Storage, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating score directory: %w", err)
	}

	s := &Storage{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Path returns the backing file path
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) AppendScore(ctx context.Context, entry model.ScoreEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := storage.Prepend(s.scores, entry)
	if err := s.write(next); err != nil {
		return err
	}
	s.scores = next
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

func (s *Storage) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.scores = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading scores: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var scores []model.ScoreEntry
	if err := json.Unmarshal(data, &scores); err != nil {
		return fmt.Errorf("parsing %s: %w", s.path, err)
	}
	if len(scores) > model.MaxScores {
		scores = scores[:model.MaxScores]
	}
	s.scores = scores
	return nil
}

// write replaces the file via a temp file and rename
func (s *Storage) write(scores []model.ScoreEntry) error {
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding scores: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing scores: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing scores: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
