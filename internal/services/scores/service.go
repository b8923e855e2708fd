package scores

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/tetrisparty/internal/dependencies/clock"
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/storage"
)

// DefaultSaveTimeout bounds a single score write
const DefaultSaveTimeout = 5 * time.Second

// Service records finished games in the score log
type Service struct {
	storage     storage.Storage
	clock       clock.Clock
	saveTimeout time.Duration
	logger      *slog.Logger
}

// New creates a new scores Service
func New(storage storage.Storage, clock clock.Clock, saveTimeout time.Duration, logger *slog.Logger) *Service {
	if saveTimeout <= 0 {
		saveTimeout = DefaultSaveTimeout
	}
	return &Service{
		storage:     storage,
		clock:       clock,
		saveTimeout: saveTimeout,
		logger:      logger.With(slog.String("component", "scores")),
	}
}

// Save stamps and persists a finished game's totals. The write is attempted
// once and the wait is bounded by the save timeout; expiry is reported as
// ErrScoreSaveTimeout even if the backend write later completes.
func (s *Service) Save(ctx context.Context, final model.GameEndPayload) (model.ScoreEntry, error) {
	entry := model.ScoreEntry{
		Points:    final.Score,
		Lines:     final.Lines,
		Timestamp: s.clock.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.saveTimeout)
	defer cancel()

	// Buffered so a write that outlives the timeout never blocks its goroutine
	done := make(chan error, 1)
	go func() {
		done <- s.storage.AppendScore(ctx, entry)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w after %s", model.ErrScoreSaveTimeout, s.saveTimeout)
		}
		s.logger.Error("failed to save score",
			slog.Int("points", entry.Points),
			slog.Int("lines", entry.Lines),
			slog.String("error", err.Error()))
		return model.ScoreEntry{}, err
	}

	s.logger.Info("score saved",
		slog.Int("points", entry.Points),
		slog.Int("lines", entry.Lines))
	return entry, nil
}

// List returns up to limit entries, most recent first
func (s *Service) List(ctx context.Context, limit int) ([]model.ScoreEntry, error) {
	scores, err := s.storage.ListScores(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scores: %w", err)
	}
	if scores == nil {
		scores = []model.ScoreEntry{}
	}
	return scores, nil
}
