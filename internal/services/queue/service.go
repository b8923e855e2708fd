package queue

import (
	"log/slog"
	"slices"
	"time"

	"github.com/kamstrup/intmap"

	"github.com/mcoot/tetrisparty/internal/dependencies/clock"
	"github.com/mcoot/tetrisparty/internal/model"
)

// DefaultInactivityTimeout is how long a member may stay silent before the sweep evicts it
const DefaultInactivityTimeout = 60 * time.Second

// Service is the turn queue: a FIFO of waiting connections plus at most one
// current player, who is never also in the waiting list.
//
// Service is not safe for concurrent use; the arcade controller owns it.
type Service struct {
	waiting []model.ConnID
	current model.ConnID // 0 when nobody is playing

	lastSeen *intmap.Map[model.ConnID, time.Time]
	timeout  time.Duration

	clock  clock.Clock
	logger *slog.Logger
}

// New creates an empty queue. ConnID 0 is reserved for "no player".
func New(clock clock.Clock, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	return &Service{
		lastSeen: intmap.New[model.ConnID, time.Time](16),
		timeout:  timeout,
		clock:    clock,
		logger:   logger.With(slog.String("component", "queue")),
	}
}

// Add appends id to the back of the queue. Returns false if it is already
// waiting or already playing.
func (s *Service) Add(id model.ConnID) bool {
	if id == 0 || s.Contains(id) {
		return false
	}
	s.waiting = append(s.waiting, id)
	s.lastSeen.Put(id, s.clock.Now())
	s.logger.Debug("joined queue",
		slog.String("conn_id", id.String()),
		slog.Int("position", len(s.waiting)))
	return true
}

// NextPlayer promotes the longest-waiting id to current player. It only
// succeeds when nobody is playing and someone is waiting.
func (s *Service) NextPlayer() (model.ConnID, bool) {
	if s.current != 0 || len(s.waiting) == 0 {
		return 0, false
	}
	s.current = s.waiting[0]
	s.waiting = s.waiting[1:]
	s.lastSeen.Put(s.current, s.clock.Now())
	s.logger.Info("player promoted", slog.String("conn_id", s.current.String()))
	return s.current, true
}

// Remove drops id from the waiting list and clears it as current player.
// Returns true if id was the current player; stopping its game is the caller's job.
func (s *Service) Remove(id model.ConnID) bool {
	if idx := slices.Index(s.waiting, id); idx >= 0 {
		s.waiting = slices.Delete(s.waiting, idx, idx+1)
	}
	s.lastSeen.Del(id)

	if id != 0 && id == s.current {
		s.current = 0
		return true
	}
	return false
}

// ClearCurrent ends the current player's turn without re-queueing them
func (s *Service) ClearCurrent() model.ConnID {
	prev := s.current
	if prev != 0 {
		s.lastSeen.Del(prev)
	}
	s.current = 0
	return prev
}

// Current returns the current player
func (s *Service) Current() (model.ConnID, bool) {
	return s.current, s.current != 0
}

// IsCurrent reports whether id is the current player
func (s *Service) IsCurrent(id model.ConnID) bool {
	return id != 0 && id == s.current
}

// Head returns the longest-waiting id
func (s *Service) Head() (model.ConnID, bool) {
	if len(s.waiting) == 0 {
		return 0, false
	}
	return s.waiting[0], true
}

// Contains reports whether id is waiting or playing
func (s *Service) Contains(id model.ConnID) bool {
	return s.IsCurrent(id) || slices.Contains(s.waiting, id)
}

// Len returns the number of waiting connections
func (s *Service) Len() int {
	return len(s.waiting)
}

// Status reports id's place in the queue. ok is false if id is neither waiting nor playing.
func (s *Service) Status(id model.ConnID) (status model.QueueStatus, ok bool) {
	if s.IsCurrent(id) {
		return model.QueueStatus{Position: 0, Total: len(s.waiting), IsPlaying: true}, true
	}
	idx := slices.Index(s.waiting, id)
	if idx < 0 {
		return model.QueueStatus{}, false
	}
	return model.QueueStatus{Position: idx + 1, Total: len(s.waiting), IsPlaying: false}, true
}

// Statuses returns the status of every member, current player first
func (s *Service) Statuses() []model.MemberStatus {
	out := make([]model.MemberStatus, 0, len(s.waiting)+1)
	if s.current != 0 {
		status, _ := s.Status(s.current)
		out = append(out, model.MemberStatus{ConnID: s.current, Status: status})
	}
	for _, id := range s.waiting {
		status, _ := s.Status(id)
		out = append(out, model.MemberStatus{ConnID: id, Status: status})
	}
	return out
}

// Touch refreshes id's last-activity time. Non-members are ignored.
func (s *Service) Touch(id model.ConnID) {
	if !s.Contains(id) {
		return
	}
	s.lastSeen.Put(id, s.clock.Now())
}

// TouchWaiting refreshes id only while it is waiting, so transport keepalives
// cannot hold a turn open for an idle player.
func (s *Service) TouchWaiting(id model.ConnID) {
	if slices.Contains(s.waiting, id) {
		s.lastSeen.Put(id, s.clock.Now())
	}
}

// Inactive lists members silent for longer than the timeout, current player first.
// It does not evict; the caller removes each one as if it disconnected.
func (s *Service) Inactive() []model.ConnID {
	cutoff := s.clock.Now().Add(-s.timeout)
	var out []model.ConnID

	check := func(id model.ConnID) {
		last, ok := s.lastSeen.Get(id)
		if !ok || last.Before(cutoff) {
			out = append(out, id)
		}
	}

	if s.current != 0 {
		check(s.current)
	}
	for _, id := range s.waiting {
		check(id)
	}
	return out
}

// Timeout returns the inactivity timeout
func (s *Service) Timeout() time.Duration {
	return s.timeout
}
