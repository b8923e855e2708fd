package replay

import (
	"github.com/mcoot/tetrisparty/internal/model"
)

// Recorder is the move log of the most recently started game.
// It is append-only between Resets and is not safe for concurrent use.
type Recorder struct {
	gameID model.GameID
	frames []model.Snapshot
}

// NewRecorder creates an empty Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset discards the log and starts recording a new game
func (r *Recorder) Reset(id model.GameID) {
	r.gameID = id
	// fresh backing array; cursors over the previous game keep their frames
	r.frames = nil
}

// Record appends a deep snapshot of state
func (r *Recorder) Record(state *model.GameState) {
	if state == nil {
		return
	}
	r.frames = append(r.frames, state.Snapshot())
}

// Len returns the number of recorded snapshots
func (r *Recorder) Len() int {
	return len(r.frames)
}

// GameID returns the game the log belongs to
func (r *Recorder) GameID() model.GameID {
	return r.gameID
}

// Snapshots returns the log in insertion order
func (r *Recorder) Snapshots() []model.Snapshot {
	return r.frames[:len(r.frames):len(r.frames)]
}

// Cursor returns a playback cursor over the log as it stands now
func (r *Recorder) Cursor() *Cursor {
	return NewCursor(r.gameID, r.Snapshots())
}
