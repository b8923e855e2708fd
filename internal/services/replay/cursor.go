package replay

import "github.com/mcoot/tetrisparty/internal/model"

// Cursor walks a fixed list of snapshots in order
type Cursor struct {
	gameID model.GameID
	frames []model.Snapshot
	next   int
}

// NewCursor creates a Cursor positioned before the first frame
func NewCursor(id model.GameID, frames []model.Snapshot) *Cursor {
	return &Cursor{gameID: id, frames: frames}
}

// Next returns the next snapshot, or false once the log is exhausted
func (c *Cursor) Next() (model.Snapshot, bool) {
	if c.next >= len(c.frames) {
		return model.Snapshot{}, false
	}
	frame := c.frames[c.next]
	c.next++
	return frame, true
}

// Len returns the total frame count
func (c *Cursor) Len() int {
	return len(c.frames)
}

// GameID returns the game being replayed
func (c *Cursor) GameID() model.GameID {
	return c.gameID
}
