package model

import "time"

// GameID identifies one started game, used for logging and replay bookkeeping
type GameID string

// Leveling constants
const (
	LinesPerLevel = 10
	MaxLevel      = 10
)

// LineClearBonus is the base score for clearing 0..4 rows at once,
// multiplied by the current level
var LineClearBonus = [5]int{0, 100, 300, 500, 800}

// dropSpeeds maps level to gravity interval in milliseconds
var dropSpeeds = map[int]int{
	1:  500,
	2:  450,
	3:  400,
	4:  350,
	5:  300,
	6:  250,
	7:  200,
	8:  150,
	9:  100,
	10: 50,
}

// DropSpeed returns the gravity interval in milliseconds for a level.
// Levels are clamped to [1, MaxLevel].
func DropSpeed(level int) int {
	if level < 1 {
		level = 1
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return dropSpeeds[level]
}

// DropInterval returns DropSpeed as a duration
func DropInterval(level int) time.Duration {
	return time.Duration(DropSpeed(level)) * time.Millisecond
}

// LevelForLines computes the level reached after clearing the given number of lines
func LevelForLines(lines int) int {
	return min(lines/LinesPerLevel+1, MaxLevel)
}

// GameState is the authoritative record of the game being played.
// JSON field names are part of the wire protocol.
type GameState struct {
	Board        Board `json:"board"`
	CurrentPiece Shape `json:"currentPiece"`
	NextPiece    Shape `json:"nextPiece"`
	CurrentX     int   `json:"currentX"`
	CurrentY     int   `json:"currentY"`
	Score        int   `json:"score"`
	Level        int   `json:"level"`
	Lines        int   `json:"lines"`
	DropSpeed    int   `json:"dropSpeed"`
}

// NewGameState creates an idle state: empty board, no active piece, level 1
func NewGameState(rows, cols int) *GameState {
	return &GameState{
		Board:     NewBoard(rows, cols),
		CurrentX:  SpawnColumn(cols),
		CurrentY:  0,
		Level:     1,
		DropSpeed: DropSpeed(1),
	}
}

// SpawnColumn is the anchor column new pieces appear at
func SpawnColumn(cols int) int {
	return max((cols-4)/2, 0)
}

// HasActivePiece returns true if a piece is currently falling
func (g *GameState) HasActivePiece() bool {
	return g != nil && g.CurrentPiece != nil
}

// Clone returns a deep copy of the state
func (g *GameState) Clone() *GameState {
	if g == nil {
		return nil
	}
	out := *g
	out.Board = g.Board.Clone()
	out.CurrentPiece = g.CurrentPiece.Clone()
	out.NextPiece = g.NextPiece.Clone()
	return &out
}

// Snapshot captures the state after one transition for replay
func (g *GameState) Snapshot() Snapshot {
	return Snapshot{
		Board:     g.Board.Clone(),
		Piece:     g.CurrentPiece.Clone(),
		NextPiece: g.NextPiece.Clone(),
		X:         g.CurrentX,
		Y:         g.CurrentY,
		Score:     g.Score,
		Level:     g.Level,
		Lines:     g.Lines,
	}
}

// Snapshot is one entry of the move log
type Snapshot struct {
	Board     Board `json:"board"`
	Piece     Shape `json:"piece"`
	NextPiece Shape `json:"nextPiece"`
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Score     int   `json:"score"`
	Level     int   `json:"level"`
	Lines     int   `json:"lines"`
}

// State rebuilds the wire GameState a viewer renders for this snapshot
func (s Snapshot) State() *GameState {
	return &GameState{
		Board:        s.Board.Clone(),
		CurrentPiece: s.Piece.Clone(),
		NextPiece:    s.NextPiece.Clone(),
		CurrentX:     s.X,
		CurrentY:     s.Y,
		Score:        s.Score,
		Level:        s.Level,
		Lines:        s.Lines,
		DropSpeed:    DropSpeed(s.Level),
	}
}
