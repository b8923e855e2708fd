package model

import "time"

// MaxScores caps the persisted score list
const MaxScores = 100

// ScoreEntry is one finished game in the score log.
// Entries are immutable once written.
type ScoreEntry struct {
	Points    int       `json:"points"`
	Lines     int       `json:"lines"`
	Timestamp time.Time `json:"timestamp"`
}
