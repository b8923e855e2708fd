package model

import "strconv"

// ConnID is the transient handle of one duplex connection (one browser tab)
type ConnID uint64

// String renders the id for logs
func (c ConnID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// QueueStatus is a connection's place in the turn queue.
// Position is 0 for the current player, otherwise the 1-based rank.
type QueueStatus struct {
	Position  int  `json:"position"`
	Total     int  `json:"total"`
	IsPlaying bool `json:"isPlaying"`
}

// MemberStatus pairs a queue member with its status
type MemberStatus struct {
	ConnID ConnID
	Status QueueStatus
}
