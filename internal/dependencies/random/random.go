package random

import "math/rand/v2"

// Random picks pieces; tests swap in a scripted sequence
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int
}

// RealRandom draws from the runtime's randomly seeded generator
type RealRandom struct{}

// New creates a new RealRandom
func New() *RealRandom {
	return &RealRandom{}
}

// Intn returns a uniform int in [0, n), or 0 when n <= 0
func (r *RealRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return rand.IntN(n)
}
