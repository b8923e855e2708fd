package redis

import "fmt"

// Key prefix for all arcade data
const keyPrefix = "tetris"

// scoresKey returns the Redis key for the score LIST, newest at index 0
func scoresKey() string {
	return fmt.Sprintf("%s:scores", keyPrefix)
}
