package queue

import (
	"time"

	"github.com/mcoot/tetrisparty/internal/model"
)

func (s *Service) LastSeen(id model.ConnID) (time.Time, bool) {
	return s.lastSeen.Get(id)
}
