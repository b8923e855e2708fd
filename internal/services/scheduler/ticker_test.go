package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisparty/internal/dependencies/mocks"
)

type TickerSuite struct {
	suite.Suite
	clock  *mocks.MockClock
	ticker *Ticker
	ticks  []Tick
	fired  int
}

func TestTickerSuite(t *testing.T) {
	suite.Run(t, new(TickerSuite))
}

func (s *TickerSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ticks = nil
	s.fired = 0
	// Accept inline, the way the owning loop would
	s.ticker = New("drop", s.clock, func(t Tick) {
		s.ticks = append(s.ticks, t)
		if s.ticker.Accept(t) {
			s.fired++
		}
	})
}

func (s *TickerSuite) TestStartRepeats() {
	s.ticker.Start(500 * time.Millisecond)

	s.clock.Advance(2 * time.Second)

	s.Equal(4, s.fired)
	s.True(s.ticker.Active())
	s.Equal(1, s.clock.PendingTimers())
}

func (s *TickerSuite) TestAfterFiresOnce() {
	s.ticker.After(5 * time.Second)

	s.clock.Advance(4 * time.Second)
	s.Equal(0, s.fired)

	s.clock.Advance(10 * time.Second)
	s.Equal(1, s.fired)
	s.False(s.ticker.Active())
	s.Equal(0, s.clock.PendingTimers())
}

func (s *TickerSuite) TestStopCancels() {
	s.ticker.Start(100 * time.Millisecond)
	s.ticker.Stop()

	s.clock.Advance(time.Second)
	s.Equal(0, s.fired)
	s.False(s.ticker.Active())
}

func (s *TickerSuite) TestRestartNeverStacksTimers() {
	s.ticker.Start(500 * time.Millisecond)
	s.ticker.Start(500 * time.Millisecond)
	s.ticker.Start(500 * time.Millisecond)

	s.Equal(1, s.clock.PendingTimers())
	s.clock.Advance(500 * time.Millisecond)
	s.Equal(1, s.fired)
}

func (s *TickerSuite) TestResetChangesInterval() {
	s.ticker.Start(500 * time.Millisecond)
	s.ticker.Reset(100 * time.Millisecond)

	s.clock.Advance(time.Second)
	s.Equal(10, s.fired)
	s.Equal(100*time.Millisecond, s.ticker.Interval())
}

func (s *TickerSuite) TestResetLeavesStoppedTickerStopped() {
	s.ticker.Reset(100 * time.Millisecond)

	s.clock.Advance(time.Second)
	s.Equal(0, s.fired)
	s.False(s.ticker.Active())
}

func (s *TickerSuite) TestStaleTickRejected() {
	s.ticker.Start(100 * time.Millisecond)
	stale := Tick{Name: "drop", Gen: s.ticker.gen}
	s.ticker.Start(100 * time.Millisecond)

	s.False(s.ticker.Accept(stale))
	s.True(s.ticker.Accept(Tick{Name: "drop", Gen: s.ticker.gen}))
}

func (s *TickerSuite) TestForeignTickRejected() {
	s.ticker.Start(100 * time.Millisecond)
	s.False(s.ticker.Accept(Tick{Name: "replay", Gen: s.ticker.gen}))
}
