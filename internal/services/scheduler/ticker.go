package scheduler

import (
	"time"

	"github.com/mcoot/tetrisparty/internal/dependencies/clock"
)

// Tick is handed to the owner's post function when a Ticker fires.
// Gen identifies which arming produced it so late ticks can be discarded.
type Tick struct {
	Name string
	Gen  uint64
}

// Ticker is a single cancel-and-reschedule timer owned by one goroutine.
//
// The timer callback never touches Ticker state: it only posts a Tick, and
// the owner calls Accept from its own loop. A repeating Ticker re-arms in
// Accept, so at most one timer is ever pending per Ticker.
type Ticker struct {
	name  string
	clock clock.Clock
	post  func(Tick)

	timer    clock.Timer
	gen      uint64
	interval time.Duration
	repeat   bool
	active   bool
}

// New creates a stopped Ticker
func New(name string, clock clock.Clock, post func(Tick)) *Ticker {
	return &Ticker{name: name, clock: clock, post: post}
}

// Name returns the name carried by this Ticker's ticks
func (t *Ticker) Name() string {
	return t.name
}

// Start cancels any pending fire and arms a repeating tick every interval
func (t *Ticker) Start(interval time.Duration) {
	t.arm(interval, true)
}

// After cancels any pending fire and arms a single tick after d
func (t *Ticker) After(d time.Duration) {
	t.arm(d, false)
}

// Reset re-arms a running repeating Ticker at a new interval. A stopped
// Ticker stays stopped.
func (t *Ticker) Reset(interval time.Duration) {
	if !t.active || !t.repeat {
		return
	}
	t.Start(interval)
}

// Stop cancels the Ticker. Ticks already posted will fail Accept.
func (t *Ticker) Stop() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.active = false
	t.gen++
}

// Active reports whether a tick is pending
func (t *Ticker) Active() bool {
	return t.active
}

// Interval returns the interval of the last arming
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// Accept reports whether tick belongs to the current arming. Accepted ticks
// re-arm a repeating Ticker and complete a one-shot.
func (t *Ticker) Accept(tick Tick) bool {
	if tick.Name != t.name || tick.Gen != t.gen || !t.active {
		return false
	}
	if t.repeat {
		t.schedule()
	} else {
		t.timer = nil
		t.active = false
	}
	return true
}

func (t *Ticker) arm(d time.Duration, repeat bool) {
	t.Stop()
	t.interval = d
	t.repeat = repeat
	t.active = true
	t.schedule()
}

func (t *Ticker) schedule() {
	if t.timer != nil {
		t.timer.Stop()
	}
	tick := Tick{Name: t.name, Gen: t.gen}
	post := t.post
	t.timer = t.clock.AfterFunc(t.interval, func() {
		post(tick)
	})
}
