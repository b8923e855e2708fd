package arcade

// inlineDispatcher handles events on the caller's goroutine. Events posted
// while one is being handled run after it, preserving the loop's ordering.
type inlineDispatcher struct {
	c        *Controller
	pending  []Event
	draining bool
}

func (d *inlineDispatcher) post(ev Event) {
	d.pending = append(d.pending, ev)
	if d.draining {
		return
	}
	d.draining = true
	defer func() { d.draining = false }()
	for len(d.pending) > 0 {
		next := d.pending[0]
		d.pending = d.pending[1:]
		d.c.handle(next)
	}
}

// runInline makes c handle every event and spawned task synchronously
func runInline(c *Controller) {
	d := &inlineDispatcher{c: c}
	c.post = d.post
	c.spawn = func(f func()) { f() }
}
