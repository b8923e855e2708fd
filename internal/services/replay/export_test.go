package replay

func (c *Cursor) Rewind() {
	c.next = 0
}

func (c *Cursor) Done() bool {
	return c.next >= len(c.frames)
}

func (c *Cursor) Position() int {
	return c.next
}
