package game

import "time"

// Countdown is a cancellable timer counting whole ticks of a fixed interval.
// It is driven by the elapsed time passed to Advance, not by a goroutine.
type Countdown struct {
	remaining int
	interval  time.Duration
	elapsed   time.Duration
	active    bool
}

// Start arms the countdown at ticks.
func (c *Countdown) Start(ticks int, interval time.Duration) {
	c.remaining = ticks
	c.interval = interval
	c.elapsed = 0
	c.active = true
}

// Cancel disarms the countdown without firing it.
func (c *Countdown) Cancel() {
	c.active = false
}

// Active reports whether the countdown is armed.
func (c *Countdown) Active() bool {
	return c.active
}

// Remaining returns the number displayed to the player.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Advance moves the timer forward and reports whether it just reached zero.
// An inactive countdown never fires.
func (c *Countdown) Advance(d time.Duration) bool {
	if !c.active {
		return false
	}
	if c.remaining <= 0 {
		c.active = false
		return true
	}

	c.elapsed += d
	for c.elapsed >= c.interval && c.remaining > 0 {
		c.elapsed -= c.interval
		c.remaining--
	}

	if c.remaining == 0 {
		c.active = false
		return true
	}
	return false
}
