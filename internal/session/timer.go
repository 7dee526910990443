package session

// Countdown counts whole seconds down to zero and fires onExpire exactly
// once. It does no scheduling of its own; the owning session drives Tick
// under its lock and wires the clock's stop function into stop.
type Countdown struct {
	remaining int
	onExpire  func()
	expired   bool
	stop      func()
}

// NewCountdown returns a countdown holding seconds. onExpire fires on the
// tick that reaches zero, never again after that.
func NewCountdown(seconds int, onExpire func()) *Countdown {
	return &Countdown{remaining: seconds, onExpire: onExpire}
}

// Tick advances the countdown by one second. Ticks after expiry are no-ops.
func (c *Countdown) Tick() {
	if c.expired {
		return
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining <= 0 {
		c.expired = true
		c.Stop()
		if c.onExpire != nil {
			c.onExpire()
		}
	}
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether the countdown has reached zero.
func (c *Countdown) Expired() bool {
	return c.expired
}

// Stop cancels the underlying schedule without firing onExpire. Safe to call
// repeatedly.
func (c *Countdown) Stop() {
	if c.stop != nil {
		stop := c.stop
		c.stop = nil
		stop()
	}
}
