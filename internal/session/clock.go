package session

import "time"

// Clock schedules repeated ticks. Sessions take a Clock instead of reaching
// for time.Ticker directly so tests can drive time by hand.
type Clock interface {
	// Schedule calls tick every interval until the returned stop function
	// runs. Stop is idempotent.
	Schedule(interval time.Duration, tick func()) (stop func())
}

type realClock struct{}

// NewRealClock returns the wall-clock backed Clock used in production.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) Schedule(interval time.Duration, tick func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				tick()
			case <-done:
				return
			}
		}
	}()

	var stopped bool
	return func() {
		if stopped {
			return
		}
		stopped = true
		ticker.Stop()
		close(done)
	}
}
