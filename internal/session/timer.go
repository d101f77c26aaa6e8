package session

import "time"

// Clock supplies wall-clock timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Timer schedules a repeating callback on the host's event loop. The
// returned stop function cancels it; after stop returns no new callback is
// started.
type Timer interface {
	Every(interval time.Duration, fn func()) (stop func())
}
