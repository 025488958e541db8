package game

import "time"

// intervalTimer fires when more than Interval has passed since it last fired.
// It is a cooldown, not a metronome: lateness is not carried over.
type intervalTimer struct {
	interval time.Duration
	last     time.Time
}

// reset makes the timer fire on the next poll.
func (t *intervalTimer) reset() {
	t.last = time.Time{}
}

// poll fires the timer if it is due and reports whether it did.
func (t *intervalTimer) poll(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) <= t.interval {
		return false
	}
	t.last = now
	return true
}
