package object

// Animation is a two-phase idle cycle driven by elapsed milliseconds.
// Renderers read Phase only.
type Animation struct {
	Phase     int     // 0 or 1
	Remaining float64 // Milliseconds until the next flip
	Duration  float64 // Milliseconds per phase
}

// NewAnimation starts at phase 0 with a full countdown.
func NewAnimation(durationMs float64) Animation {
	return Animation{
		Remaining: durationMs,
		Duration:  durationMs,
	}
}

// Advance consumes ms of the countdown and flips the phase when it runs out.
// At most one flip happens per call. Returns true if the phase flipped.
func (a *Animation) Advance(ms float64) bool {
	a.Remaining -= ms
	if a.Remaining > 0 {
		return false
	}
	a.Phase ^= 1
	a.Remaining = a.Duration
	return true
}
