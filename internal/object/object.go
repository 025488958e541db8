// Package object holds the simulation entities: the player craft, bullets and
// enemies, plus the playfield they move in.
package object

import (
	"math"
	"time"
)

// UpdateContext provides all the information an entity needs during update.
type UpdateContext struct {
	// DeltaFrames is elapsed time relative to a 60 Hz frame (1.0 = 1/60 s).
	DeltaFrames float64
	// FrameMillis converts one delta frame to milliseconds.
	FrameMillis float64
	Screen      Screen
}

// Screen describes the playfield in logical pixels.
type Screen struct {
	Width   float64
	Height  float64
	CenterX float64
	CenterY float64
}

// NewScreen creates a Screen of the given size.
func NewScreen(width, height float64) Screen {
	return Screen{
		Width:   width,
		Height:  height,
		CenterX: width / 2,
		CenterY: height / 2,
	}
}

// Destructible is implemented by entities that are removed by marking them
// and compacting their collection afterwards.
type Destructible interface {
	// MarkDestroyed marks the entity for removal at the next compaction.
	MarkDestroyed()
	// IsDestroyed returns true if the entity is marked for destruction.
	IsDestroyed() bool
}

// Compact drops destroyed entities in place, preserving order, and returns
// the shortened slice. Freed tail slots are zeroed so nothing is retained.
func Compact[T Destructible](items []T) []T {
	kept := items[:0]
	for _, it := range items {
		if !it.IsDestroyed() {
			kept = append(kept, it)
		}
	}
	clear(items[len(kept):])
	return kept
}

// BlinkAlpha returns the opacity of an entity that was hit `since` ago and is
// still protected. The sine of since/periodMs selects between dim and opaque.
func BlinkAlpha(since time.Duration, periodMs, dim float64) float64 {
	ms := float64(since) / float64(time.Millisecond)
	if math.Sin(ms/periodMs) > 0 {
		return dim
	}
	return 1
}
