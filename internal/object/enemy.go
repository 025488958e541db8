package object

// Enemy is a descending hostile. It shrinks as it takes damage and is worth
// more score the tougher it spawned.
type Enemy struct {
	ID        uint64
	X, Y      float64 // Position (center)
	Speed     float64 // Pixels per frame, fixed at spawn
	Size      float64 // Visual size; collision radius is Size/2
	Health    int
	MaxHealth int
	Color     uint32 // 0xRRGGBB tint
	Anim      Animation
	destroyed bool
}

// NewEnemy creates a full-health enemy.
func NewEnemy(id uint64, x, y, speed, size float64, maxHealth int, color uint32, frameMs float64) *Enemy {
	if maxHealth < 1 {
		maxHealth = 1
	}
	return &Enemy{
		ID:        id,
		X:         x,
		Y:         y,
		Speed:     speed,
		Size:      size,
		Health:    maxHealth,
		MaxHealth: maxHealth,
		Color:     color,
		Anim:      NewAnimation(frameMs),
	}
}

// MarkDestroyed marks the enemy for removal.
func (e *Enemy) MarkDestroyed() {
	e.destroyed = true
}

// IsDestroyed returns true if the enemy is marked for destruction.
func (e *Enemy) IsDestroyed() bool {
	return e.destroyed
}

// Radius returns the collision radius.
func (e *Enemy) Radius() float64 {
	return e.Size / 2
}

// Update moves the enemy down and advances its animation.
// Returns true once it has passed the bottom edge (a miss, not a kill).
func (e *Enemy) Update(ctx UpdateContext) bool {
	e.Y += e.Speed * ctx.DeltaFrames
	e.Anim.Advance(ctx.DeltaFrames * ctx.FrameMillis)

	if e.Y > ctx.Screen.Height+e.Size {
		e.destroyed = true
		return true
	}
	return false
}

// Hit applies one point of damage. Returns true if this hit killed the enemy.
func (e *Enemy) Hit() bool {
	if e.Health > 0 {
		e.Health--
	}
	if e.Health == 0 {
		e.destroyed = true
		return true
	}
	return false
}

// Scale returns the render scale: base shrunk by the remaining health ratio.
func (e *Enemy) Scale(base float64) float64 {
	return base * float64(e.Health) / float64(e.MaxHealth)
}

// ScoreValue returns the score awarded for destroying this enemy.
func (e *Enemy) ScoreValue(unit int) int {
	return e.MaxHealth * unit
}
