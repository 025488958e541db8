package object

// Bullet is a projectile fired upward by the player.
type Bullet struct {
	ID        uint64
	X, Y      float64 // Position (center)
	VY        float64 // Vertical velocity in pixels per frame (negative = up)
	Radius    float64 // Collision/draw radius
	destroyed bool
}

// NewBullet creates a bullet at (x, y) travelling up at speed pixels per frame.
func NewBullet(id uint64, x, y, speed, radius float64) *Bullet {
	return &Bullet{
		ID:     id,
		X:      x,
		Y:      y,
		VY:     -speed,
		Radius: radius,
	}
}

// MarkDestroyed marks the bullet for removal.
func (b *Bullet) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the bullet is marked for destruction.
func (b *Bullet) IsDestroyed() bool {
	return b.destroyed
}

// Update moves the bullet. Returns true once it has left the top edge.
func (b *Bullet) Update(ctx UpdateContext) bool {
	b.Y += b.VY * ctx.DeltaFrames

	if b.Y < -b.Radius {
		b.destroyed = true
		return true
	}
	return false
}
