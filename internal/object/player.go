package object

import "github.com/tomz197/octoshot/internal/physics"

// Player is the craft dragged around by the pointer.
type Player struct {
	X, Y float64 // Position (center)
	Size float64 // Visual size; collision radius is Size/2
}

// NewPlayer creates a player at the given position.
func NewPlayer(x, y, size float64) *Player {
	return &Player{X: x, Y: y, Size: size}
}

// Radius returns the collision radius.
func (p *Player) Radius() float64 {
	return p.Size / 2
}

// MoveBy displaces the player and keeps the whole craft inside the screen.
func (p *Player) MoveBy(dx, dy float64, screen Screen) {
	half := p.Size / 2
	p.X = physics.Clamp(p.X+dx, half, screen.Width-half)
	p.Y = physics.Clamp(p.Y+dy, half, screen.Height-half)
}

// Nose returns the point bullets are fired from.
func (p *Player) Nose() (float64, float64) {
	return p.X, p.Y - p.Size/2
}
