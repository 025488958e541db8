package game

// dragInput turns absolute pointer positions into relative displacements.
// A press sets the anchor; each move yields the delta from the anchor and
// moves it; a release drops it so the next press starts a fresh chain.
type dragInput struct {
	x, y   float64
	active bool
}

func (d *dragInput) press(x, y float64) {
	d.x, d.y = x, y
	d.active = true
}

// move returns the displacement since the previous point. ok is false when
// no press is in progress.
func (d *dragInput) move(x, y float64) (dx, dy float64, ok bool) {
	if !d.active {
		return 0, 0, false
	}
	dx, dy = x-d.x, y-d.y
	d.x, d.y = x, y
	return dx, dy, true
}

func (d *dragInput) release() {
	*d = dragInput{}
}
