package object

import (
	"math"

	"github.com/tomz197/pucks/internal/physics"
)

// OrbRadius is the pickup radius of a perimeter orb.
const OrbRadius = 14.0

// orbInset keeps orbs off the boards.
const orbInset = 40.0

// Orb is a collectible that sits on a loop just inside the rink boards.
// It is stationary while a shot resolves and drifts along the loop otherwise.
type Orb struct {
	ID       int
	T        float64 // Loop parameter in [0,1)
	Position physics.Vec
}

// NewOrb creates an orb at loop parameter t.
func NewOrb(id int, t float64, rink physics.Rink) *Orb {
	o := &Orb{ID: id}
	o.SetT(t, rink)
	return o
}

// SetT moves the orb to loop parameter t.
func (o *Orb) SetT(t float64, rink physics.Rink) {
	o.T = t - math.Floor(t)
	o.Position = PerimeterPoint(o.T, rink)
}

// PerimeterPoint maps t in [0,1) onto the inset rectangle loop, clockwise from
// the top-left corner.
func PerimeterPoint(t float64, rink physics.Rink) physics.Vec {
	w := rink.Width - 2*orbInset
	h := rink.Height - 2*orbInset
	d := (t - math.Floor(t)) * 2 * (w + h)

	switch {
	case d < w:
		return physics.V(orbInset+d, orbInset)
	case d < w+h:
		return physics.V(orbInset+w, orbInset+d-w)
	case d < 2*w+h:
		return physics.V(orbInset+w-(d-w-h), orbInset+h)
	default:
		return physics.V(orbInset, orbInset+h-(d-2*w-h))
	}
}
