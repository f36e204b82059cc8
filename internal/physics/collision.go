package physics

// Disc is the physical view of a puck used by the collision formulas.
type Disc struct {
	Pos        Vec
	Vel        Vec
	Radius     float64
	Mass       float64
	Elasticity float64
}

// Contact describes a resolved disc-disc collision.
type Contact struct {
	Normal  Vec     // Unit vector from the first disc towards the second
	Point   Vec     // Contact point after separation
	Overlap float64 // Penetration depth before separation
	Impulse float64 // Magnitude of the normal impulse exchanged (0 if separating)
}

// Collide resolves a collision between two overlapping discs in place.
// Both discs are pushed apart along the contact normal by half the overlap each,
// then the normal velocity component is exchanged using the discs' masses and
// their averaged elasticity. The tangential component is left unchanged.
//
// Returns false when the discs do not overlap or share a centre (no usable normal).
func Collide(a, b *Disc) (Contact, bool) {
	delta := b.Pos.Sub(a.Pos)
	distSq := delta.LenSq()
	minDist := a.Radius + b.Radius
	if distSq >= minDist*minDist || distSq == 0 {
		return Contact{}, false
	}

	dist := delta.Len()
	n := delta.Scale(1 / dist)
	overlap := minDist - dist

	// Separate discs to prevent overlap
	half := overlap / 2
	a.Pos = a.Pos.Sub(n.Scale(half))
	b.Pos = b.Pos.Add(n.Scale(half))

	c := Contact{
		Normal:  n,
		Point:   a.Pos.Add(n.Scale(a.Radius)),
		Overlap: overlap,
	}

	// Relative velocity along the collision normal
	dvn := a.Vel.Sub(b.Vel).Dot(n)

	// Don't resolve if velocities are separating
	if dvn <= 0 {
		return c, true
	}

	e := (restitution(a.Elasticity) + restitution(b.Elasticity)) / 2
	invA := 1 / a.Mass
	invB := 1 / b.Mass
	j := (1 + e) * dvn / (invA + invB)

	a.Vel = a.Vel.Sub(n.Scale(j * invA))
	b.Vel = b.Vel.Add(n.Scale(j * invB))
	c.Impulse = j

	return c, true
}

// restitution clamps an elasticity to [0,1]. Zero is fully inelastic.
func restitution(e float64) float64 {
	return min(max(e, 0), 1)
}

// Rink describes the playing surface: a rectangle with a goal mouth gap centred
// on each short (top and bottom) wall.
type Rink struct {
	Width     float64
	Height    float64
	GoalLeft  float64 // Goal mouth x-range start
	GoalRight float64 // Goal mouth x-range end
}

// InGoalMouth reports whether x lies inside the goal mouth x-range.
func (r Rink) InGoalMouth(x float64) bool {
	return x >= r.GoalLeft && x <= r.GoalRight
}

// GoalCenter returns the centre of the top (top=true) or bottom goal line.
func (r Rink) GoalCenter(top bool) Vec {
	x := (r.GoalLeft + r.GoalRight) / 2
	if top {
		return Vec{x, 0}
	}
	return Vec{x, r.Height}
}

// Contains reports whether p lies inside the rink rectangle.
func (r Rink) Contains(p Vec) bool {
	return p.X >= 0 && p.X <= r.Width && p.Y >= 0 && p.Y <= r.Height
}

// ReflectWalls keeps a disc inside the rink by reflecting the velocity component
// on the axis it would exit through, scaled by the disc's elasticity. A disc whose
// centre is inside a goal mouth passes the top/bottom wall unreflected.
//
// Returns the largest normal impact speed of this call (0 if no wall was hit).
func ReflectWalls(d *Disc, r Rink) float64 {
	e := restitution(d.Elasticity)
	impact := 0.0

	if d.Pos.X-d.Radius < 0 {
		d.Pos.X = d.Radius
		if d.Vel.X < 0 {
			impact = max(impact, -d.Vel.X)
			d.Vel.X = -d.Vel.X * e
		}
	} else if d.Pos.X+d.Radius > r.Width {
		d.Pos.X = r.Width - d.Radius
		if d.Vel.X > 0 {
			impact = max(impact, d.Vel.X)
			d.Vel.X = -d.Vel.X * e
		}
	}

	if r.InGoalMouth(d.Pos.X) {
		return impact
	}

	if d.Pos.Y-d.Radius < 0 {
		d.Pos.Y = d.Radius
		if d.Vel.Y < 0 {
			impact = max(impact, -d.Vel.Y)
			d.Vel.Y = -d.Vel.Y * e
		}
	} else if d.Pos.Y+d.Radius > r.Height {
		d.Pos.Y = r.Height - d.Radius
		if d.Vel.Y > 0 {
			impact = max(impact, d.Vel.Y)
			d.Vel.Y = -d.Vel.Y * e
		}
	}

	return impact
}

// Integrate advances a disc by one frame: position += velocity, then velocity is
// damped by friction and snapped to zero below stopSpeed.
// Returns the disc's squared speed after damping.
func Integrate(d *Disc, friction, stopSpeed float64) float64 {
	if d.Vel.IsZero() {
		return 0
	}
	d.Pos = d.Pos.Add(d.Vel)
	d.Vel = d.Vel.Scale(friction)
	speedSq := d.Vel.LenSq()
	if speedSq < stopSpeed*stopSpeed {
		d.Vel = Vec{}
		return 0
	}
	return speedSq
}
