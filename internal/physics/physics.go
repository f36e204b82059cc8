// Package physics provides the geometry kernel, the collision broad-phase grid and
// the collision response formulas shared by the engine and the shot preview.
package physics

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec) float64 {
	return b.Sub(a).Len()
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec) float64 {
	return b.Sub(a).LenSq()
}

// PointInCircle checks if a point is within radius of a target position.
func PointInCircle(p, center Vec, radius float64) bool {
	return DistanceSquared(p, center) <= radius*radius
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(c1 Vec, r1 float64, c2 Vec, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(c1, c2) < minDist*minDist
}
