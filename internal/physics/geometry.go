package physics

import "math"

// parallelEpsilon is the cross-product magnitude below which two segments are
// treated as parallel.
const parallelEpsilon = 1e-9

// SegmentIntersection returns the point where segment ab crosses segment cd.
// Parallel, collinear and degenerate (zero-length) segments never intersect.
func SegmentIntersection(a, b, c, d Vec) (Vec, bool) {
	r := b.Sub(a)
	s := d.Sub(c)

	denom := r.Cross(s)
	if math.Abs(denom) < parallelEpsilon {
		return Vec{}, false
	}

	ac := c.Sub(a)
	t := ac.Cross(s) / denom
	u := ac.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec{}, false
	}

	return a.Add(r.Scale(t)), true
}

// ClosestPointOnSegment projects p onto segment ab, clamped to the segment.
func ClosestPointOnSegment(p, a, b Vec) Vec {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// PointSegmentDistance returns the distance from p to the closest point of ab.
func PointSegmentDistance(p, a, b Vec) float64 {
	return Distance(p, ClosestPointOnSegment(p, a, b))
}

// CircleIntersectsSegment reports whether a circle touches segment ab.
func CircleIntersectsSegment(center Vec, radius float64, a, b Vec) bool {
	closest := ClosestPointOnSegment(center, a, b)
	return DistanceSquared(center, closest) <= radius*radius
}
