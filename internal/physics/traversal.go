package physics

import "math"

// CellKey identifies a cell of a uniform grid in integer cell coordinates.
type CellKey struct {
	X, Y int
}

// CellOf returns the cell containing p for the given cell size.
func CellOf(p Vec, cellSize float64) CellKey {
	return CellKey{
		X: int(math.Floor(p.X / cellSize)),
		Y: int(math.Floor(p.Y / cellSize)),
	}
}

// CellsForSegment enumerates every grid cell segment ab passes through, in
// traversal order from a to b. Consecutive cells differ by exactly one step on
// exactly one axis; a segment inside a single cell yields that cell alone.
//
// When the segment passes exactly through a cell corner, the x step is taken
// first so the chain stays 4-connected.
func CellsForSegment(a, b Vec, cellSize float64) []CellKey {
	start := CellOf(a, cellSize)
	end := CellOf(b, cellSize)

	cells := make([]CellKey, 0, 1+abs(end.X-start.X)+abs(end.Y-start.Y))
	cells = append(cells, start)
	if start == end {
		return cells
	}

	dx := b.X - a.X
	dy := b.Y - a.Y

	stepX, tMaxX, tDeltaX := axisSetup(a.X, dx, start.X, cellSize)
	stepY, tMaxY, tDeltaY := axisSetup(a.Y, dy, start.Y, cellSize)

	cur := start
	for cur != end {
		// Never step past the end cell on an axis that has already arrived,
		// regardless of floating point residue in tMax.
		switch {
		case cur.X == end.X:
			cur.Y += stepY
			tMaxY += tDeltaY
		case cur.Y == end.Y:
			cur.X += stepX
			tMaxX += tDeltaX
		case tMaxX <= tMaxY:
			cur.X += stepX
			tMaxX += tDeltaX
		default:
			cur.Y += stepY
			tMaxY += tDeltaY
		}
		cells = append(cells, cur)
	}

	return cells
}

// axisSetup computes the DDA step direction, the parametric distance to the
// first cell boundary, and the parametric width of one cell along one axis.
func axisSetup(origin, delta float64, cell int, cellSize float64) (step int, tMax, tDelta float64) {
	switch {
	case delta > 0:
		boundary := float64(cell+1) * cellSize
		return 1, (boundary - origin) / delta, cellSize / delta
	case delta < 0:
		boundary := float64(cell) * cellSize
		return -1, (boundary - origin) / delta, cellSize / -delta
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
