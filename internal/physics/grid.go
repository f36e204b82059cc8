package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection over the rink.
// Discs are inserted by id into every cell their bounding box overlaps, then
// candidate colliders are gathered from the disc's cell box expanded by one ring.
//
// Cell size should be >= 2 * the largest disc radius so that any two touching
// discs share at least one cell.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	originX     float64 // World x of column 0 (the grid may extend past the rink)
	originY     float64 // World y of row 0
	cols        int
	rows        int
	cells       []gridCell
	seen        map[int]struct{} // Reused per query to deduplicate ids
}

// gridCell stores the ids of discs whose bounding box touches the cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering the world rectangle
// [minX,maxX]x[minY,maxY]. Positions outside are clamped to the border cells.
func NewSpatialGrid(minX, minY, maxX, maxY, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil((maxX - minX) / cellSize))
	rows := int(math.Ceil((maxY - minY) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		originX:     minX,
		originY:     minY,
		cols:        cols,
		rows:        rows,
		cells:       make([]gridCell, cols*rows),
		seen:        make(map[int]struct{}),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds a disc to every cell overlapped by its bounding box.
func (g *SpatialGrid) Insert(id int, pos Vec, radius float64) {
	minCol, minRow, maxCol, maxRow := g.boxToCells(pos, radius)
	for row := minRow; row <= maxRow; row++ {
		rowOffset := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			idx := rowOffset + col
			g.cells[idx].items = append(g.cells[idx].items, id)
		}
	}
}

// Candidates calls fn once for every distinct id with otherId > id found in the
// disc's bounding box expanded by one cell ring. Each unordered pair is therefore
// reported once across all discs. If fn returns true, iteration stops early.
func (g *SpatialGrid) Candidates(id int, pos Vec, radius float64, fn func(otherID int) bool) {
	minCol, minRow, maxCol, maxRow := g.boxToCells(pos, radius)
	minCol = max(minCol-1, 0)
	minRow = max(minRow-1, 0)
	maxCol = min(maxCol+1, g.cols-1)
	maxRow = min(maxRow+1, g.rows-1)

	clear(g.seen)
	for row := minRow; row <= maxRow; row++ {
		rowOffset := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			for _, other := range g.cells[rowOffset+col].items {
				if other <= id {
					continue // Skip self and pairs owned by the lower id
				}
				if _, dup := g.seen[other]; dup {
					continue
				}
				g.seen[other] = struct{}{}
				if fn(other) {
					return
				}
			}
		}
	}
}

// boxToCells converts a disc's bounding box to an inclusive cell range.
// Clamps to valid range to handle discs partly outside the grid.
func (g *SpatialGrid) boxToCells(pos Vec, radius float64) (minCol, minRow, maxCol, maxRow int) {
	minCol = g.clampCol(int(math.Floor((pos.X - radius - g.originX) * g.invCellSize)))
	maxCol = g.clampCol(int(math.Floor((pos.X + radius - g.originX) * g.invCellSize)))
	minRow = g.clampRow(int(math.Floor((pos.Y - radius - g.originY) * g.invCellSize)))
	maxRow = g.clampRow(int(math.Floor((pos.Y + radius - g.originY) * g.invCellSize)))
	return
}

func (g *SpatialGrid) clampCol(c int) int {
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}

func (g *SpatialGrid) clampRow(r int) int {
	if r < 0 {
		return 0
	}
	if r >= g.rows {
		return g.rows - 1
	}
	return r
}
