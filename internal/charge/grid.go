package charge

import (
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// LineGrid is the charge-line broad-phase, built once per shot. It maps each
// line index to the cells the line passes through, and each cell back to the
// lines touching it.
type LineGrid struct {
	cellSize  float64
	lineCells [][]physics.CellKey
	cellLines map[physics.CellKey][]int
}

// NewLineGrid rasterises lines into cells of the given size.
func NewLineGrid(lines []object.ImaginaryLine, cellSize float64) *LineGrid {
	g := &LineGrid{
		cellSize:  cellSize,
		lineCells: make([][]physics.CellKey, len(lines)),
		cellLines: make(map[physics.CellKey][]int),
	}
	for i, l := range lines {
		cells := physics.CellsForSegment(l.A, l.B, cellSize)
		g.lineCells[i] = cells
		for _, c := range cells {
			g.cellLines[c] = append(g.cellLines[c], i)
		}
	}
	return g
}

// CellsOf returns the cells line i passes through.
func (g *LineGrid) CellsOf(i int) []physics.CellKey {
	if i < 0 || i >= len(g.lineCells) {
		return nil
	}
	return g.lineCells[i]
}

// Candidates returns the distinct indices of lines sharing a cell with the
// movement segment from a to b, in ascending order of first encounter.
func (g *LineGrid) Candidates(a, b physics.Vec) []int {
	if len(g.cellLines) == 0 {
		return nil
	}
	var out []int
	seen := make(map[int]struct{})
	for _, c := range physics.CellsForSegment(a, b, g.cellSize) {
		for _, idx := range g.cellLines[c] {
			if _, dup := seen[idx]; dup {
				continue
			}
			seen[idx] = struct{}{}
			out = append(out, idx)
		}
	}
	return out
}
