package charge

import (
	"math"
	"sort"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Crossing is one newly crossed line.
type Crossing struct {
	Line    object.ImaginaryLine
	Point   physics.Vec
	Perfect bool // Crossed near the line's midpoint
	Combo   int  // Combo count after this crossing
}

// LineState is the per-shot charge bookkeeping: the frozen line set, which lines
// have been crossed, and the running combo.
type LineState struct {
	ShooterID int
	Lines     []object.ImaginaryLine
	Crossed   []bool
	Combo     int
	Confirmed bool // Set once the shot is launched; crossing detection is off before

	grid         *LineGrid
	perfectRatio float64
	kinds        [3]int // Crossings per LineKind
}

// NewLineState computes the shooter's lines and builds their grid.
// perfectRatio is the fraction of a line's length around its midpoint that
// counts as a perfect crossing.
func NewLineState(shooter *object.Puck, pucks []*object.Puck, cellSize, perfectRatio float64) *LineState {
	lines := ComputeLines(shooter, pucks)
	id := -1
	if shooter != nil {
		id = shooter.ID
	}
	return &LineState{
		ShooterID:    id,
		Lines:        lines,
		Crossed:      make([]bool, len(lines)),
		grid:         NewLineGrid(lines, cellSize),
		perfectRatio: perfectRatio,
	}
}

// Confirm activates crossing detection.
func (s *LineState) Confirm() {
	s.Confirmed = true
}

// CrossedCount returns the number of lines crossed this shot.
func (s *LineState) CrossedCount() int {
	return s.kinds[0] + s.kinds[1] + s.kinds[2]
}

// CrossedKind returns how many lines of the given kind were crossed.
func (s *LineState) CrossedKind(k object.LineKind) int {
	return s.kinds[k]
}

// Cross tests the shooter's movement from a to b against the lines not crossed
// yet, marks every newly crossed line and returns them in the order they were
// crossed along the movement.
func (s *LineState) Cross(a, b physics.Vec) []Crossing {
	if !s.Confirmed || a == b {
		return nil
	}

	var hits []Crossing
	for _, idx := range s.grid.Candidates(a, b) {
		if s.Crossed[idx] {
			continue
		}
		l := s.Lines[idx]
		p, ok := physics.SegmentIntersection(a, b, l.A, l.B)
		if !ok {
			continue
		}
		hits = append(hits, Crossing{Line: l, Point: p, Perfect: s.perfect(l, p)})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return physics.DistanceSquared(a, hits[i].Point) < physics.DistanceSquared(a, hits[j].Point)
	})
	for i := range hits {
		s.Crossed[hits[i].Line.Index] = true
		s.kinds[hits[i].Line.Kind]++
		s.Combo++
		hits[i].Combo = s.Combo
	}
	return hits
}

// perfect reports whether p is within the perfect window around l's midpoint.
func (s *LineState) perfect(l object.ImaginaryLine, p physics.Vec) bool {
	length := l.Length()
	if length == 0 {
		return false
	}
	return physics.Distance(p, l.Midpoint()) <= length*s.perfectRatio
}

// Satisfied reports whether the crossings so far meet spec's requirement.
// Pawn types need a pawn-pawn and a pawn-special line; everything else needs a
// count of any lines.
func (s *LineState) Satisfied(spec object.TypeSpec) bool {
	if spec.Dual {
		return s.kinds[object.LinePawnPawn] > 0 && s.kinds[object.LinePawnSpecial] > 0
	}
	return s.CrossedCount() >= max(spec.Required, 1)
}

// ClosestUncrossed returns the uncrossed line whose midpoint is nearest p.
func (s *LineState) ClosestUncrossed(p physics.Vec) (object.ImaginaryLine, bool) {
	best := math.Inf(1)
	var out object.ImaginaryLine
	found := false
	for i, l := range s.Lines {
		if s.Crossed[i] {
			continue
		}
		if d := physics.DistanceSquared(p, l.Midpoint()); d < best {
			best, out, found = d, l, true
		}
	}
	return out, found
}
