package charge

import (
	"testing"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

const (
	testCell    = 80.0
	testPerfect = 0.12
)

// pawnSetup places a pawn shooter below two pawns and one special.
// Lines: A-B (pawn-pawn, y=550), A-S and B-S (pawn-special).
func pawnSetup() (*object.Puck, []*object.Puck) {
	shooter := object.NewPuck(3, object.Red, object.Pawn, physics.V(400, 600))
	a := object.NewPuck(1, object.Red, object.Pawn, physics.V(300, 550))
	b := object.NewPuck(2, object.Red, object.Pawn, physics.V(500, 550))
	s := object.NewPuck(4, object.Red, object.Striker, physics.V(500, 450))
	return shooter, []*object.Puck{a, b, shooter, s}
}

func TestComputeLinesPawnShooter(t *testing.T) {
	shooter, pucks := pawnSetup()
	lines := ComputeLines(shooter, pucks)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}

	kinds := map[object.LineKind]int{}
	for i, l := range lines {
		if l.Index != i {
			t.Errorf("line %d has index %d", i, l.Index)
		}
		if l.Sources[0] == shooter.ID || l.Sources[1] == shooter.ID {
			t.Errorf("shooter anchors line %v", l.Sources)
		}
		kinds[l.Kind]++
	}
	if kinds[object.LinePawnPawn] != 1 || kinds[object.LinePawnSpecial] != 2 {
		t.Errorf("unexpected kinds %v", kinds)
	}
}

func TestComputeLinesSpecialShooter(t *testing.T) {
	shooter := object.NewPuck(10, object.Blue, object.Striker, physics.V(400, 400))
	pucks := []*object.Puck{
		shooter,
		object.NewPuck(11, object.Blue, object.Guardian, physics.V(200, 300)),
		object.NewPuck(12, object.Blue, object.King, physics.V(600, 300)),
		object.NewPuck(13, object.Blue, object.Pawn, physics.V(200, 600)),
		object.NewPuck(14, object.Blue, object.Pawn, physics.V(600, 600)),
		object.NewPuck(15, object.Red, object.Striker, physics.V(100, 900)),
	}

	lines := ComputeLines(shooter, pucks)
	if len(lines) != 1 || lines[0].Kind != object.LineSpecialSpecial {
		t.Fatalf("striker lines = %+v, want one special-special", lines)
	}

	// The King accepts pawn lines too.
	lines = ComputeLines(pucks[2], pucks)
	var pp int
	for _, l := range lines {
		if l.Kind == object.LinePawnPawn {
			pp++
		}
		if l.Kind == object.LinePawnSpecial {
			t.Errorf("king got a pawn-special line %v", l.Sources)
		}
	}
	if pp != 1 {
		t.Errorf("king pawn-pawn lines = %d, want 1", pp)
	}
}

func TestComputeLinesObstruction(t *testing.T) {
	shooter, pucks := pawnSetup()
	blocker := object.NewPuck(9, object.Blue, object.Striker, physics.V(400, 555))
	pucks = append(pucks, blocker)

	for _, l := range ComputeLines(shooter, pucks) {
		if l.Kind == object.LinePawnPawn {
			t.Fatalf("obstructed line %v was kept", l.Sources)
		}
	}
}

func TestComputeLinesSkipsDestroyed(t *testing.T) {
	shooter, pucks := pawnSetup()
	pucks[0].MarkDestroyed()
	if got := len(ComputeLines(shooter, pucks)); got != 1 {
		t.Fatalf("got %d lines, want 1", got)
	}
}

func TestLineStateDualRequirement(t *testing.T) {
	shooter, pucks := pawnSetup()
	s := NewLineState(shooter, pucks, testCell, testPerfect)

	if got := s.Cross(physics.V(400, 600), physics.V(400, 480)); got != nil {
		t.Fatalf("crossings before confirm: %v", got)
	}
	s.Confirm()

	hits := s.Cross(physics.V(400, 600), physics.V(400, 480))
	if len(hits) != 2 {
		t.Fatalf("got %d crossings, want 2", len(hits))
	}
	if hits[0].Line.Kind != object.LinePawnPawn {
		t.Errorf("first crossing kind = %v, want pawn-pawn", hits[0].Line.Kind)
	}
	if !hits[0].Perfect {
		t.Errorf("midpoint crossing not perfect")
	}
	if s.Combo != 2 || hits[1].Combo != 2 {
		t.Errorf("combo = %d, want 2", s.Combo)
	}
	if !s.Satisfied(object.Pawn.Spec()) {
		t.Errorf("pawn not satisfied after one of each kind")
	}
}

func TestLineStatePawnPawnOnlyNotSatisfied(t *testing.T) {
	shooter := object.NewPuck(5, object.Red, object.Pawn, physics.V(400, 600))
	pucks := []*object.Puck{
		shooter,
		object.NewPuck(1, object.Red, object.Pawn, physics.V(300, 550)),
		object.NewPuck(2, object.Red, object.Pawn, physics.V(500, 550)),
		object.NewPuck(3, object.Red, object.Pawn, physics.V(300, 430)),
		object.NewPuck(4, object.Red, object.Pawn, physics.V(500, 430)),
	}
	s := NewLineState(shooter, pucks, testCell, testPerfect)
	s.Confirm()

	s.Cross(physics.V(400, 600), physics.V(400, 400))
	if s.CrossedKind(object.LinePawnPawn) < 2 {
		t.Fatalf("crossed %d pawn-pawn lines, want at least 2", s.CrossedKind(object.LinePawnPawn))
	}
	if s.Satisfied(object.Pawn.Spec()) {
		t.Errorf("pawn satisfied without a pawn-special line")
	}
}

func TestLineStateCrossOnce(t *testing.T) {
	shooter, pucks := pawnSetup()
	s := NewLineState(shooter, pucks, testCell, testPerfect)
	s.Confirm()

	s.Cross(physics.V(400, 600), physics.V(400, 480))
	if got := s.Cross(physics.V(400, 480), physics.V(400, 600)); len(got) != 0 {
		t.Errorf("recrossing produced %d crossings", len(got))
	}
	if s.CrossedCount() != 2 || len(s.Lines) != 3 {
		t.Errorf("crossed=%d of %d", s.CrossedCount(), len(s.Lines))
	}
}

func TestLineStateCountRequirement(t *testing.T) {
	spec := object.Titan.Spec()
	s := &LineState{}
	s.kinds[object.LineSpecialSpecial] = 1
	if s.Satisfied(spec) {
		t.Errorf("titan satisfied with one crossing")
	}
	s.kinds[object.LineSpecialSpecial] = 2
	if !s.Satisfied(spec) {
		t.Errorf("titan not satisfied with two crossings")
	}
}

func TestLineGridCandidates(t *testing.T) {
	lines := []object.ImaginaryLine{
		{Index: 0, A: physics.V(10, 10), B: physics.V(300, 10)},
		{Index: 1, A: physics.V(10, 700), B: physics.V(300, 700)},
	}
	g := NewLineGrid(lines, testCell)

	got := g.Candidates(physics.V(100, 50), physics.V(100, 0))
	if len(got) != 1 || got[0] != 0 {
		t.Errorf("candidates = %v, want [0]", got)
	}
	if len(g.CellsOf(0)) != 4 {
		t.Errorf("line 0 spans %d cells, want 4", len(g.CellsOf(0)))
	}
	if g.CellsOf(5) != nil {
		t.Errorf("out of range line has cells")
	}
}
