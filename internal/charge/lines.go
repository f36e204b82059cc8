// Package charge computes the imaginary lines a shot must cross to charge the
// shooter, and tracks which of them the shooter crossed during the shot.
package charge

import (
	"sort"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// ComputeLines enumerates every unobstructed imaginary line between eligible
// teammates of the shooter. The shooter never anchors a line.
//
// A pawn shooter gets (pawn,pawn) and (pawn,special) lines; any other shooter
// gets (special,special) lines plus (pawn,pawn) lines when its type allows them.
// Kings count as specials. A line is dropped if any third puck's body touches it.
// Lines are indexed in a deterministic order (by source ids).
func ComputeLines(shooter *object.Puck, pucks []*object.Puck) []object.ImaginaryLine {
	if shooter == nil {
		return nil
	}

	var mates []*object.Puck
	for _, p := range pucks {
		if p.ID == shooter.ID || p.Team != shooter.Team || p.IsDestroyed() {
			continue
		}
		mates = append(mates, p)
	}
	sort.Slice(mates, func(i, j int) bool { return mates[i].ID < mates[j].ID })

	spec := shooter.Spec()
	var lines []object.ImaginaryLine
	for i := 0; i < len(mates); i++ {
		for j := i + 1; j < len(mates); j++ {
			a, b := mates[i], mates[j]
			kind := kindOf(a, b)
			if !eligible(spec, kind) {
				continue
			}
			if obstructed(a, b, pucks) {
				continue
			}
			lines = append(lines, object.ImaginaryLine{
				Index:   len(lines),
				Sources: [2]int{a.ID, b.ID},
				Types:   [2]object.PuckType{a.Type, b.Type},
				Kind:    kind,
				A:       a.Position,
				B:       b.Position,
				Synergy: object.SynergyFor(a.Type, b.Type),
			})
		}
	}
	return lines
}

// kindOf classifies a pair of source pucks.
func kindOf(a, b *object.Puck) object.LineKind {
	pa := a.Class() == object.ClassPawn
	pb := b.Class() == object.ClassPawn
	switch {
	case pa && pb:
		return object.LinePawnPawn
	case pa || pb:
		return object.LinePawnSpecial
	default:
		return object.LineSpecialSpecial
	}
}

// eligible applies the shooter's pairing rules.
func eligible(shooter object.TypeSpec, kind object.LineKind) bool {
	if shooter.Class == object.ClassPawn {
		return kind == object.LinePawnPawn || kind == object.LinePawnSpecial
	}
	switch kind {
	case object.LineSpecialSpecial:
		return true
	case object.LinePawnPawn:
		return shooter.PawnLines
	default:
		return false
	}
}

// obstructed reports whether any puck other than the two sources touches ab.
func obstructed(a, b *object.Puck, pucks []*object.Puck) bool {
	for _, p := range pucks {
		if p.ID == a.ID || p.ID == b.ID || p.IsDestroyed() {
			continue
		}
		if physics.CircleIntersectsSegment(p.Position, p.Radius, a.Position, b.Position) {
			return true
		}
	}
	return false
}
