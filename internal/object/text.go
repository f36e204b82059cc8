package object

import "github.com/tomz197/pucks/internal/physics"

// FloatingText is a label that rises and fades over a few dozen ticks
// (e.g. "+8" after a line crossing).
type FloatingText struct {
	Position physics.Vec
	Value    string
	Team     Team
	Life     int
	MaxLife  int
}

// floatRise is how far a label climbs per tick.
const floatRise = 0.6

// NewFloatingText creates a label at pos.
func NewFloatingText(pos physics.Vec, value string, team Team, life int) *FloatingText {
	return &FloatingText{Position: pos, Value: value, Team: team, Life: life, MaxLife: life}
}

// Opacity returns the remaining life fraction in [0,1].
func (t *FloatingText) Opacity() float64 {
	if t.MaxLife <= 0 {
		return 0
	}
	return float64(t.Life) / float64(t.MaxLife)
}

// Update moves the label one tick. Returns true if it should be removed.
func (t *FloatingText) Update() bool {
	t.Life--
	t.Position.Y -= floatRise
	return t.Life <= 0
}

// UpdateTexts advances every label and drops the expired ones.
func UpdateTexts(ts []*FloatingText) []*FloatingText {
	kept := ts[:0]
	for _, t := range ts {
		if !t.Update() {
			kept = append(kept, t)
		}
	}
	clear(ts[len(kept):])
	return kept
}
