package object

import "github.com/tomz197/pucks/internal/physics"

// EffectKind tags the variant of a temporary effect.
type EffectKind int

const (
	EffectBurst      EffectKind = iota // One-tick radial impulse on opponents
	EffectPhase                        // Ignores puck-puck collisions
	EffectRage                         // Destroys opposing pucks on contact
	EffectArmor                        // Immune to durability loss
	EffectNeutralize                   // Stats overridden with neutral values
	EffectAura                         // Pulls opponents while the carrier moves
)

func (k EffectKind) String() string {
	switch k {
	case EffectBurst:
		return "burst"
	case EffectPhase:
		return "phase"
	case EffectRage:
		return "rage"
	case EffectArmor:
		return "armor"
	case EffectNeutralize:
		return "neutralize"
	case EffectAura:
		return "aura"
	default:
		return "unknown"
	}
}

// Stats is the subset of puck parameters a neutralize effect overrides.
type Stats struct {
	Mass       float64
	Friction   float64
	Elasticity float64
}

// Effect is a temporary, tagged modifier attached to a puck.
// Only the fields relevant to Kind are meaningful.
type Effect struct {
	Kind     EffectKind
	Ticks    int         // Remaining duration in physics ticks
	Kills    int         // Rage: remaining destructive contacts
	Radius   float64     // Burst/aura reach
	Strength float64     // Burst/aura magnitude
	Origin   physics.Vec // Burst centre
	Saved    Stats       // Neutralize: stats to restore on expiry
}

// NewBurst creates a one-tick burst centred on origin.
func NewBurst(origin physics.Vec, radius, strength float64) Effect {
	return Effect{Kind: EffectBurst, Ticks: 1, Origin: origin, Radius: radius, Strength: strength}
}

// NewRage creates a rage effect with the given contact budget.
func NewRage(kills, ticks int) Effect {
	return Effect{Kind: EffectRage, Kills: kills, Ticks: ticks}
}

// Expired reports whether the effect should be removed.
func (e *Effect) Expired() bool {
	if e.Kind == EffectRage && e.Kills <= 0 {
		return true
	}
	return e.Ticks <= 0
}
