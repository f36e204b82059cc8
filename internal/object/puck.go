package object

import (
	"math"

	"github.com/tomz197/pucks/internal/physics"
)

// neutralStats replace a puck's own stats while it is neutralized.
var neutralStats = Stats{Mass: 1, Friction: 0.985, Elasticity: 1}

// Puck is a movable disc belonging to one team for its whole lifetime.
type Puck struct {
	ID   int
	Team Team
	Type PuckType

	Position        physics.Vec
	InitialPosition physics.Vec // Respawn point on fouls and round resets
	Velocity        physics.Vec
	Rotation        float64 // Cosmetic

	Mass       float64
	Friction   float64
	Elasticity float64
	Radius     float64
	Swerve     float64

	Charged    bool
	Durability int // Only meaningful when Breakable
	Breakable  bool
	Effects    []Effect

	destroyed bool // Marked for removal by the destruction pass
}

// NewPuck creates a puck at pos with stats taken from its type.
func NewPuck(id int, team Team, typ PuckType, pos physics.Vec) *Puck {
	spec := typ.Spec()
	return &Puck{
		ID:              id,
		Team:            team,
		Type:            typ,
		Position:        pos,
		InitialPosition: pos,
		Mass:            spec.Mass,
		Friction:        spec.Friction,
		Elasticity:      spec.Elasticity,
		Radius:          spec.Radius,
		Swerve:          spec.Swerve,
		Durability:      spec.Durability,
		Breakable:       spec.Durability > 0,
	}
}

// Spec returns the property table entry for the puck's type.
func (p *Puck) Spec() TypeSpec {
	return p.Type.Spec()
}

// Class returns the puck's class.
func (p *Puck) Class() Class {
	return p.Type.Spec().Class
}

// Disc returns the physical view of the puck.
func (p *Puck) Disc() physics.Disc {
	return physics.Disc{
		Pos:        p.Position,
		Vel:        p.Velocity,
		Radius:     p.Radius,
		Mass:       p.Mass,
		Elasticity: p.Elasticity,
	}
}

// ApplyDisc copies the kinematic state of d back into the puck.
func (p *Puck) ApplyDisc(d physics.Disc) {
	p.Position = d.Pos
	p.Velocity = d.Vel
}

// SpeedSq returns the puck's squared speed.
func (p *Puck) SpeedSq() float64 {
	return p.Velocity.LenSq()
}

// Moving reports whether the puck has a nonzero velocity.
func (p *Puck) Moving() bool {
	return !p.Velocity.IsZero()
}

// MarkDestroyed marks the puck for removal on the next destruction pass.
func (p *Puck) MarkDestroyed() {
	p.destroyed = true
}

// IsDestroyed returns true if the puck is marked or its durability is spent.
func (p *Puck) IsDestroyed() bool {
	return p.destroyed || (p.Breakable && p.Durability <= 0)
}

// Damage removes n points of durability. Armored and unbreakable pucks are
// unaffected. Returns true if durability actually changed.
func (p *Puck) Damage(n int) bool {
	if !p.Breakable || p.HasEffect(EffectArmor) || p.IsDestroyed() {
		return false
	}
	p.Durability -= n
	return true
}

// Effect returns the first active effect of the given kind, or nil.
func (p *Puck) Effect(kind EffectKind) *Effect {
	for i := range p.Effects {
		if p.Effects[i].Kind == kind {
			return &p.Effects[i]
		}
	}
	return nil
}

// HasEffect reports whether an effect of the given kind is active.
func (p *Puck) HasEffect(kind EffectKind) bool {
	return p.Effect(kind) != nil
}

// AddEffect attaches e, replacing an existing effect of the same kind.
// A neutralize effect already in place keeps its original snapshot.
func (p *Puck) AddEffect(e Effect) {
	if cur := p.Effect(e.Kind); cur != nil {
		if e.Kind == EffectNeutralize {
			cur.Ticks = max(cur.Ticks, e.Ticks)
			return
		}
		*cur = e
		return
	}
	p.Effects = append(p.Effects, e)
}

// Neutralize overrides the puck's stats with neutral values for ticks frames.
// The original stats are restored by RestoreStats.
func (p *Puck) Neutralize(ticks int) {
	if cur := p.Effect(EffectNeutralize); cur != nil {
		cur.Ticks = max(cur.Ticks, ticks)
		return
	}
	p.Effects = append(p.Effects, Effect{
		Kind:  EffectNeutralize,
		Ticks: ticks,
		Saved: Stats{Mass: p.Mass, Friction: p.Friction, Elasticity: p.Elasticity},
	})
	p.Mass = neutralStats.Mass
	p.Friction = neutralStats.Friction
	p.Elasticity = neutralStats.Elasticity
}

// RestoreStats puts back the stats saved by a neutralize effect.
func (p *Puck) RestoreStats(saved Stats) {
	p.Mass = saved.Mass
	p.Friction = saved.Friction
	p.Elasticity = saved.Elasticity
}

// ClearEffects drops every effect, restoring neutralized stats.
func (p *Puck) ClearEffects() {
	for _, e := range p.Effects {
		if e.Kind == EffectNeutralize {
			p.RestoreStats(e.Saved)
		}
	}
	p.Effects = p.Effects[:0]
}

// Respawn moves the puck back to its initial position at rest.
func (p *Puck) Respawn() {
	p.Position = p.InitialPosition
	p.Velocity = physics.Vec{}
}

// ResetForRound respawns the puck uncharged and without effects.
func (p *Puck) ResetForRound() {
	p.Respawn()
	p.Charged = false
	p.Rotation = 0
	p.ClearEffects()
}

// Spin advances the cosmetic rotation proportionally to the puck's speed.
func (p *Puck) Spin() {
	p.Rotation = math.Mod(p.Rotation+p.Velocity.Len()*0.02, 2*math.Pi)
}
