package match

import (
	"github.com/tomz197/pucks/internal/charge"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// DragPower maps a drag length onto the 0..1 power scalar.
func DragPower(drag physics.Vec, t Tuning) float64 {
	if t.MaxDrag <= 0 {
		return 0
	}
	return min(drag.Len()/t.MaxDrag, 1)
}

// LaunchVelocity is the velocity a drag gives p: unit(drag) x power x
// type multiplier x max impulse / mass, then the pulsar and special factors.
func LaunchVelocity(p *object.Puck, drag physics.Vec, t Tuning, pulsar bool, tier SpecialTier) physics.Vec {
	if drag.IsZero() || p.Mass <= 0 {
		return physics.Vec{}
	}
	speed := DragPower(drag, t) * t.MaxImpulse * p.Spec().PowerMultiplier / p.Mass
	if pulsar {
		speed *= t.PulsarMultiplier
	}
	switch tier {
	case TierRoyal:
		speed *= t.RoyalMultiplier
	case TierUltimate:
		speed *= t.UltimateMultiplier
	}
	return drag.Normalize().Scale(speed)
}

// Shoot launches puck id with the given drag vector (drag start minus pointer).
// Invalid attempts are ignored and return false: wrong phase, wrong team, an
// already fired or unknown puck, or a drag shorter than the minimum.
func (e *Engine) Shoot(id int, drag physics.Vec) bool {
	s := e.state
	t := e.tuning
	if !s.CanFire(id) || drag.Len() < t.MinDrag {
		return false
	}
	p := s.Puck(id)
	team := p.Team

	pulsar := s.PulsarArmed[team]
	if pulsar {
		s.PulsarArmed[team] = false
		s.PulsarPower[team] = 0
	}

	tier := TierNone
	if s.SpecialArmed[team] && p.Class() == object.ClassKing {
		tier = s.Special[team]
		s.SpecialArmed[team] = false
		s.SpecialSpent[team] = true
	}

	p.Velocity = LaunchVelocity(p, drag, t, pulsar, tier)
	e.applyLaunchAbility(p)
	if tier != TierNone {
		kills := t.RoyalKills
		if tier == TierUltimate {
			kills = t.UltimateKills
		}
		p.AddEffect(object.NewRage(kills, t.RageTicks))
	}

	// Lines are frozen at launch
	s.Lines = charge.NewLineState(p, s.Pucks, t.CellSize, t.PerfectRatio)
	s.Lines.Confirm()
	s.Shot = &ShotInfo{PuckID: id, Team: team, Special: tier, Pulsar: pulsar}

	s.Fired[id] = true
	s.CanShoot = false
	s.IsSimulating = true
	s.Phase = PhaseSimulating
	s.TurnLoss = LossNone
	s.Aim = Aim{Selected: NoPuck, Hovered: s.Aim.Hovered}

	e.emit(Event{
		Kind:     EventShotFired,
		Team:     team,
		PuckID:   id,
		PuckType: p.Type,
		Tier:     tier,
		Value:    p.Velocity.Len(),
		Pos:      p.Position,
	})
	return true
}

// applyLaunchAbility attaches the effects of the puck's launch ability.
func (e *Engine) applyLaunchAbility(p *object.Puck) {
	t := e.tuning
	switch p.Spec().Ability {
	case object.AbilityPhaseOnLaunch:
		p.AddEffect(object.Effect{Kind: object.EffectPhase, Ticks: t.PhaseTicks})
	case object.AbilityRageOnLaunch:
		p.AddEffect(object.NewRage(t.RageLaunchKills, t.RageTicks))
	case object.AbilityArmorOnLaunch:
		for _, q := range e.state.TeamPucks(p.Team) {
			if q.ID != p.ID && physics.Distance(p.Position, q.Position) <= t.ArmorRadius {
				q.AddEffect(object.Effect{Kind: object.EffectArmor, Ticks: t.ArmorTicks})
			}
		}
	case object.AbilityAuraPull:
		p.AddEffect(object.Effect{Kind: object.EffectAura, Ticks: t.AuraTicks, Radius: t.AuraRadius, Strength: t.AuraStrength})
	}
}
