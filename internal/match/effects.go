package match

import (
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// decayEffects ages cosmetic state, applies area effects and expires timed
// effects, restoring neutralized stats.
func (e *Engine) decayEffects() {
	s := e.state
	s.Particles = object.UpdateParticles(s.Particles)
	s.Texts = object.UpdateTexts(s.Texts)
	if s.ScreenShake > 0 {
		s.ScreenShake--
	}

	for _, p := range s.Pucks {
		if p.IsDestroyed() || len(p.Effects) == 0 {
			continue
		}
		kept := p.Effects[:0]
		for _, fx := range p.Effects {
			switch fx.Kind {
			case object.EffectBurst:
				e.applyBurst(p, fx)
			case object.EffectAura:
				if p.Moving() {
					e.applyAura(p, fx)
				}
			}
			fx.Ticks--
			if fx.Expired() {
				if fx.Kind == object.EffectNeutralize {
					p.RestoreStats(fx.Saved)
				}
				continue
			}
			kept = append(kept, fx)
		}
		p.Effects = kept
	}

	e.applyOvercharge()
}

// applyBurst pushes opposing pucks within the burst radius away from its
// origin with an impulse inversely proportional to distance.
func (e *Engine) applyBurst(owner *object.Puck, fx object.Effect) {
	for _, q := range e.state.Pucks {
		if q.IsDestroyed() || q.Team == owner.Team {
			continue
		}
		delta := q.Position.Sub(fx.Origin)
		dist := delta.Len()
		if dist == 0 || dist > fx.Radius {
			continue
		}
		impulse := min(fx.Strength/dist, e.tuning.BurstCap)
		q.Velocity = q.Velocity.Add(delta.Scale(impulse / dist / q.Mass))
	}
	e.burst(fx.Origin, 10, 3, owner.Team)
}

// applyAura pulls opposing pucks within range towards the carrier.
func (e *Engine) applyAura(owner *object.Puck, fx object.Effect) {
	for _, q := range e.state.Pucks {
		if q.IsDestroyed() || q.Team == owner.Team {
			continue
		}
		delta := owner.Position.Sub(q.Position)
		dist := delta.Len()
		if dist == 0 || dist > fx.Radius {
			continue
		}
		q.Velocity = q.Velocity.Add(delta.Scale(fx.Strength / dist))
	}
}

// applyOvercharge pushes moving opponents away from an overcharged team's pucks.
func (e *Engine) applyOvercharge() {
	s := e.state
	t := e.tuning
	for team := object.Red; team <= object.Blue; team++ {
		if !s.Overcharged[team] {
			continue
		}
		for _, q := range s.Pucks {
			if q.IsDestroyed() || q.Team == team || !q.Moving() {
				continue
			}
			for _, p := range s.Pucks {
				if p.IsDestroyed() || p.Team != team {
					continue
				}
				delta := q.Position.Sub(p.Position)
				dist := delta.Len()
				if dist == 0 || dist > t.OverchargeRadius {
					continue
				}
				q.Velocity = q.Velocity.Add(delta.Scale(t.OverchargeStrength / dist))
			}
		}
	}
}

// recomputeTiers updates each team's special-shot tier. Newly unlocked tiers
// are reported when emit is set.
func (e *Engine) recomputeTiers(emit bool) {
	s := e.state
	for team := object.Red; team <= object.Blue; team++ {
		prev := s.Special[team]
		tier := e.tierFor(team)
		s.Special[team] = tier
		if tier == TierNone {
			s.SpecialArmed[team] = false
		}
		if emit && tier > prev && !s.SpecialSpent[team] {
			e.emit(Event{Kind: EventSpecialUnlocked, Team: team, Tier: tier})
		}
	}
}

// tierFor is ROYAL when every living special of team is charged and ULTIMATE
// when every living pawn is charged as well.
func (e *Engine) tierFor(team object.Team) SpecialTier {
	specials := 0
	allSpecials, allPawns := true, true
	for _, p := range e.state.TeamPucks(team) {
		switch p.Class() {
		case object.ClassSpecial:
			specials++
			allSpecials = allSpecials && p.Charged
		case object.ClassPawn:
			allPawns = allPawns && p.Charged
		}
	}
	switch {
	case specials == 0 || !allSpecials:
		return TierNone
	case allPawns:
		return TierUltimate
	default:
		return TierRoyal
	}
}

// spawnOrb places a new orb on a free point of the perimeter loop.
func (e *Engine) spawnOrb() {
	s := e.state
	if len(s.Orbs) >= e.tuning.MaxOrbs {
		return
	}
	clearance := 2 * (object.OrbRadius + object.KingRadius)
	for range 32 {
		t := e.rng.Float64()
		pos := object.PerimeterPoint(t, s.Rink)
		if !e.orbSpotFree(pos, clearance) {
			continue
		}
		s.Orbs = append(s.Orbs, object.NewOrb(s.nextOrbID, t, s.Rink))
		s.nextOrbID++
		return
	}
}

func (e *Engine) orbSpotFree(pos physics.Vec, clearance float64) bool {
	for _, p := range e.state.Pucks {
		if !p.IsDestroyed() && physics.Distance(pos, p.Position) < clearance {
			return false
		}
	}
	for _, o := range e.state.Orbs {
		if physics.Distance(pos, o.Position) < clearance {
			return false
		}
	}
	return true
}
