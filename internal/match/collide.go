package match

import (
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// resolveWalls reflects pucks off the boards. Hard impacts cost durability.
func (e *Engine) resolveWalls() {
	s := e.state
	t := e.tuning
	for _, p := range s.Pucks {
		if p.IsDestroyed() {
			continue
		}
		d := p.Disc()
		impact := physics.ReflectWalls(&d, s.Rink)
		p.ApplyDisc(d)
		if impact < t.WallSoundSpeed {
			continue
		}
		e.emit(Event{Kind: EventWallImpact, Team: p.Team, PuckID: p.ID, Value: impact, Pos: p.Position})
		if impact >= t.WallDamageSpeed && p.Damage(1) {
			e.burst(p.Position, t.ParticlesPerImpact, 1.5, p.Team)
		}
	}
}

// resolvePucks rebuilds the collision grid and resolves every touching pair
// once, lower id first.
func (e *Engine) resolvePucks() {
	s := e.state
	e.grid.Clear()
	clear(e.index)
	for _, p := range s.Pucks {
		if p.IsDestroyed() {
			continue
		}
		e.index[p.ID] = p
		e.grid.Insert(p.ID, p.Position, p.Radius)
	}

	for _, a := range s.Pucks {
		if a.IsDestroyed() {
			continue
		}
		e.grid.Candidates(a.ID, a.Position, a.Radius, func(otherID int) bool {
			b := e.index[otherID]
			if b == nil || b.IsDestroyed() {
				return false
			}
			e.resolvePair(a, b)
			return a.IsDestroyed()
		})
	}
}

// resolvePair handles one candidate pair: phase skips, rage destroys, anything
// else bounces.
func (e *Engine) resolvePair(a, b *object.Puck) {
	if a.HasEffect(object.EffectPhase) || b.HasEffect(object.EffectPhase) {
		return
	}
	if !physics.CirclesOverlap(a.Position, a.Radius, b.Position, b.Radius) {
		return
	}
	if e.rage(a, b) || e.rage(b, a) {
		return
	}

	// Nullifiers neutralize opponents they run into.
	aHits := a.SpeedSq() >= b.SpeedSq()

	da, db := a.Disc(), b.Disc()
	c, ok := physics.Collide(&da, &db)
	if !ok {
		return
	}
	a.ApplyDisc(da)
	b.ApplyDisc(db)

	t := e.tuning
	if c.Impulse < t.HitSoundImpulse {
		return
	}
	e.emit(Event{Kind: EventCollision, Team: a.Team, PuckID: a.ID, OtherID: b.ID, Value: c.Impulse, Pos: c.Point})
	e.burst(c.Point, t.ParticlesPerImpact/2, 1, a.Team)

	if c.Impulse >= t.HitDamageImpulse {
		a.Damage(1)
		b.Damage(1)
	}
	if a.Team != b.Team {
		if aHits && a.Spec().Ability == object.AbilityNeutralizeOnHit {
			b.Neutralize(t.NeutralizeTicks)
		} else if !aHits && b.Spec().Ability == object.AbilityNeutralizeOnHit {
			a.Neutralize(t.NeutralizeTicks)
		}
	}
}

// rage lets an enraged attacker destroy an opposing victim instead of
// bouncing. Kings cannot be destroyed this way. Reports whether it fired.
func (e *Engine) rage(attacker, victim *object.Puck) bool {
	if attacker.Team == victim.Team || victim.Class() == object.ClassKing {
		return false
	}
	fx := attacker.Effect(object.EffectRage)
	if fx == nil || fx.Kills <= 0 {
		return false
	}
	fx.Kills--
	victim.MarkDestroyed()
	e.state.ScreenShake = max(e.state.ScreenShake, e.tuning.ShakeTicks/2)
	return true
}

// removeDestroyed drops destroyed pucks from the live set and recomputes the
// special-shot tiers.
func (e *Engine) removeDestroyed() {
	s := e.state
	kept := s.Pucks[:0]
	removed := false
	for _, p := range s.Pucks {
		if !p.IsDestroyed() {
			kept = append(kept, p)
			continue
		}
		removed = true
		e.burst(p.Position, 16, 3, p.Team)
		e.emit(Event{Kind: EventPuckDestroyed, Team: p.Team, PuckID: p.ID, PuckType: p.Type, Pos: p.Position})
	}
	clear(s.Pucks[len(kept):])
	s.Pucks = kept
	if removed {
		e.recomputeTiers(true)
	}
}
