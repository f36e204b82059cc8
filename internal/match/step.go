package match

import (
	"fmt"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Tick advances the simulation by one frame and returns the state. It is a
// no-op unless a shot is simulating.
//
// Order: effects, integration, orb pickups, charge-line crossings, walls,
// puck-puck collisions, goals, destruction, end-of-motion test.
func (e *Engine) Tick() *GameState {
	s := e.state
	if !s.IsSimulating {
		return s
	}
	if s.Shot == nil {
		s.Shot = &ShotInfo{PuckID: NoPuck, Team: s.Turn}
	}
	s.Frame++
	s.Shot.Ticks++
	e.settled = false

	e.decayEffects()
	e.integrate()
	e.collectOrbs()
	e.detectCrossings()
	e.resolveWalls()
	e.resolvePucks()
	e.detectGoals()
	e.removeDestroyed()

	if e.settled || e.fastest < e.tuning.SettleSpeed*e.tuning.SettleSpeed || s.Shot.Ticks >= e.tuning.MaxShotTicks {
		e.settle()
	}
	return s
}

// integrate moves every puck by its velocity, applies swerve and friction and
// records the fastest squared speed.
func (e *Engine) integrate() {
	s := e.state
	e.fastest = 0
	if shooter := s.Puck(s.Shot.PuckID); shooter != nil {
		e.shotFrom = shooter.Position
	}
	for _, p := range s.Pucks {
		if p.IsDestroyed() || !p.Moving() {
			continue
		}
		if p.Swerve != 0 {
			p.Velocity = p.Velocity.Add(p.Velocity.Perp().Scale(p.Swerve))
		}
		d := p.Disc()
		speedSq := physics.Integrate(&d, p.Friction, e.tuning.StopSpeed)
		p.ApplyDisc(d)
		p.Spin()
		e.fastest = max(e.fastest, speedSq)
	}
}

// collectOrbs removes orbs touched by moving pucks and credits the shooting team.
func (e *Engine) collectOrbs() {
	s := e.state
	if len(s.Orbs) == 0 {
		return
	}
	t := e.tuning
	team := s.Shot.Team
	kept := s.Orbs[:0]
	for _, o := range s.Orbs {
		var by *object.Puck
		for _, p := range s.Pucks {
			if !p.IsDestroyed() && p.Moving() && physics.CirclesOverlap(p.Position, p.Radius, o.Position, object.OrbRadius) {
				by = p
				break
			}
		}
		if by == nil {
			kept = append(kept, o)
			continue
		}

		power := t.OrbPower * (1 + t.OrbComboStep*float64(s.Shot.OrbHits))
		s.Shot.OrbHits++
		e.addPower(team, power)
		s.OrbPickups[team]++
		e.burst(o.Position, 8, 2, team)
		e.text(o.Position, fmt.Sprintf("+%.0f", power), team)
		e.emit(Event{Kind: EventOrbCollected, Team: team, PuckID: by.ID, Value: power, Pos: o.Position})

		if s.OrbPickups[team] >= t.OverchargePickups {
			s.OrbPickups[team] = 0
			s.Overcharged[team] = true
			e.emit(Event{Kind: EventOvercharged, Team: team})
		}
	}
	clear(s.Orbs[len(kept):])
	s.Orbs = kept
}

// detectCrossings tests the shooter's movement this tick against the shot's
// frozen line set.
func (e *Engine) detectCrossings() {
	s := e.state
	t := e.tuning
	shooter := s.Puck(s.Shot.PuckID)
	if shooter == nil || s.Lines == nil {
		return
	}

	for _, c := range s.Lines.Cross(e.shotFrom, shooter.Position) {
		power := t.CrossPower + t.comboBonus(c.Combo)
		if c.Perfect {
			power += t.PerfectPower
		}
		if c.Line.Synergy != "" {
			power += t.SynergyPower
		}
		e.addPower(shooter.Team, power)
		e.text(c.Point, fmt.Sprintf("+%.0f", power), shooter.Team)
		e.emit(Event{
			Kind:   EventLineCrossed,
			Team:   shooter.Team,
			PuckID: shooter.ID,
			Points: c.Combo,
			Value:  power,
			Pos:    c.Point,
			Text:   c.Line.Synergy,
		})

		if shooter.Spec().Ability == object.AbilityEMPOnCross {
			shooter.AddEffect(object.NewBurst(c.Point, t.BurstRadius, t.BurstStrength))
		}
	}

	if !shooter.Charged && s.Lines.Satisfied(shooter.Spec()) {
		shooter.Charged = true
		s.Shot.ChargedThisShot = true
		e.burst(shooter.Position, 12, 2.5, shooter.Team)
		e.emit(Event{Kind: EventPuckCharged, Team: shooter.Team, PuckID: shooter.ID, PuckType: shooter.Type, Pos: shooter.Position})
	}
}
