package match

import (
	"fmt"

	"github.com/tomz197/pucks/internal/object"
)

// detectGoals classifies the first puck, in id order, whose leading edge has
// crossed a goal line inside the mouth: own goal, then uncharged, then valid.
// Later entries in the same tick are ignored.
func (e *Engine) detectGoals() {
	s := e.state
	if s.Goal != nil || (s.Shot != nil && s.Shot.Foul != LossNone) {
		return
	}
	r := s.Rink
	for _, p := range s.Pucks {
		if p.IsDestroyed() || !r.InGoalMouth(p.Position.X) {
			continue
		}
		var top bool
		switch {
		case p.Position.Y-p.Radius < 0:
			top = true
		case p.Position.Y+p.Radius > r.Height:
			top = false
		default:
			continue
		}

		defender := object.Red
		if top {
			defender = object.Blue
		}
		switch {
		case p.Team == defender:
			e.foul(p, LossOwnGoal)
		case !p.Charged:
			e.foul(p, LossUnchargedGoal)
		default:
			e.score(p)
		}
		e.settled = true
		return
	}
}

// foul respawns the offending puck and records the turn loss.
func (e *Engine) foul(p *object.Puck, reason TurnLossReason) {
	s := e.state
	pos := p.Position
	p.Respawn()
	s.Shot.Foul = reason
	e.text(pos, reason.String(), p.Team)
	e.emit(Event{Kind: EventFoul, Team: p.Team, PuckID: p.ID, PuckType: p.Type, Reason: reason, Pos: pos})
}

// score records a valid goal for p's team.
func (e *Engine) score(p *object.Puck) {
	s := e.state
	s.Goal = &GoalInfo{
		Team:     p.Team,
		Points:   p.Spec().GoalValue,
		PuckID:   p.ID,
		PuckType: p.Type,
	}
	s.ScreenShake = e.tuning.ShakeTicks
	e.burst(p.Position, 40, 4, p.Team)
	e.text(p.Position, fmt.Sprintf("GOAL +%d", s.Goal.Points), p.Team)
}
