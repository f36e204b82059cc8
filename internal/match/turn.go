package match

import (
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Winner applies the win rule: the first team to reach target wins, unless both
// teams have reached target-1, in which case a lead of 2 is needed.
func Winner(score [2]int, target int) (object.Team, bool) {
	red, blue := score[object.Red], score[object.Blue]
	if red >= target-1 && blue >= target-1 {
		switch {
		case red-blue >= 2:
			return object.Red, true
		case blue-red >= 2:
			return object.Blue, true
		}
		return 0, false
	}
	switch {
	case red >= target:
		return object.Red, true
	case blue >= target:
		return object.Blue, true
	}
	return 0, false
}

// SuddenDeath reports whether the win-by-2 rule is active.
func SuddenDeath(score [2]int, target int) bool {
	return score[object.Red] >= target-1 && score[object.Blue] >= target-1
}

// settle ends the shot: velocities freeze and the turn state machine runs.
// The shot's line state stays readable until the next shot or turn change.
func (e *Engine) settle() {
	s := e.state
	for _, p := range s.Pucks {
		p.Velocity = physics.Vec{}
	}
	s.IsSimulating = false

	if s.Goal != nil {
		e.goalSequence()
	} else {
		e.resolveTurn()
	}
	s.Shot = nil
}

// goalSequence applies a valid goal. The round reset waits for CompleteGoal.
func (e *Engine) goalSequence() {
	s := e.state
	g := s.Goal
	s.Score[g.Team] += g.Points
	e.emit(Event{Kind: EventGoalScored, Team: g.Team, PuckID: g.PuckID, PuckType: g.PuckType, Points: g.Points})

	if winner, ok := Winner(s.Score, e.tuning.TargetScore); ok {
		s.Winner = winner
		s.Won = true
		s.Phase = PhaseOver
		s.CanShoot = false
		e.emit(Event{Kind: EventMatchWon, Team: winner})
		return
	}
	s.Phase = PhaseGoal
	s.GoalSeq++
}

// CompleteGoal runs the deferred half of a goal sequence: every puck returns
// to its initial position uncharged and the non-scoring team gets the turn.
// A stale seq or a changed phase makes it a no-op.
func (e *Engine) CompleteGoal(seq int) bool {
	s := e.state
	if s.Phase != PhaseGoal || s.Goal == nil || seq != s.GoalSeq {
		return false
	}
	next := s.Goal.Team.Opponent()
	s.Goal = nil
	e.resetRound()
	e.startTurn(next, LossNone)
	return true
}

// resetRound puts every live puck back in formation.
func (e *Engine) resetRound() {
	s := e.state
	for _, p := range s.Pucks {
		p.ResetForRound()
	}
	s.SpecialArmed = [2]bool{}
	s.SpecialSpent = [2]bool{}
	s.PulsarArmed = [2]bool{}
	s.Lines = nil
	s.Shot = nil
	e.recomputeTiers(false)
	e.emit(Event{Kind: EventRoundReset})
}

// resolveTurn decides between a bonus turn and passing the turn.
func (e *Engine) resolveTurn() {
	s := e.state
	shot := s.Shot
	team := shot.Team

	reason := LossNone
	switch {
	case shot.Foul != LossNone:
		reason = shot.Foul
	case shot.Special != TierNone:
		reason = LossSpecialMiss
	case !shot.ChargedThisShot:
		reason = LossNoCharge
	case s.Unfired(team) == 0:
		reason = LossAllFired
	}

	if reason == LossNone {
		s.Phase = PhaseAwaitingShot
		s.CanShoot = true
		s.TurnLoss = LossNone
		e.recomputeTiers(true)
		e.emit(Event{Kind: EventBonusTurn, Team: team, PuckID: shot.PuckID})
		return
	}
	e.startTurn(team.Opponent(), reason)
}

// startTurn hands the turn to team. It clears the fired set, spawns an orb on
// every OrbSpawnEvery-th change, ends team's own overcharge and recomputes the
// special tiers.
func (e *Engine) startTurn(team object.Team, reason TurnLossReason) {
	s := e.state
	s.Turn = team
	s.TurnLoss = reason
	s.Lines = nil
	clear(s.Fired)
	s.TurnChanges++
	if e.tuning.OrbSpawnEvery > 0 && s.TurnChanges%e.tuning.OrbSpawnEvery == 0 {
		e.spawnOrb()
	}
	s.Overcharged[team] = false
	e.recomputeTiers(true)
	s.Phase = PhaseAwaitingShot
	s.CanShoot = true
	e.emit(Event{Kind: EventTurnChanged, Team: team, Reason: reason})
}
