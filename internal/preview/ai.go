package preview

import (
	"math"

	"github.com/tomz197/pucks/internal/charge"
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// ShotKind labels the intent of a candidate shot.
type ShotKind int

const (
	ShotDefend ShotKind = iota // Knock a threatening enemy puck away from our goal
	ShotAttack                 // Drive a charged puck at the opposing goal
	ShotCharge                 // Cross charge lines
)

func (k ShotKind) String() string {
	switch k {
	case ShotDefend:
		return "defend"
	case ShotAttack:
		return "attack"
	default:
		return "charge"
	}
}

// Shot is a candidate shot with its evaluated score.
type Shot struct {
	PuckID int
	Drag   physics.Vec
	Kind   ShotKind
	Score  float64
}

// Evaluation weights.
const (
	goalReward     = 100.0
	ownGoalPenalty = 200.0
	foulPenalty    = 60.0
	concedePenalty = 150.0
	chargeReward   = 45.0
	crossReward    = 6.0
	threatReward   = 0.15
	threatRadius   = 450.0 // Enemy charged pucks closer than this to our goal are threats
	previewFrames  = MaxFrames
	chargePower    = 0.7
	fallbackPower  = 0.5
)

var attackPowers = []float64{0.6, 0.8, 1}

// ChooseShot picks the best candidate shot for team, or false if the team
// cannot shoot. Candidates: defend against the nearest threatening charged
// enemy, attack with charged pucks (King first), and charge attempts through
// each puck's nearest uncrossed line.
func ChooseShot(s *match.GameState, team object.Team, t match.Tuning) (Shot, bool) {
	if s.Turn != team || s.Phase != match.PhaseAwaitingShot || !s.CanShoot || s.IsSimulating {
		return Shot{}, false
	}

	var ready []*object.Puck
	for _, p := range s.TeamPucks(team) {
		if s.CanFire(p.ID) {
			ready = append(ready, p)
		}
	}
	if len(ready) == 0 {
		return Shot{}, false
	}

	var candidates []Shot
	candidates = append(candidates, defendShots(s, team, ready, t)...)
	candidates = append(candidates, attackShots(s, team, ready, t)...)
	candidates = append(candidates, chargeShots(s, ready, t)...)
	if len(candidates) == 0 {
		goal := match.AttackGoal(team, s.Rink)
		p := ready[0]
		candidates = append(candidates, Shot{PuckID: p.ID, Drag: aim(p.Position, goal, fallbackPower, t), Kind: ShotCharge})
	}

	best := Shot{Score: math.Inf(-1)}
	for _, c := range candidates {
		c.Score = evaluate(s, team, c, t)
		if c.Score > best.Score {
			best = c
		}
	}
	return best, true
}

// aim returns the drag vector that shoots from towards to at power.
func aim(from, to physics.Vec, power float64, t match.Tuning) physics.Vec {
	return to.Sub(from).Normalize().Scale(power * t.MaxDrag)
}

func defendShots(s *match.GameState, team object.Team, ready []*object.Puck, t match.Tuning) []Shot {
	own := match.OwnGoal(team, s.Rink)
	var threat *object.Puck
	best := threatRadius
	for _, p := range s.TeamPucks(team.Opponent()) {
		if !p.Charged {
			continue
		}
		if d := physics.Distance(p.Position, own); d < best {
			best, threat = d, p
		}
	}
	if threat == nil {
		return nil
	}

	var out []Shot
	for _, p := range ready {
		out = append(out, Shot{PuckID: p.ID, Drag: aim(p.Position, threat.Position, 1, t), Kind: ShotDefend})
	}
	return out
}

func attackShots(s *match.GameState, team object.Team, ready []*object.Puck, t match.Tuning) []Shot {
	goal := match.AttackGoal(team, s.Rink)
	var out []Shot
	for _, p := range ready {
		if !p.Charged {
			continue
		}
		for _, power := range attackPowers {
			out = append(out, Shot{PuckID: p.ID, Drag: aim(p.Position, goal, power, t), Kind: ShotAttack})
		}
	}
	return out
}

func chargeShots(s *match.GameState, ready []*object.Puck, t match.Tuning) []Shot {
	var out []Shot
	for _, p := range ready {
		ls := charge.NewLineState(p, s.Pucks, t.CellSize, t.PerfectRatio)
		l, ok := ls.ClosestUncrossed(p.Position)
		if !ok {
			continue
		}
		out = append(out, Shot{PuckID: p.ID, Drag: aim(p.Position, l.Midpoint(), chargePower, t), Kind: ShotCharge})
	}
	return out
}

// evaluate simulates c and scores the outcome for team.
func evaluate(s *match.GameState, team object.Team, c Shot, t match.Tuning) float64 {
	p := s.Puck(c.PuckID)
	if p == nil {
		return math.Inf(-1)
	}
	vel := match.LaunchVelocity(p, c.Drag, t, false, match.TierNone)
	res := Simulate(s, p.ID, vel, previewFrames, t)

	score := 0.0
	for _, g := range res.Goals {
		q := s.Puck(g.PuckID)
		if q == nil {
			continue
		}
		defender := object.Red
		if g.Top {
			defender = object.Blue
		}
		switch {
		case q.Team == defender && q.Team == team:
			score -= ownGoalPenalty
		case q.Team == defender:
			score -= foulPenalty / 2
		case !q.Charged && q.Team == team:
			score -= foulPenalty
		case q.Team == team:
			score += goalReward * float64(q.Spec().GoalValue)
		case q.Charged:
			score -= concedePenalty
		}
	}

	// Charge progress along the shooter's path.
	if !p.Charged {
		ls := charge.NewLineState(p, s.Pucks, t.CellSize, t.PerfectRatio)
		ls.Confirm()
		from := p.Position
		for _, to := range res.Path {
			ls.Cross(from, to)
			from = to
		}
		score += crossReward * float64(ls.CrossedCount())
		if ls.Satisfied(p.Spec()) {
			score += chargeReward
		}
	}

	// Threats pushed away from our goal.
	own := match.OwnGoal(team, s.Rink)
	for _, q := range s.TeamPucks(team.Opponent()) {
		if !q.Charged || !res.Moved[q.ID] {
			continue
		}
		before := physics.Distance(q.Position, own)
		after := physics.Distance(res.Final[q.ID], own)
		score += threatReward * (after - before)
	}
	return score
}
