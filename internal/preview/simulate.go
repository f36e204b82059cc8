// Package preview runs detached, reduced-fidelity simulations of candidate
// shots for aim assistance and the computer opponent.
//
// It uses the same wall and collision formulas as the match engine but checks
// every pair directly and ignores charge lines, effects and scoring.
package preview

import (
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Frame budget of a preview simulation.
const (
	MinFrames = 45
	MaxFrames = 120
)

// GoalEntry records a puck crossing a goal line during a preview.
type GoalEntry struct {
	PuckID int
	Top    bool
}

// Result is the outcome of a preview simulation.
type Result struct {
	Path  []physics.Vec       // Shooter positions, one per frame
	Final map[int]physics.Vec // Resting (or last) position of every puck
	Goals []GoalEntry         // In order of entry
	Moved map[int]bool        // Pucks set in motion
}

type body struct {
	puck     *object.Puck
	disc     physics.Disc
	friction float64
	swerve   float64
	gone     bool // Entered a goal
}

// Simulate clones the live pucks of s, launches puck id with vel and runs at
// most frames frames (clamped to MinFrames..MaxFrames).
func Simulate(s *match.GameState, id int, vel physics.Vec, frames int, t match.Tuning) Result {
	frames = max(MinFrames, min(frames, MaxFrames))
	bodies := make([]*body, 0, len(s.Pucks))
	var shooter *body
	for _, p := range s.Pucks {
		if p.IsDestroyed() {
			continue
		}
		b := &body{puck: p, disc: p.Disc(), friction: p.Friction, swerve: p.Swerve}
		if p.ID == id {
			b.disc.Vel = vel
			shooter = b
		}
		bodies = append(bodies, b)
	}

	res := Result{
		Final: make(map[int]physics.Vec, len(bodies)),
		Moved: make(map[int]bool),
	}
	if shooter == nil {
		return res
	}
	res.Path = make([]physics.Vec, 0, frames)

	for range frames {
		more := step(bodies, s.Rink, t, &res)
		res.Path = append(res.Path, shooter.disc.Pos)
		if !more {
			break
		}
	}
	for _, b := range bodies {
		res.Final[b.puck.ID] = b.disc.Pos
	}
	return res
}

// Trajectory returns the predicted path of puck id launched with vel.
func Trajectory(s *match.GameState, id int, vel physics.Vec, frames int, t match.Tuning) []physics.Vec {
	return Simulate(s, id, vel, frames, t).Path
}

// step advances every body one frame. Returns false once nothing moves.
func step(bodies []*body, rink physics.Rink, t match.Tuning, res *Result) bool {
	moving := false
	for _, b := range bodies {
		if b.gone || b.disc.Vel.IsZero() {
			continue
		}
		res.Moved[b.puck.ID] = true
		if b.swerve != 0 {
			b.disc.Vel = b.disc.Vel.Add(b.disc.Vel.Perp().Scale(b.swerve))
		}
		if physics.Integrate(&b.disc, b.friction, t.StopSpeed) > 0 {
			moving = true
		}
		physics.ReflectWalls(&b.disc, rink)

		if rink.InGoalMouth(b.disc.Pos.X) {
			top := b.disc.Pos.Y-b.disc.Radius < 0
			if top || b.disc.Pos.Y+b.disc.Radius > rink.Height {
				b.gone = true
				b.disc.Vel = physics.Vec{}
				res.Goals = append(res.Goals, GoalEntry{PuckID: b.puck.ID, Top: top})
			}
		}
	}

	for i, a := range bodies {
		if a.gone {
			continue
		}
		for _, b := range bodies[i+1:] {
			if b.gone {
				continue
			}
			if _, ok := physics.Collide(&a.disc, &b.disc); ok && !b.disc.Vel.IsZero() {
				moving = true
			}
		}
	}
	return moving
}
