package input

import (
	"github.com/tomz197/pucks/internal/charge"
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
	"github.com/tomz197/pucks/internal/preview"
)

// CancelDistance is the drag length below which releasing cancels the shot.
const CancelDistance = 30.0

// Engine is the part of the match engine the controller drives.
type Engine interface {
	State() *match.GameState
	Tuning() match.Tuning
	Shoot(id int, drag physics.Vec) bool
	SetAim(aim match.Aim)
}

// Controller translates pointer gestures in rink coordinates into shots.
// It must be used from the goroutine that owns the engine.
type Controller struct {
	engine    Engine
	team      object.Team // Team the pointer plays for
	dragStart physics.Vec
	showPath  bool
}

// NewController creates a controller acting for team.
func NewController(engine Engine, team object.Team) *Controller {
	return &Controller{engine: engine, team: team, showPath: true}
}

// TogglePath switches the predicted trajectory in the aim state on or off
// and reports the new setting.
func (c *Controller) TogglePath() bool {
	c.showPath = !c.showPath
	return c.showPath
}

// PointerDown selects the pointer's puck if it may be shot now.
func (c *Controller) PointerDown(pos physics.Vec) bool {
	s := c.engine.State()
	if s.Turn != c.team {
		return false
	}
	p := puckAt(s, pos)
	if p == nil || !s.CanFire(p.ID) {
		return false
	}

	c.dragStart = pos
	c.engine.SetAim(match.Aim{
		Selected:   p.ID,
		Hovered:    p.ID,
		Active:     true,
		CancelZone: true,
		Lines:      charge.ComputeLines(p, s.Pucks),
	})
	return true
}

// PointerMove updates the shot preview while dragging, or the hovered puck
// otherwise.
func (c *Controller) PointerMove(pos physics.Vec) {
	s := c.engine.State()
	aim := s.Aim
	if !aim.Active {
		aim.Hovered = match.NoPuck
		if p := puckAt(s, pos); p != nil {
			aim.Hovered = p.ID
		}
		c.engine.SetAim(aim)
		return
	}

	p := s.Puck(aim.Selected)
	if p == nil || !s.CanFire(p.ID) {
		c.Cancel()
		return
	}

	t := c.engine.Tuning()
	drag := c.dragStart.Sub(pos)
	if l := drag.Len(); l > t.MaxDrag {
		drag = drag.Scale(t.MaxDrag / l)
	}
	aim.Drag = drag
	aim.Power = match.DragPower(drag, t)
	aim.CancelZone = drag.Len() < CancelDistance
	aim.Path = nil
	if c.showPath && !aim.CancelZone {
		tier := match.TierNone
		if s.SpecialArmed[p.Team] && p.Class() == object.ClassKing {
			tier = s.Special[p.Team]
		}
		vel := match.LaunchVelocity(p, drag, t, s.PulsarArmed[p.Team], tier)
		aim.Path = preview.Trajectory(s, p.ID, vel, preview.MaxFrames, t)
	}
	c.engine.SetAim(aim)
}

// PointerUp fires the selected puck unless the drag ended in the cancel zone.
func (c *Controller) PointerUp(pos physics.Vec) bool {
	s := c.engine.State()
	if !s.Aim.Active {
		return false
	}
	c.PointerMove(pos)
	aim := c.engine.State().Aim
	if !aim.Active || aim.CancelZone || aim.Drag.Len() < c.engine.Tuning().MinDrag {
		c.Cancel()
		return false
	}
	if !c.engine.Shoot(aim.Selected, aim.Drag) {
		c.Cancel()
		return false
	}
	return true
}

// Cancel drops the current gesture.
func (c *Controller) Cancel() {
	hovered := c.engine.State().Aim.Hovered
	c.engine.SetAim(match.Aim{Selected: match.NoPuck, Hovered: hovered})
}

// puckAt returns the live puck under pos, preferring the closest.
func puckAt(s *match.GameState, pos physics.Vec) *object.Puck {
	var best *object.Puck
	bestDist := 0.0
	for _, p := range s.Pucks {
		if p.IsDestroyed() {
			continue
		}
		if !physics.PointInCircle(pos, p.Position, p.Radius) {
			continue
		}
		if d := physics.DistanceSquared(pos, p.Position); best == nil || d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}
