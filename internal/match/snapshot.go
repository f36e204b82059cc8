package match

import "github.com/tomz197/pucks/internal/object"

// PuckView is the read-only view of a puck.
type PuckView struct {
	ID         int      `msgpack:"id"`
	Team       string   `msgpack:"team"`
	Type       string   `msgpack:"type"`
	X          float64  `msgpack:"x"`
	Y          float64  `msgpack:"y"`
	Rotation   float64  `msgpack:"rot"`
	Radius     float64  `msgpack:"r"`
	Charged    bool     `msgpack:"charged"`
	Fired      bool     `msgpack:"fired"`
	Durability int      `msgpack:"dur,omitempty"`
	Effects    []string `msgpack:"fx,omitempty"`
}

// LineView is the read-only view of a charge line.
type LineView struct {
	AX      float64 `msgpack:"ax"`
	AY      float64 `msgpack:"ay"`
	BX      float64 `msgpack:"bx"`
	BY      float64 `msgpack:"by"`
	Kind    string  `msgpack:"kind"`
	Crossed bool    `msgpack:"crossed"`
	Synergy string  `msgpack:"syn,omitempty"`
}

// DotView is a particle, orb or trajectory point.
type DotView struct {
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Opacity float64 `msgpack:"o,omitempty"`
	Team    string  `msgpack:"team,omitempty"`
}

// TextView is a floating text.
type TextView struct {
	X       float64 `msgpack:"x"`
	Y       float64 `msgpack:"y"`
	Value   string  `msgpack:"v"`
	Opacity float64 `msgpack:"o"`
	Team    string  `msgpack:"team"`
}

// GoalView is the pending goal, if any.
type GoalView struct {
	Team   string `msgpack:"team"`
	Points int    `msgpack:"points"`
	Type   string `msgpack:"type"`
}

// Snapshot is a value copy of the state for observers on other goroutines.
type Snapshot struct {
	Frame       int        `msgpack:"frame"`
	Width       float64    `msgpack:"w"`
	Height      float64    `msgpack:"h"`
	GoalLeft    float64    `msgpack:"gl"`
	GoalRight   float64    `msgpack:"gr"`
	Turn        string     `msgpack:"turn"`
	Phase       string     `msgpack:"phase"`
	Score       [2]int     `msgpack:"score"`
	Pucks       []PuckView `msgpack:"pucks"`
	Orbs        []DotView  `msgpack:"orbs"`
	Particles   []DotView  `msgpack:"particles"`
	Texts       []TextView `msgpack:"texts"`
	Lines       []LineView `msgpack:"lines,omitempty"`
	Combo       int        `msgpack:"combo"`
	PulsarPower [2]float64 `msgpack:"pulsar"`
	PulsarArmed [2]bool    `msgpack:"pulsarArmed"`
	Special     [2]string  `msgpack:"special"`
	Overcharged [2]bool    `msgpack:"overcharged"`
	Goal        *GoalView  `msgpack:"goal,omitempty"`
	TurnLoss    string     `msgpack:"turnLoss,omitempty"`
	Winner      string     `msgpack:"winner,omitempty"`
	Selected    int        `msgpack:"selected"`
	Hovered     int        `msgpack:"hovered"`
	AimDrag     [2]float64 `msgpack:"aim"`
	AimPower    float64    `msgpack:"power"`
	CancelZone  bool       `msgpack:"cancel"`
	Path        []DotView  `msgpack:"path,omitempty"`
	Shake       int        `msgpack:"shake"`
}

// Snapshot copies the current state into a Snapshot.
func (e *Engine) Snapshot() Snapshot {
	s := e.state
	snap := Snapshot{
		Frame:       s.Frame,
		Width:       s.Rink.Width,
		Height:      s.Rink.Height,
		GoalLeft:    s.Rink.GoalLeft,
		GoalRight:   s.Rink.GoalRight,
		Turn:        s.Turn.String(),
		Phase:       s.Phase.String(),
		Score:       s.Score,
		PulsarPower: s.PulsarPower,
		PulsarArmed: s.PulsarArmed,
		Special:     [2]string{s.Special[0].String(), s.Special[1].String()},
		Overcharged: s.Overcharged,
		TurnLoss:    s.TurnLoss.String(),
		Selected:    s.Aim.Selected,
		Hovered:     s.Aim.Hovered,
		AimDrag:     [2]float64{s.Aim.Drag.X, s.Aim.Drag.Y},
		AimPower:    s.Aim.Power,
		CancelZone:  s.Aim.CancelZone,
		Shake:       s.ScreenShake,
	}
	if s.Won {
		snap.Winner = s.Winner.String()
	}
	if s.Goal != nil {
		snap.Goal = &GoalView{Team: s.Goal.Team.String(), Points: s.Goal.Points, Type: s.Goal.PuckType.String()}
	}

	snap.Pucks = make([]PuckView, 0, len(s.Pucks))
	for _, p := range s.Pucks {
		if p.IsDestroyed() {
			continue
		}
		v := PuckView{
			ID:       p.ID,
			Team:     p.Team.String(),
			Type:     p.Type.String(),
			X:        p.Position.X,
			Y:        p.Position.Y,
			Rotation: p.Rotation,
			Radius:   p.Radius,
			Charged:  p.Charged,
			Fired:    s.Fired[p.ID],
		}
		if p.Breakable {
			v.Durability = p.Durability
		}
		for _, fx := range p.Effects {
			v.Effects = append(v.Effects, fx.Kind.String())
		}
		snap.Pucks = append(snap.Pucks, v)
	}

	for _, o := range s.Orbs {
		snap.Orbs = append(snap.Orbs, DotView{X: o.Position.X, Y: o.Position.Y})
	}
	for _, p := range s.Particles {
		snap.Particles = append(snap.Particles, DotView{X: p.Position.X, Y: p.Position.Y, Opacity: p.Opacity(), Team: p.Team.String()})
	}
	for _, t := range s.Texts {
		snap.Texts = append(snap.Texts, TextView{X: t.Position.X, Y: t.Position.Y, Value: t.Value, Opacity: t.Opacity(), Team: t.Team.String()})
	}

	switch {
	case s.Aim.Active:
		for _, l := range s.Aim.Lines {
			snap.Lines = append(snap.Lines, lineView(l, false))
		}
	case s.Lines != nil:
		snap.Combo = s.Lines.Combo
		for i, l := range s.Lines.Lines {
			snap.Lines = append(snap.Lines, lineView(l, s.Lines.Crossed[i]))
		}
	}
	for _, p := range s.Aim.Path {
		snap.Path = append(snap.Path, DotView{X: p.X, Y: p.Y})
	}
	return snap
}

func lineView(l object.ImaginaryLine, crossed bool) LineView {
	return LineView{
		AX:      l.A.X,
		AY:      l.A.Y,
		BX:      l.B.X,
		BY:      l.B.Y,
		Kind:    l.Kind.String(),
		Crossed: crossed,
		Synergy: l.Synergy,
	}
}
