package draw

import (
	"math"

	"github.com/tomz197/pucks/internal/match"
)

// Team colors keyed by the team name used in snapshots.
func teamColor(team string, bright bool) Color {
	switch {
	case team == "RED" && bright:
		return ColorRed
	case team == "RED":
		return ColorRedDim
	case team == "BLUE" && bright:
		return ColorBlue
	case team == "BLUE":
		return ColorBlueDim
	default:
		return ColorGray
	}
}

// shakeOffset jitters the scene while the screen shake counter runs.
func shakeOffset(snap *match.Snapshot) Point {
	if snap.Shake <= 0 {
		return Point{}
	}
	amp := float64(min(snap.Shake, 10))
	switch snap.Frame % 4 {
	case 0:
		return Point{X: amp}
	case 1:
		return Point{Y: -amp}
	case 2:
		return Point{X: -amp}
	default:
		return Point{Y: amp}
	}
}

// DrawRink paints the rink, charge lines, orbs, particles, the aim path and
// the pucks of snap onto a canvas whose logical size is the rink size.
func DrawRink(c *Canvas, snap *match.Snapshot) {
	off := shakeOffset(snap)
	at := func(x, y float64) Point { return Point{X: x + off.X, Y: y + off.Y} }

	w, h := snap.Width, snap.Height
	gl, gr := snap.GoalLeft, snap.GoalRight
	c.DrawLine(at(0, 0), at(gl, 0), ColorGray)
	c.DrawLine(at(gr, 0), at(w, 0), ColorGray)
	c.DrawLine(at(0, h), at(gl, h), ColorGray)
	c.DrawLine(at(gr, h), at(w, h), ColorGray)
	c.DrawLine(at(0, 0), at(0, h), ColorGray)
	c.DrawLine(at(w, 0), at(w, h), ColorGray)
	c.DrawDashedLine(at(0, h/2), at(w, h/2), ColorDim, 2, 3)
	c.DrawLine(at(gl, 0), at(gr, 0), teamColor("BLUE", true))
	c.DrawLine(at(gl, h), at(gr, h), teamColor("RED", true))

	for _, l := range snap.Lines {
		switch {
		case l.Crossed:
			c.DrawLine(at(l.AX, l.AY), at(l.BX, l.BY), ColorGold)
		case l.Synergy != "":
			c.DrawDashedLine(at(l.AX, l.AY), at(l.BX, l.BY), ColorGreen, 3, 2)
		default:
			c.DrawDashedLine(at(l.AX, l.AY), at(l.BX, l.BY), ColorGray, 2, 2)
		}
	}

	for _, o := range snap.Orbs {
		c.FillCircle(at(o.X, o.Y), orbRadius, ColorCyan)
	}

	for _, p := range snap.Particles {
		if p.Opacity < 0.2 {
			continue
		}
		c.Set(at(p.X, p.Y), teamColor(p.Team, p.Opacity > 0.5))
	}

	if !snap.CancelZone {
		for i, p := range snap.Path {
			if i%3 == 0 {
				c.Set(at(p.X, p.Y), ColorWhite)
			}
		}
	}

	for _, p := range snap.Pucks {
		center := at(p.X, p.Y)
		fill := teamColor(p.Team, false)
		if p.Charged {
			fill = teamColor(p.Team, true)
		}
		c.FillCircle(center, p.Radius, fill)

		ring := teamColor(p.Team, true)
		switch {
		case len(p.Effects) > 0:
			ring = ColorMagenta
		case p.Fired:
			ring = ColorGray
		case p.Type == "KING":
			ring = ColorGold
		}
		c.DrawCircle(center, p.Radius, ring)

		switch p.ID {
		case snap.Selected:
			c.DrawCircle(center, p.Radius+8, ColorGold)
		case snap.Hovered:
			c.DrawCircle(center, p.Radius+6, ColorWhite)
		}
		if p.ID == snap.Selected && !snap.CancelZone {
			drawAimArrow(c, center, p.Radius, snap.AimDrag, snap.AimPower)
		}
	}
}

// drawAimArrow draws a filled arrowhead in front of the aimed puck pointing
// along the launch direction. It grows with power.
func drawAimArrow(c *Canvas, center Point, radius float64, drag [2]float64, power float64) {
	length := math.Hypot(drag[0], drag[1])
	if length == 0 {
		return
	}
	dx, dy := drag[0]/length, drag[1]/length
	size := 18 + 30*power
	base := radius + 12
	tip := Point{X: center.X + dx*(base+size), Y: center.Y + dy*(base+size)}
	back := Point{X: center.X + dx*base, Y: center.Y + dy*base}
	half := size * 0.5
	c.DrawPolygon([]Point{
		tip,
		{X: back.X - dy*half, Y: back.Y + dx*half},
		{X: back.X + dy*half, Y: back.Y - dx*half},
	}, true, ColorGold)
}

const orbRadius = 14.0

// DrawLabels writes the per-puck type letters and the floating texts of snap
// at the canvas positions of the objects they belong to.
func DrawLabels(c *Canvas, cw *ChunkWriter, snap *match.Snapshot) {
	for _, p := range snap.Pucks {
		if p.Type == "" {
			continue
		}
		col, row := c.LogicalToTerminal(p.X, p.Y)
		if col < 1 || row < 1 || col > c.TerminalWidth() || row > c.TerminalHeight() {
			continue
		}
		label := p.Type[:1]
		if p.Durability > 0 && p.Type == "PAWN" {
			label = string(rune('0' + min(p.Durability, 9)))
		}
		cw.WriteStyled(col, row, ColorWhite, label)
		c.MarkTextDirty(col, row, 1)
	}
	for _, t := range snap.Texts {
		if t.Opacity < 0.3 {
			continue
		}
		col, row := c.LogicalToTerminal(t.X, t.Y)
		col -= len(t.Value) / 2
		if col < 1 || row < 1 || row > c.TerminalHeight() || col+len(t.Value) > c.TerminalWidth()+1 {
			continue
		}
		cw.WriteStyled(col, row, teamColor(t.Team, true), t.Value)
		c.MarkTextDirty(col, row, len(t.Value))
	}
}
