package loop

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/draw"
	"github.com/tomz197/pucks/internal/input"
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// SessionOptions configures a terminal session.
type SessionOptions struct {
	Team         object.Team // Team the pointer plays for
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Commentary   <-chan string // Optional commentary lines
	Logger       *log.Logger
}

// Session renders one runner's snapshots to a terminal and feeds pointer and
// key input back into the match.
type Session struct {
	runner       *Runner
	controller   *input.Controller
	team         object.Team
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	commentary   <-chan string
	logger       *log.Logger
	username     string
	pulsarMax    float64

	running     bool
	lastInput   time.Time
	isInactive  bool
	wasInactive bool
	prevPhase   string
	lines       []string // Latest commentary, newest last
}

// NewSession creates a session playing team on runner.
func NewSession(runner *Runner, r *bufio.Reader, w io.Writer, opts SessionOptions) *Session {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	snap := runner.Snapshot()
	termWidth, termHeight, _ := termSizeFunc()
	l := fitRink(termWidth, termHeight, snap.Width, snap.Height)
	canvas := draw.NewScaledCanvas(l.width, l.height, snap.Width, snap.Height)
	canvas.SetOffset(l.offsetCol, l.offsetRow)

	return &Session{
		runner:       runner,
		controller:   input.NewController(runner.engine, opts.Team),
		team:         opts.Team,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, l.offsetCol, l.offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
		commentary:   opts.Commentary,
		logger:       logger.With("user", opts.Username),
		username:     opts.Username,
		pulsarMax:    runner.engine.Tuning().PulsarMax,
		running:      true,
		lastInput:    time.Now(),
	}
}

// Run draws frames until the player quits, the runner stops or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	draw.EnterGame(s.writer)
	defer draw.LeaveGame(s.writer)

	for s.running {
		frameStart := time.Now()

		select {
		case <-ctx.Done():
			s.running = false
		case <-s.runner.Done():
			s.running = false
		default:
		}

		s.processInput()
		s.processCommentary()
		s.updateScreen()

		if err := s.drawFrame(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < ClientTargetFrameTime {
			time.Sleep(ClientTargetFrameTime - elapsed)
		}
	}
	return nil
}

// processInput forwards pointer gestures and key commands to the match.
func (s *Session) processInput() {
	in := input.ReadInput(s.inputStream)

	if len(in.Pressed) > 0 || len(in.Mouse) > 0 {
		s.lastInput = time.Now()
		s.isInactive = false
	} else if time.Since(s.lastInput).Seconds() > InactivityDisconnectUser {
		s.logger.Info("disconnecting inactive player")
		s.running = false
	} else if time.Since(s.lastInput).Seconds() > InactivityWarnUser {
		s.isInactive = true
	}

	if in.Quit {
		s.running = false
		return
	}

	team, ctrl := s.team, s.controller
	for _, ev := range in.Mouse {
		p := s.canvas.TerminalToLogical(ev.Col, ev.Row)
		pos := physics.V(p.X, p.Y)
		switch ev.Action {
		case input.MousePress:
			s.runner.Do(func(*match.Engine) { ctrl.PointerDown(pos) })
		case input.MouseDrag, input.MouseMove:
			s.runner.Do(func(*match.Engine) { ctrl.PointerMove(pos) })
		case input.MouseRelease:
			s.runner.Do(func(*match.Engine) { ctrl.PointerUp(pos) })
		}
	}
	if in.Escape {
		s.runner.Do(func(*match.Engine) { ctrl.Cancel() })
	}
	if in.Pulsar {
		s.runner.Do(func(e *match.Engine) { e.ArmPulsar(team) })
	}
	if in.Special {
		s.runner.Do(func(e *match.Engine) { e.ArmSpecial(team) })
	}
	if in.TogglePath {
		s.runner.Do(func(*match.Engine) { ctrl.TogglePath() })
	}
}

// processCommentary keeps the last few commentary lines.
func (s *Session) processCommentary() {
	if s.commentary == nil {
		return
	}
	for {
		select {
		case line, ok := <-s.commentary:
			if !ok {
				s.commentary = nil
				return
			}
			s.lines = append(s.lines, line)
			if len(s.lines) > commentaryLines {
				s.lines = s.lines[len(s.lines)-commentaryLines:]
			}
		default:
			return
		}
	}
}

const commentaryLines = 3

// updateScreen handles terminal resize, keeping the rink's aspect ratio.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (s *Session) updateScreen() {
	termWidth, termHeight, err := s.termSizeFunc()
	if err != nil {
		return
	}
	l := fitRink(termWidth, termHeight, s.canvas.LogicalWidth(), s.canvas.LogicalHeight())

	if l.width != s.canvas.TerminalWidth() || l.height != s.canvas.TerminalHeight() ||
		l.offsetCol != s.canvas.OffsetCol() || l.offsetRow != s.canvas.OffsetRow() {
		s.chunkWriter.Clear()
		s.canvas.ForceRedraw()
	}

	s.canvas.Resize(l.width, l.height)
	s.canvas.SetOffset(l.offsetCol, l.offsetRow)
	s.chunkWriter.SetOffset(l.offsetCol, l.offsetRow)
}

// layout is the render area of the rink inside the terminal.
type layout struct {
	width, height        int
	offsetCol, offsetRow int
}

// fitRink sizes the canvas so rink pixels stay square, leaving HUDWidth
// columns on the right, and centres the whole block in the terminal.
func fitRink(termWidth, termHeight int, rinkWidth, rinkHeight float64) layout {
	availW := min(termWidth, MaxTermWidth) - HUDWidth
	availH := min(termHeight, MaxTermHeight)
	if availW < 1 || availH < 1 || rinkWidth <= 0 || rinkHeight <= 0 {
		return layout{width: max(availW, 1), height: max(availH, 1)}
	}

	// Half-block cells are one pixel wide and two tall.
	height := availH
	width := int(float64(height*2) * rinkWidth / rinkHeight)
	if width > availW {
		width = availW
		height = int(float64(width) * rinkHeight / (2 * rinkWidth))
	}
	width, height = max(width, 1), max(height, 1)

	return layout{
		width:     width,
		height:    height,
		offsetCol: max((termWidth-width-HUDWidth)/2, 0),
		offsetRow: max((termHeight-height)/2, 0),
	}
}

// drawFrame draws the current frame.
func (s *Session) drawFrame() error {
	snap := s.runner.Snapshot()

	// On phase or inactivity transitions, do a full terminal clear
	// so overlays from the previous state don't persist on screen.
	if snap.Phase != s.prevPhase || s.isInactive != s.wasInactive {
		s.chunkWriter.Clear()
		s.canvas.ForceRedraw()
		s.prevPhase = snap.Phase
		s.wasInactive = s.isInactive
	}

	if s.isInactive {
		s.drawInactivityScreen()
		return s.chunkWriter.Flush()
	}

	s.canvas.Clear()
	draw.DrawRink(s.canvas, snap)
	s.canvas.Render(s.chunkWriter)
	s.canvas.RenderBorder(s.chunkWriter)
	draw.DrawLabels(s.canvas, s.chunkWriter, snap)

	s.drawHUD(snap)
	s.drawBanner(snap)

	return s.chunkWriter.Flush()
}

// drawHUD draws the side panel. Text fields use fixed-width formatting so
// shrinking values don't leave residual characters on screen.
func (s *Session) drawHUD(snap *match.Snapshot) {
	cw := s.chunkWriter
	col := s.canvas.TerminalWidth() + 3
	row := 1
	line := func(c draw.Color, format string, args ...any) {
		text := fmt.Sprintf(format, args...)
		if len(text) < HUDWidth-3 {
			text += strings.Repeat(" ", HUDWidth-3-len(text))
		}
		cw.WriteStyled(col, row, c, text)
		row++
	}

	own := int(s.team)
	line(draw.ColorWhite, "PUCKS")
	row++
	line(draw.ColorWhite, "RED %d : %d BLUE", snap.Score[object.Red], snap.Score[object.Blue])
	if s.username != "" {
		line(draw.ColorGray, "Player %s", truncate(s.username, 16))
	}
	line(draw.ColorGray, "You are %s", s.team)
	row++
	turnColor := teamColor(snap.Turn)
	line(turnColor, "Turn  %s", snap.Turn)
	line(draw.ColorGray, "%s", phaseLabel(snap.Phase))
	line(draw.ColorGold, "Combo %d", snap.Combo)
	row++

	pulsar := fmt.Sprintf("Pulsar %s", bar(snap.PulsarPower[own]/s.pulsarMax, 10))
	if snap.PulsarArmed[own] {
		pulsar += " ARMED"
	}
	line(draw.ColorCyan, "%s", pulsar)
	line(draw.ColorMagenta, "Special %s", snap.Special[own])
	if snap.Overcharged[own] {
		line(draw.ColorOrange, "OVERCHARGED")
	} else {
		line(draw.ColorNone, "")
	}
	if snap.Selected >= 0 {
		label := bar(snap.AimPower, 10)
		if snap.CancelZone {
			label = "cancel"
		}
		line(draw.ColorWhite, "Power  %s", label)
	} else {
		line(draw.ColorNone, "")
	}
	if snap.TurnLoss != "" && snap.TurnLoss != "NONE" {
		line(draw.ColorRed, "Lost turn: %s", snap.TurnLoss)
	} else {
		line(draw.ColorNone, "")
	}
	row++

	for i := 0; i < commentaryLines; i++ {
		text := ""
		if i < len(s.lines) {
			text = truncate(s.lines[i], HUDWidth-3)
		}
		line(draw.ColorGray, "%s", text)
	}
	row++

	for _, help := range []string{"drag a puck to aim", "p pulsar  s special", "v path  esc cancel", "q quit"} {
		line(draw.ColorDim, "%s", help)
	}
}

// drawBanner draws goal and match-over messages over the rink.
func (s *Session) drawBanner(snap *match.Snapshot) {
	var msg string
	c := draw.ColorGold
	switch {
	case snap.Winner != "":
		msg = fmt.Sprintf(" %s WINS  press q to leave ", snap.Winner)
		c = teamColor(snap.Winner)
	case snap.Goal != nil:
		msg = fmt.Sprintf(" GOAL  %s +%d (%s) ", snap.Goal.Team, snap.Goal.Points, snap.Goal.Type)
		c = teamColor(snap.Goal.Team)
	default:
		return
	}
	col := s.canvas.TerminalWidth()/2 - len(msg)/2 + 1
	row := s.canvas.TerminalHeight() / 2
	s.chunkWriter.WriteStyled(col, row, c, msg)
	s.canvas.MarkTextDirty(col, row, len(msg))
}

// drawInactivityScreen draws the inactivity warning screen.
func (s *Session) drawInactivityScreen() {
	cw := s.chunkWriter
	centerX := s.canvas.TerminalWidth() / 2
	centerY := s.canvas.TerminalHeight() / 2

	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-2, title)

	msg := fmt.Sprintf("Disconnecting in %d seconds.",
		int(InactivityDisconnectUser-time.Since(s.lastInput).Seconds()))
	cw.WriteAt(centerX-len(msg)/2, centerY, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+2, hint)
}

func teamColor(team string) draw.Color {
	switch team {
	case object.Red.String():
		return draw.ColorRed
	case object.Blue.String():
		return draw.ColorBlue
	default:
		return draw.ColorWhite
	}
}

func phaseLabel(phase string) string {
	switch phase {
	case "AWAITING_SHOT":
		return "Take your shot"
	case "SIMULATING":
		return "Pucks moving"
	case "GOAL_SEQUENCE":
		return "Goal!"
	default:
		return "Match over"
	}
}

// bar renders v in [0,1] as a fixed-width gauge.
func bar(v float64, width int) string {
	filled := int(min(max(v, 0), 1)*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", width-filled) + "]"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
