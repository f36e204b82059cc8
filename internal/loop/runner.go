// Package loop schedules a match: the physics and ambient loops, the goal
// presentation timer, the AI opponent and the per-session terminal client.
package loop

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/preview"
)

// EventSink receives the events drained after each engine step. It runs on
// the match goroutine and must not block.
type EventSink interface {
	HandleEvents(events []match.Event)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(events []match.Event)

// HandleEvents calls f.
func (f EventSinkFunc) HandleEvents(events []match.Event) { f(events) }

// SoundSink turns events into sound requests.
type SoundSink match.SoundFunc

// HandleEvents plays the sound of every event that has one.
func (f SoundSink) HandleEvents(events []match.Event) {
	for _, ev := range events {
		if name, opts, ok := match.SoundFor(ev); ok {
			f(name, opts)
		}
	}
}

// Command runs on the match goroutine between ticks.
type Command func(e *match.Engine)

// Options configures a Runner.
type Options struct {
	AI     [2]bool // Teams played by the computer
	Sinks  []EventSink
	Logger *log.Logger
}

// Runner owns one engine and drives it from a single goroutine.
type Runner struct {
	engine   *match.Engine
	cmds     chan Command
	done     chan struct{}
	snapshot atomic.Pointer[match.Snapshot]

	ai     [2]bool
	aiWait int
	sinks  []EventSink
	logger *log.Logger

	goalTimer *time.Timer
	goalSeq   int // Goal sequence the timer was armed for
}

// NewRunner creates a runner for engine. Run must be called to start it.
func NewRunner(engine *match.Engine, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	r := &Runner{
		engine: engine,
		cmds:   make(chan Command, commandBuffer),
		done:   make(chan struct{}),
		ai:     opts.AI,
		sinks:  opts.Sinks,
		logger: logger,
	}
	r.publish()
	return r
}

// AddSink registers another event sink. Only valid before Run.
func (r *Runner) AddSink(s EventSink) {
	r.sinks = append(r.sinks, s)
}

// Snapshot returns the state published after the last step.
func (r *Runner) Snapshot() *match.Snapshot {
	return r.snapshot.Load()
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

// Do queues cmd for the match goroutine. It returns false once the runner
// has stopped.
func (r *Runner) Do(cmd Command) bool {
	select {
	case r.cmds <- cmd:
		return true
	case <-r.done:
		return false
	}
}

// Run drives the match until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	defer close(r.done)
	defer r.stopGoalTimer()

	period := r.period()
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	r.logger.Info("match started", "turn", r.engine.State().Turn)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("match stopped", "frame", r.engine.State().Frame)
			return
		case cmd := <-r.cmds:
			cmd(r.engine)
		case <-ticker.C:
			r.step()
		}
		r.flush()

		if want := r.period(); want != period {
			period = want
			ticker.Reset(period)
		}
	}
}

// period picks the physics rate while a shot is in flight and the ambient
// rate otherwise.
func (r *Runner) period() time.Duration {
	if r.engine.State().IsSimulating {
		return PhysicsPeriod
	}
	return AmbientPeriod
}

func (r *Runner) step() {
	s := r.engine.State()
	if s.IsSimulating {
		r.engine.Tick()
		return
	}
	r.engine.Ambient()
	r.think()
}

// think lets an AI team shoot once the state has been idle long enough.
func (r *Runner) think() {
	s := r.engine.State()
	if s.Phase != match.PhaseAwaitingShot || !r.ai[s.Turn] {
		r.aiWait = 0
		return
	}
	r.aiWait++
	if r.aiWait < AIThinkTicks {
		return
	}
	r.aiWait = 0

	team := s.Turn
	t := r.engine.Tuning()
	if s.PulsarPower[team] >= t.PulsarMax {
		r.engine.ArmPulsar(team)
	}
	shot, ok := preview.ChooseShot(s, team, t)
	if !ok {
		r.logger.Warn("ai found no shot", "team", team)
		return
	}
	if p := s.Puck(shot.PuckID); p != nil && p.Class() == object.ClassKing && shot.Kind == preview.ShotAttack {
		r.engine.ArmSpecial(team)
	}
	if !r.engine.Shoot(shot.PuckID, shot.Drag) {
		r.logger.Warn("ai shot rejected", "team", team, "puck", shot.PuckID, "kind", shot.Kind)
		return
	}
	r.logger.Debug("ai shot", "team", team, "puck", shot.PuckID, "kind", shot.Kind, "score", shot.Score)
}

// flush hands drained events to the sinks, arms the goal timer and
// publishes a fresh snapshot.
func (r *Runner) flush() {
	if events := r.engine.Drain(); len(events) > 0 {
		for _, ev := range events {
			switch ev.Kind {
			case match.EventGoalScored, match.EventMatchWon, match.EventFoul:
				r.logger.Info(ev.Kind.String(), "team", ev.Team, "puck", ev.PuckID, "points", ev.Points, "reason", ev.Reason)
			}
		}
		for _, sink := range r.sinks {
			sink.HandleEvents(events)
		}
	}

	s := r.engine.State()
	if s.Phase == match.PhaseGoal && s.GoalSeq != r.goalSeq {
		r.armGoalTimer(s.GoalSeq, r.engine.Tuning().GoalDelay)
	}
	r.publish()
}

// armGoalTimer schedules the end of goal sequence seq. The engine ignores the
// callback if the sequence is stale by the time it runs.
func (r *Runner) armGoalTimer(seq int, delay time.Duration) {
	r.stopGoalTimer()
	r.goalSeq = seq
	r.goalTimer = time.AfterFunc(delay, func() {
		r.Do(func(e *match.Engine) {
			if !e.CompleteGoal(seq) {
				r.logger.Debug("stale goal timer", "seq", seq)
			}
		})
	})
}

func (r *Runner) stopGoalTimer() {
	if r.goalTimer != nil {
		r.goalTimer.Stop()
		r.goalTimer = nil
	}
}

func (r *Runner) publish() {
	snap := r.engine.Snapshot()
	r.snapshot.Store(&snap)
}
