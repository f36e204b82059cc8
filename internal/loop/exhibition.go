package loop

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/match"
)

// RestartDelay is how long a finished exhibition match stays on screen.
const RestartDelay = 8 * time.Second

// Exhibition plays computer-vs-computer matches back to back. Its snapshot
// always reflects the current match.
type Exhibition struct {
	config  MatchConfig
	sinks   []EventSink
	logger  *log.Logger
	current atomic.Pointer[Runner]
	matches atomic.Int64
}

// NewExhibition creates an exhibition whose matches start from cfg.
func NewExhibition(cfg MatchConfig, logger *log.Logger, sinks ...EventSink) *Exhibition {
	if logger == nil {
		logger = log.Default()
	}
	return &Exhibition{config: cfg, sinks: sinks, logger: logger}
}

// Snapshot returns the current match state, or nil before the first match.
func (x *Exhibition) Snapshot() *match.Snapshot {
	if r := x.current.Load(); r != nil {
		return r.Snapshot()
	}
	return nil
}

// Matches returns how many matches have been started.
func (x *Exhibition) Matches() int {
	return int(x.matches.Load())
}

// Run plays matches until ctx is cancelled or a match fails to start.
func (x *Exhibition) Run(ctx context.Context) error {
	for {
		engine, err := x.config.Start()
		if err != nil {
			return err
		}
		n := x.matches.Add(1)
		logger := x.logger.With("match", n)
		r := NewRunner(engine, Options{AI: [2]bool{true, true}, Sinks: x.sinks, Logger: logger})
		x.current.Store(r)

		matchCtx, cancel := context.WithCancel(ctx)
		go r.Run(matchCtx)

		over := x.waitOver(ctx, r)
		if over {
			logger.Info("exhibition match over", "winner", r.Snapshot().Winner)
			select {
			case <-ctx.Done():
			case <-time.After(RestartDelay):
			}
		}
		cancel()
		<-r.Done()

		if ctx.Err() != nil {
			return nil
		}
	}
}

// waitOver polls r until its match ends. It returns false when ctx ends first.
func (x *Exhibition) waitOver(ctx context.Context, r *Runner) bool {
	ticker := time.NewTicker(AmbientPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if r.Snapshot().Phase == match.PhaseOver.String() {
				return true
			}
		}
	}
}
