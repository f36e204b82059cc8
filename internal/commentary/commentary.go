// Package commentary narrates a match from its events through a pluggable
// text generator, falling back to canned lines when the generator is slow or
// fails.
package commentary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tomz197/pucks/internal/match"
)

// Generator streams text for a prompt. The channel is closed when the text is
// complete; implementations must stop when ctx is done.
type Generator interface {
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}

// Options configures a Commentator.
type Options struct {
	Timeout time.Duration // Per line; zero means DefaultTimeout
	Logger  *log.Logger
}

// DefaultTimeout bounds how long one line may take to generate.
const DefaultTimeout = 3 * time.Second

const (
	eventBuffer = 8
	lineBuffer  = 8
)

// Commentator turns match events into commentary lines. It only reads the
// events handed to it and never touches engine state.
type Commentator struct {
	gen     Generator
	timeout time.Duration
	logger  *log.Logger
	events  chan match.Event
	lines   chan string
}

// New creates a commentator using gen.
func New(gen Generator, opts Options) *Commentator {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Commentator{
		gen:     gen,
		timeout: timeout,
		logger:  logger.WithPrefix("commentary"),
		events:  make(chan match.Event, eventBuffer),
		lines:   make(chan string, lineBuffer),
	}
}

// Lines delivers finished commentary. It is closed when Run returns.
func (c *Commentator) Lines() <-chan string {
	return c.lines
}

// HandleEvents queues the events worth commenting on. Events are dropped
// while the commentator is busy.
func (c *Commentator) HandleEvents(events []match.Event) {
	for _, ev := range events {
		if Describe(ev) == "" {
			continue
		}
		select {
		case c.events <- ev:
		default:
		}
	}
}

// Run generates lines until ctx is done.
func (c *Commentator) Run(ctx context.Context) {
	defer close(c.lines)
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-c.events:
			c.publish(c.comment(ctx, ev))
		}
	}
}

// comment produces the line for ev, falling back on error or timeout.
func (c *Commentator) comment(ctx context.Context, ev match.Event) string {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chunks, err := c.gen.Stream(ctx, Prompt(ev))
	if err != nil {
		c.logger.Warn("generator failed", "event", ev.Kind, "err", err)
		return Fallback(ev)
	}

	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("generator timed out", "event", ev.Kind)
			return Fallback(ev)
		case chunk, ok := <-chunks:
			if !ok {
				text := strings.Join(strings.Fields(b.String()), " ")
				if text == "" {
					return Fallback(ev)
				}
				return text
			}
			b.WriteString(chunk)
		}
	}
}

// publish drops the oldest line when nobody is reading.
func (c *Commentator) publish(line string) {
	for {
		select {
		case c.lines <- line:
			return
		default:
		}
		select {
		case <-c.lines:
		default:
		}
	}
}

// Prompt is the instruction sent to the generator for ev.
func Prompt(ev match.Event) string {
	return promptPrefix + Describe(ev)
}

const promptPrefix = "You are the excitable announcer of a turn-based puck-shooting match. " +
	"React to this moment in one short sentence.\nEvent: "

// Describe is a plain description of ev, or "" for events without commentary.
func Describe(ev match.Event) string {
	switch ev.Kind {
	case match.EventGoalScored:
		return fmt.Sprintf("%s scores %d with the %s.", ev.Team, ev.Points, ev.PuckType)
	case match.EventFoul:
		return fmt.Sprintf("%s's %s commits a foul (%s).", ev.Team, ev.PuckType, reasonText(ev.Reason))
	case match.EventMatchWon:
		return fmt.Sprintf("%s wins the match.", ev.Team)
	case match.EventSpecialUnlocked:
		return fmt.Sprintf("%s unlocks the %s special shot.", ev.Team, ev.Tier)
	case match.EventPuckDestroyed:
		return fmt.Sprintf("%s loses its %s.", ev.Team, ev.PuckType)
	case match.EventPuckCharged:
		return fmt.Sprintf("%s charges the %s.", ev.Team, ev.PuckType)
	case match.EventOvercharged:
		return fmt.Sprintf("%s is overcharged.", ev.Team)
	case match.EventBonusTurn:
		return fmt.Sprintf("%s earns a bonus turn.", ev.Team)
	}
	return ""
}

// Fallback is the canned line for ev.
func Fallback(ev match.Event) string {
	switch ev.Kind {
	case match.EventGoalScored:
		return fmt.Sprintf("GOAL! %s puts %d on the board!", ev.Team, ev.Points)
	case match.EventFoul:
		return fmt.Sprintf("Whistle! %s fouls: %s.", ev.Team, reasonText(ev.Reason))
	case match.EventMatchWon:
		return fmt.Sprintf("That's the match! %s takes it!", ev.Team)
	case match.EventSpecialUnlocked:
		return fmt.Sprintf("%s has the %s shot ready!", ev.Team, ev.Tier)
	case match.EventPuckDestroyed:
		return fmt.Sprintf("Crunch! %s's %s is gone!", ev.Team, ev.PuckType)
	case match.EventPuckCharged:
		return fmt.Sprintf("The %s is live for %s!", ev.PuckType, ev.Team)
	case match.EventOvercharged:
		return fmt.Sprintf("%s is OVERCHARGED!", ev.Team)
	case match.EventBonusTurn:
		return fmt.Sprintf("%s goes again!", ev.Team)
	}
	return "What a moment!"
}

func reasonText(r match.TurnLossReason) string {
	return strings.ReplaceAll(strings.ToLower(r.String()), "_", " ")
}
