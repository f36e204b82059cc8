package match

import (
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// EventKind identifies something collaborators may react to.
type EventKind int

const (
	EventShotFired EventKind = iota
	EventCollision
	EventWallImpact
	EventLineCrossed
	EventPuckCharged
	EventOrbCollected
	EventOvercharged
	EventPuckDestroyed
	EventFoul
	EventGoalScored
	EventBonusTurn
	EventTurnChanged
	EventSpecialUnlocked
	EventMatchWon
	EventRoundReset
)

var eventNames = [...]string{
	EventShotFired:       "SHOT_FIRED",
	EventCollision:       "COLLISION",
	EventWallImpact:      "WALL_IMPACT",
	EventLineCrossed:     "LINE_CROSSED",
	EventPuckCharged:     "PUCK_CHARGED",
	EventOrbCollected:    "ORB_COLLECTED",
	EventOvercharged:     "OVERCHARGED",
	EventPuckDestroyed:   "PUCK_DESTROYED",
	EventFoul:            "FOUL",
	EventGoalScored:      "GOAL_SCORED",
	EventBonusTurn:       "BONUS_TURN",
	EventTurnChanged:     "TURN_CHANGED",
	EventSpecialUnlocked: "SPECIAL_UNLOCKED",
	EventMatchWon:        "MATCH_WON",
	EventRoundReset:      "ROUND_RESET",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "UNKNOWN"
	}
	return eventNames[k]
}

// Event is emitted by the engine and drained by collaborators after each tick.
// Only the fields relevant to Kind are set.
type Event struct {
	Kind     EventKind
	Frame    int
	Team     object.Team
	PuckID   int
	OtherID  int
	PuckType object.PuckType
	Points   int
	Reason   TurnLossReason
	Tier     SpecialTier
	Value    float64 // Impact speed, impulse or power gained
	Pos      physics.Vec
	Text     string // Synergy name
}

func (e *Engine) emit(ev Event) {
	ev.Frame = e.state.Frame
	e.events = append(e.events, ev)
}

// Drain hands over the queued events and empties the queue.
func (e *Engine) Drain() []Event {
	out := e.events
	e.events = nil
	return out
}
