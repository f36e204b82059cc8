package match

import "time"

// SoundOpts are hints for a sound sink.
type SoundOpts struct {
	Volume   float64       // 0..1
	Throttle time.Duration // Minimum interval between two plays of the same sound
}

// SoundFunc plays a named sound. It must not block or touch engine state.
type SoundFunc func(name string, opts SoundOpts)

// Sound names.
const (
	SoundShoot     = "shoot"
	SoundCollision = "collision"
	SoundWall      = "wall"
	SoundCross     = "cross"
	SoundCharged   = "charged"
	SoundOrb       = "orb"
	SoundDestroy   = "destroy"
	SoundFoul      = "foul"
	SoundGoal      = "goal"
	SoundTurn      = "turn"
	SoundSpecial   = "special"
	SoundWin       = "win"
)

// SoundFor maps an event to the sound it should trigger, if any.
func SoundFor(ev Event) (string, SoundOpts, bool) {
	switch ev.Kind {
	case EventShotFired:
		return SoundShoot, SoundOpts{Volume: 0.6}, true
	case EventCollision:
		return SoundCollision, SoundOpts{Volume: clamp01(ev.Value / 20), Throttle: 60 * time.Millisecond}, true
	case EventWallImpact:
		return SoundWall, SoundOpts{Volume: clamp01(ev.Value / 25), Throttle: 80 * time.Millisecond}, true
	case EventLineCrossed:
		return SoundCross, SoundOpts{Volume: 0.5, Throttle: 40 * time.Millisecond}, true
	case EventPuckCharged:
		return SoundCharged, SoundOpts{Volume: 0.7}, true
	case EventOrbCollected:
		return SoundOrb, SoundOpts{Volume: 0.6}, true
	case EventPuckDestroyed:
		return SoundDestroy, SoundOpts{Volume: 0.8, Throttle: 50 * time.Millisecond}, true
	case EventFoul:
		return SoundFoul, SoundOpts{Volume: 0.8}, true
	case EventGoalScored:
		return SoundGoal, SoundOpts{Volume: 1}, true
	case EventTurnChanged:
		return SoundTurn, SoundOpts{Volume: 0.4}, true
	case EventSpecialUnlocked:
		return SoundSpecial, SoundOpts{Volume: 0.8}, true
	case EventMatchWon:
		return SoundWin, SoundOpts{Volume: 1}, true
	}
	return "", SoundOpts{}, false
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}
