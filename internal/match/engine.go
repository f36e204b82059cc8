// Package match implements the match engine: the per-frame physics step, shot
// launch, goal classification and the turn state machine.
//
// The engine is single-threaded. Callers must serialize every method call, and
// observers on other goroutines read Snapshot values instead of the state.
package match

import (
	"math/rand"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Engine owns a GameState and is its only mutator.
type Engine struct {
	state  *GameState
	tuning Tuning
	rng    *rand.Rand
	grid   *physics.SpatialGrid
	events []Event

	// Per-tick scratch
	index    map[int]*object.Puck
	shotFrom physics.Vec // Shooter position before this tick's integration
	fastest  float64     // Fastest squared speed after integration
	settled  bool        // A goal or foul ended the shot this tick
}

// NewEngine wraps an existing state. Pucks are kept ordered by id.
func NewEngine(state *GameState, tuning Tuning) *Engine {
	if state.Fired == nil {
		state.Fired = make(map[int]bool)
	}
	if state.Rink == (physics.Rink{}) {
		state.Rink = tuning.Rink
	}
	state.sortPucks()

	r := state.Rink
	margin := 2 * object.MaxRadius
	e := &Engine{
		state:  state,
		tuning: tuning,
		rng:    rand.New(rand.NewSource(1)),
		grid:   physics.NewSpatialGrid(-margin, -margin, r.Width+margin, r.Height+margin, tuning.CellSize),
		index:  make(map[int]*object.Puck),
	}
	e.recomputeTiers(false)
	return e
}

// SetRand replaces the engine's random source (particles, orb placement).
func (e *Engine) SetRand(rng *rand.Rand) {
	if rng != nil {
		e.rng = rng
	}
}

// State returns the live state. Callers must not mutate it.
func (e *Engine) State() *GameState {
	return e.state
}

// Tuning returns the engine's rule set.
func (e *Engine) Tuning() Tuning {
	return e.tuning
}

// SetAim stores the input controller's gesture state.
func (e *Engine) SetAim(aim Aim) {
	e.state.Aim = aim
}

// ArmPulsar arms a full pulsar for the team's next shot.
func (e *Engine) ArmPulsar(team object.Team) bool {
	s := e.state
	if !e.awaiting(team) || s.PulsarArmed[team] || s.PulsarPower[team] < e.tuning.PulsarMax {
		return false
	}
	s.PulsarArmed[team] = true
	return true
}

// ArmSpecial arms the team's unlocked special shot for its next King shot.
func (e *Engine) ArmSpecial(team object.Team) bool {
	s := e.state
	if !e.awaiting(team) || s.Special[team] == TierNone || s.SpecialSpent[team] || s.SpecialArmed[team] {
		return false
	}
	s.SpecialArmed[team] = true
	return true
}

func (e *Engine) awaiting(team object.Team) bool {
	s := e.state
	return s.Phase == PhaseAwaitingShot && s.CanShoot && !s.IsSimulating && s.Turn == team
}

// Ambient advances idle animation: orb drift, particles and floating texts.
// It does nothing while a shot is simulating.
func (e *Engine) Ambient() {
	s := e.state
	if s.IsSimulating {
		return
	}
	for _, o := range s.Orbs {
		o.SetT(o.T+e.tuning.OrbDrift, s.Rink)
	}
	s.Particles = object.UpdateParticles(s.Particles)
	s.Texts = object.UpdateTexts(s.Texts)
	if s.ScreenShake > 0 {
		s.ScreenShake--
	}
}

// addPower credits pulsar power to team, clamped to the maximum.
func (e *Engine) addPower(team object.Team, amount float64) {
	s := e.state
	s.PulsarPower[team] = min(e.tuning.PulsarMax, s.PulsarPower[team]+amount)
}

// burst spawns cosmetic particles.
func (e *Engine) burst(pos physics.Vec, count int, speed float64, team object.Team) {
	e.state.Particles = append(e.state.Particles, object.SpawnBurst(e.rng, pos, count, speed, 30, team)...)
}

// text spawns a floating text.
func (e *Engine) text(pos physics.Vec, value string, team object.Team) {
	e.state.Texts = append(e.state.Texts, object.NewFloatingText(pos, value, team, 45))
}
