package match

import (
	"sort"

	"github.com/tomz197/pucks/internal/charge"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Phase is the turn state machine's current state.
type Phase int

const (
	PhaseAwaitingShot Phase = iota
	PhaseSimulating
	PhaseGoal // Goal sequence pending its presentation delay
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingShot:
		return "AWAITING_SHOT"
	case PhaseSimulating:
		return "SIMULATING"
	case PhaseGoal:
		return "GOAL_SEQUENCE"
	default:
		return "OVER"
	}
}

// SpecialTier is a team's unlocked special shot.
type SpecialTier int

const (
	TierNone SpecialTier = iota
	TierRoyal
	TierUltimate
)

func (t SpecialTier) String() string {
	switch t {
	case TierRoyal:
		return "ROYAL"
	case TierUltimate:
		return "ULTIMATE"
	default:
		return "NONE"
	}
}

// TurnLossReason explains why the acting team lost the turn.
type TurnLossReason int

const (
	LossNone          TurnLossReason = iota
	LossNoCharge                     // Shot settled without charging a puck
	LossOwnGoal                      // Foul: a puck entered its own goal
	LossUnchargedGoal                // Foul: an uncharged puck entered the opposing goal
	LossSpecialMiss                  // A special shot failed to score
	LossAllFired                     // Bonus earned but every puck already fired
)

func (r TurnLossReason) String() string {
	switch r {
	case LossNoCharge:
		return "NO_CHARGE"
	case LossOwnGoal:
		return "OWN_GOAL"
	case LossUnchargedGoal:
		return "UNCHARGED_GOAL"
	case LossSpecialMiss:
		return "SPECIAL_MISS"
	case LossAllFired:
		return "ALL_FIRED"
	default:
		return ""
	}
}

// IsFoul reports whether the reason is a goal-mouth foul.
func (r TurnLossReason) IsFoul() bool {
	return r == LossOwnGoal || r == LossUnchargedGoal
}

// GoalInfo describes a pending valid goal.
type GoalInfo struct {
	Team     object.Team // Scoring team
	Points   int
	PuckID   int
	PuckType object.PuckType
}

// ShotInfo is the bookkeeping of the shot being resolved.
type ShotInfo struct {
	PuckID          int
	Team            object.Team
	Special         SpecialTier // Tier spent on this shot, TierNone otherwise
	Pulsar          bool        // Armed pulsar spent on this shot
	ChargedThisShot bool
	OrbHits         int
	Foul            TurnLossReason
	Ticks           int
}

// Aim is the input controller's view of the current gesture.
type Aim struct {
	Selected   int // Puck id, -1 when none
	Hovered    int // Puck id, -1 when none
	Active     bool
	Drag       physics.Vec // dragStart - pointer
	Power      float64     // 0..1
	CancelZone bool
	Lines      []object.ImaginaryLine // Lines the selected puck could cross
	Path       []physics.Vec          // Predicted trajectory
}

// NoPuck is the id used when no puck is selected or hovered.
const NoPuck = -1

// GameState is the match aggregate. It is mutated only by Engine.
type GameState struct {
	Rink      physics.Rink
	Pucks     []*object.Puck // Live pucks ordered by id
	Orbs      []*object.Orb
	Particles []*object.Particle
	Texts     []*object.FloatingText

	Frame        int
	Turn         object.Team
	Phase        Phase
	CanShoot     bool
	IsSimulating bool
	Fired        map[int]bool // Pucks shot this turn
	TurnChanges  int

	Score    [2]int
	Goal     *GoalInfo
	GoalSeq  int
	Winner   object.Team
	Won      bool
	TurnLoss TurnLossReason

	PulsarPower  [2]float64
	PulsarArmed  [2]bool
	Special      [2]SpecialTier
	SpecialArmed [2]bool
	SpecialSpent [2]bool
	OrbPickups   [2]int
	Overcharged  [2]bool

	Lines *charge.LineState
	Shot  *ShotInfo
	Aim   Aim

	ScreenShake int
	nextOrbID   int
}

// NewState returns an empty state awaiting RED's first shot.
func NewState(rink physics.Rink) *GameState {
	return &GameState{
		Rink:     rink,
		Turn:     object.Red,
		Phase:    PhaseAwaitingShot,
		CanShoot: true,
		Fired:    make(map[int]bool),
		Aim:      Aim{Selected: NoPuck, Hovered: NoPuck},
	}
}

// AddPuck inserts p keeping the id order.
func (s *GameState) AddPuck(p *object.Puck) {
	s.Pucks = append(s.Pucks, p)
	s.sortPucks()
}

func (s *GameState) sortPucks() {
	sort.Slice(s.Pucks, func(i, j int) bool { return s.Pucks[i].ID < s.Pucks[j].ID })
}

// Puck looks up a live puck by id. Stale ids return nil.
func (s *GameState) Puck(id int) *object.Puck {
	i := sort.Search(len(s.Pucks), func(i int) bool { return s.Pucks[i].ID >= id })
	if i < len(s.Pucks) && s.Pucks[i].ID == id && !s.Pucks[i].IsDestroyed() {
		return s.Pucks[i]
	}
	return nil
}

// TeamPucks returns the live pucks of team.
func (s *GameState) TeamPucks(team object.Team) []*object.Puck {
	var out []*object.Puck
	for _, p := range s.Pucks {
		if p.Team == team && !p.IsDestroyed() {
			out = append(out, p)
		}
	}
	return out
}

// Unfired counts team pucks not yet shot this turn.
func (s *GameState) Unfired(team object.Team) int {
	n := 0
	for _, p := range s.TeamPucks(team) {
		if !s.Fired[p.ID] {
			n++
		}
	}
	return n
}

// CanFire reports whether puck id may be shot right now.
func (s *GameState) CanFire(id int) bool {
	if s.Phase != PhaseAwaitingShot || !s.CanShoot || s.IsSimulating {
		return false
	}
	p := s.Puck(id)
	return p != nil && p.Team == s.Turn && !s.Fired[id]
}
