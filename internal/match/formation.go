package match

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Team setup errors.
var (
	ErrUnknownFormation = errors.New("unknown formation")
	ErrRosterSize       = errors.New("wrong roster size")
	ErrUnknownPuckType  = errors.New("not a special puck type")
	ErrSameTeam         = errors.New("both configs name the same team")
)

// RosterSize is the number of special pucks a team selects.
const RosterSize = 7

// TeamConfig is a team's roster and formation choice.
type TeamConfig struct {
	Team      object.Team
	Specials  []object.PuckType // RosterSize special types, placed in order
	Formation string
}

// formation holds puck positions for the team defending the top goal,
// y measured from its own goal line.
type formation struct {
	King     physics.Vec
	Specials [RosterSize]physics.Vec
	Pawns    [6]physics.Vec
}

var formations = map[string]formation{
	"wedge": {
		King: physics.V(400, 140),
		Specials: [RosterSize]physics.Vec{
			{X: 250, Y: 240}, {X: 550, Y: 240}, {X: 160, Y: 330}, {X: 400, Y: 300},
			{X: 640, Y: 330}, {X: 300, Y: 400}, {X: 500, Y: 400},
		},
		Pawns: [6]physics.Vec{
			{X: 100, Y: 480}, {X: 240, Y: 500}, {X: 360, Y: 520},
			{X: 440, Y: 520}, {X: 560, Y: 500}, {X: 700, Y: 480},
		},
	},
	"wall": {
		King: physics.V(400, 120),
		Specials: [RosterSize]physics.Vec{
			{X: 100, Y: 260}, {X: 200, Y: 260}, {X: 300, Y: 260}, {X: 400, Y: 260},
			{X: 500, Y: 260}, {X: 600, Y: 260}, {X: 700, Y: 260},
		},
		Pawns: [6]physics.Vec{
			{X: 150, Y: 400}, {X: 250, Y: 400}, {X: 350, Y: 400},
			{X: 450, Y: 400}, {X: 550, Y: 400}, {X: 650, Y: 400},
		},
	},
	"diamond": {
		King: physics.V(400, 150),
		Specials: [RosterSize]physics.Vec{
			{X: 400, Y: 260}, {X: 300, Y: 330}, {X: 500, Y: 330}, {X: 200, Y: 400},
			{X: 600, Y: 400}, {X: 300, Y: 470}, {X: 500, Y: 470},
		},
		Pawns: [6]physics.Vec{
			{X: 100, Y: 300}, {X: 700, Y: 300}, {X: 400, Y: 400},
			{X: 150, Y: 520}, {X: 650, Y: 520}, {X: 400, Y: 560},
		},
	},
}

// Formations lists the known formation names in sorted order.
func Formations() []string {
	names := make([]string, 0, len(formations))
	for name := range formations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRoster is a balanced selection of specials.
func DefaultRoster() []object.PuckType {
	return []object.PuckType{
		object.Guardian, object.Striker, object.Pulsar, object.Magnet,
		object.Berserker, object.Warden, object.Comet,
	}
}

// Validate checks the config against the known formations and puck types.
func (c TeamConfig) Validate() error {
	if _, ok := formations[c.Formation]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownFormation, c.Formation)
	}
	if len(c.Specials) != RosterSize {
		return fmt.Errorf("%w: %s has %d specials, want %d", ErrRosterSize, c.Team, len(c.Specials), RosterSize)
	}
	for _, t := range c.Specials {
		if !t.Valid() || t.Spec().Class != object.ClassSpecial {
			return fmt.Errorf("%w: %s", ErrUnknownPuckType, t)
		}
	}
	return nil
}

// StartMatch builds the initial state from two team configs and returns an
// engine awaiting RED's first shot. Ids are assigned RED first: King,
// specials, then pawns.
func StartMatch(red, blue TeamConfig, tuning Tuning, rng *rand.Rand) (*Engine, error) {
	if red.Team == blue.Team {
		return nil, ErrSameTeam
	}
	if red.Team != object.Red {
		red, blue = blue, red
	}
	for _, c := range []TeamConfig{red, blue} {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("start match: %w", err)
		}
	}

	state := NewState(tuning.Rink)
	id := 0
	for _, c := range []TeamConfig{red, blue} {
		f := formations[c.Formation]
		place := func(typ object.PuckType, at physics.Vec) {
			state.Pucks = append(state.Pucks, object.NewPuck(id, c.Team, typ, placeFor(c.Team, at, tuning.Rink)))
			id++
		}
		place(object.King, f.King)
		for i, typ := range c.Specials {
			place(typ, f.Specials[i])
		}
		for _, at := range f.Pawns {
			place(object.Pawn, at)
		}
	}

	e := NewEngine(state, tuning)
	e.SetRand(rng)
	e.spawnOrb()
	return e, nil
}

// placeFor maps a formation offset onto the rink. BLUE defends the top goal,
// RED the bottom one.
func placeFor(team object.Team, at physics.Vec, rink physics.Rink) physics.Vec {
	if team == object.Blue {
		return at
	}
	return physics.V(rink.Width-at.X, rink.Height-at.Y)
}

// DefendsTop reports whether team defends the top goal.
func DefendsTop(team object.Team) bool {
	return team == object.Blue
}

// AttackGoal returns the centre of the goal team scores in.
func AttackGoal(team object.Team, rink physics.Rink) physics.Vec {
	return rink.GoalCenter(!DefendsTop(team))
}

// OwnGoal returns the centre of the goal team defends.
func OwnGoal(team object.Team, rink physics.Rink) physics.Vec {
	return rink.GoalCenter(DefendsTop(team))
}

// ParseRoster parses a comma-separated list of special type names. An empty
// list yields DefaultRoster.
func ParseRoster(list string) ([]object.PuckType, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultRoster(), nil
	}
	var out []object.PuckType
	for _, name := range strings.Split(list, ",") {
		t, err := object.ParsePuckType(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPuckType, err)
		}
		out = append(out, t)
	}
	return out, nil
}
