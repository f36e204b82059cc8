package loop

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/tomz197/pucks/internal/config"
	"github.com/tomz197/pucks/internal/match"
	"github.com/tomz197/pucks/internal/object"
)

// MatchConfig describes how to start a match.
type MatchConfig struct {
	Red    match.TeamConfig
	Blue   match.TeamConfig
	Tuning match.Tuning
	Seed   int64 // Zero picks a time-based seed
}

// MatchConfigFromEnv reads team setups and tuning from PUCKS_* variables.
func MatchConfigFromEnv() (MatchConfig, error) {
	red, err := teamFromEnv(object.Red, "PUCKS_RED")
	if err != nil {
		return MatchConfig{}, err
	}
	blue, err := teamFromEnv(object.Blue, "PUCKS_BLUE")
	if err != nil {
		return MatchConfig{}, err
	}
	return MatchConfig{
		Red:    red,
		Blue:   blue,
		Tuning: match.TuningFromEnv(),
		Seed:   int64(config.GetEnvInt("PUCKS_SEED", 0)),
	}, nil
}

func teamFromEnv(team object.Team, prefix string) (match.TeamConfig, error) {
	roster, err := match.ParseRoster(config.GetEnv(prefix+"_ROSTER", ""))
	if err != nil {
		return match.TeamConfig{}, fmt.Errorf("%s roster: %w", team, err)
	}
	return match.TeamConfig{
		Team:      team,
		Specials:  roster,
		Formation: config.GetEnv(prefix+"_FORMATION", "wedge"),
	}, nil
}

// Start builds the engine for a new match.
func (c MatchConfig) Start() (*match.Engine, error) {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return match.StartMatch(c.Red, c.Blue, c.Tuning, rand.New(rand.NewSource(seed)))
}
