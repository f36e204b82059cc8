package match

import (
	"time"

	"github.com/tomz197/pucks/internal/config"
	"github.com/tomz197/pucks/internal/object"
	"github.com/tomz197/pucks/internal/physics"
)

// Tuning holds every gameplay constant of a match.
type Tuning struct {
	Rink     physics.Rink
	CellSize float64 // Spatial grid cell size for pucks and charge lines

	// Motion
	StopSpeed    float64 // Per-puck speed below which velocity snaps to zero
	SettleSpeed  float64 // Fastest-puck speed below which a shot is settled
	MaxShotTicks int     // Hard cap on the length of one shot
	MaxImpulse   float64 // Launch impulse at full power
	MaxDrag      float64 // Drag length giving full power
	MinDrag      float64 // Shorter drags never fire

	// Charging and power
	PerfectRatio     float64   // Perfect window as a fraction of line length around the midpoint
	CrossPower       float64   // Pulsar power per crossed line
	PerfectPower     float64   // Extra power for a perfect crossing
	ComboBonus       []float64 // Extra power indexed by combo count (clamped to the last entry)
	SynergyPower     float64   // Extra power for a synergy line
	PulsarMax        float64
	PulsarMultiplier float64 // Launch speed factor of an armed pulsar shot

	// Orbs and overcharge
	MaxOrbs            int
	OrbSpawnEvery      int     // Turn changes between orb spawns
	OrbPower           float64 // Power of the first orb in a shot
	OrbComboStep       float64 // Extra fraction of OrbPower per prior orb in the same shot
	OrbDrift           float64 // Loop parameter advance per ambient tick
	OverchargePickups  int
	OverchargeRadius   float64
	OverchargeStrength float64

	// Impacts
	WallSoundSpeed   float64 // Minimum wall impact speed reported as an event
	WallDamageSpeed  float64 // Wall impact speed costing one durability
	HitSoundImpulse  float64 // Minimum collision impulse reported as an event
	HitDamageImpulse float64 // Collision impulse costing one durability

	// Scoring
	TargetScore int
	GoalDelay   time.Duration // Presentation delay before the round resets

	// Special shots
	RoyalMultiplier    float64
	UltimateMultiplier float64
	RoyalKills         int
	UltimateKills      int

	// Effects
	RageTicks          int
	RageLaunchKills    int
	BurstRadius        float64
	BurstStrength      float64 // Impulse is BurstStrength / distance
	BurstCap           float64 // Maximum burst impulse
	PhaseTicks         int
	ArmorRadius        float64
	ArmorTicks         int
	NeutralizeTicks    int
	AuraRadius         float64
	AuraStrength       float64
	AuraTicks          int
	ShakeTicks         int
	ParticlesPerImpact int
}

// DefaultTuning returns the standard rule set on an 800x1200 rink.
func DefaultTuning() Tuning {
	return Tuning{
		Rink:     physics.Rink{Width: 800, Height: 1200, GoalLeft: 280, GoalRight: 520},
		CellSize: 2.5 * object.MaxRadius,

		StopSpeed:    0.05,
		SettleSpeed:  0.1,
		MaxShotTicks: 60 * 30,
		MaxImpulse:   20,
		MaxDrag:      200,
		MinDrag:      10,

		PerfectRatio:     0.12,
		CrossPower:       8,
		PerfectPower:     8,
		ComboBonus:       []float64{0, 0, 4, 8, 12, 20},
		SynergyPower:     5,
		PulsarMax:        100,
		PulsarMultiplier: 1.5,

		MaxOrbs:            3,
		OrbSpawnEvery:      2,
		OrbPower:           10,
		OrbComboStep:       0.5,
		OrbDrift:           0.0008,
		OverchargePickups:  3,
		OverchargeRadius:   120,
		OverchargeStrength: 0.12,

		WallSoundSpeed:   1.5,
		WallDamageSpeed:  14,
		HitSoundImpulse:  1,
		HitDamageImpulse: 12,

		TargetScore: 3,
		GoalDelay:   2 * time.Second,

		RoyalMultiplier:    1.3,
		UltimateMultiplier: 1.6,
		RoyalKills:         2,
		UltimateKills:      4,

		RageTicks:          120,
		RageLaunchKills:    1,
		BurstRadius:        150,
		BurstStrength:      120,
		BurstCap:           6,
		PhaseTicks:         40,
		ArmorRadius:        160,
		ArmorTicks:         180,
		NeutralizeTicks:    150,
		AuraRadius:         140,
		AuraStrength:       0.08,
		AuraTicks:          240,
		ShakeTicks:         20,
		ParticlesPerImpact: 6,
	}
}

// TuningFromEnv returns DefaultTuning with PUCKS_* environment overrides applied.
func TuningFromEnv() Tuning {
	t := DefaultTuning()
	t.TargetScore = config.GetEnvInt("PUCKS_TARGET_SCORE", t.TargetScore)
	t.MaxImpulse = config.GetEnvFloat("PUCKS_MAX_IMPULSE", t.MaxImpulse)
	t.StopSpeed = config.GetEnvFloat("PUCKS_STOP_SPEED", t.StopSpeed)
	t.SettleSpeed = config.GetEnvFloat("PUCKS_SETTLE_SPEED", t.SettleSpeed)
	t.PerfectRatio = config.GetEnvFloat("PUCKS_PERFECT_RATIO", t.PerfectRatio)
	t.PulsarMax = config.GetEnvFloat("PUCKS_PULSAR_MAX", t.PulsarMax)
	t.OrbPower = config.GetEnvFloat("PUCKS_ORB_POWER", t.OrbPower)
	t.MaxOrbs = config.GetEnvInt("PUCKS_MAX_ORBS", t.MaxOrbs)
	t.OverchargePickups = config.GetEnvInt("PUCKS_OVERCHARGE_PICKUPS", t.OverchargePickups)
	t.GoalDelay = config.GetEnvDuration("PUCKS_GOAL_DELAY", t.GoalDelay)
	return t
}

// comboBonus returns the extra power for the given combo count.
func (t Tuning) comboBonus(combo int) float64 {
	if len(t.ComboBonus) == 0 || combo <= 0 {
		return 0
	}
	return t.ComboBonus[min(combo, len(t.ComboBonus)-1)]
}
