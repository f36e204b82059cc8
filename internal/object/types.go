package object

import (
	"fmt"
	"strings"
)

// Team identifies one of the two sides of a match.
type Team int

const (
	Red Team = iota
	Blue
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == Red {
		return Blue
	}
	return Red
}

func (t Team) String() string {
	if t == Red {
		return "RED"
	}
	return "BLUE"
}

// Class groups puck types by their role in line pairing and special-shot unlocks.
type Class int

const (
	ClassSpecial Class = iota
	ClassKing
	ClassPawn
)

// Ability is a capability tag dispatched by the engine at well-defined moments.
type Ability int

const (
	AbilityNone            Ability = iota
	AbilityPhaseOnLaunch           // Intangible to other pucks for a while after launch
	AbilityEMPOnCross              // Radial burst at every line crossing
	AbilityAuraPull                // Pulls nearby opponents while moving
	AbilityRageOnLaunch            // Destroys the first opposing puck touched
	AbilityNeutralizeOnHit         // Neutralizes the stats of struck opponents
	AbilityArmorOnLaunch           // Armors nearby teammates against durability loss
)

// Puck radii by class.
const (
	KingRadius    = 32.0
	PawnRadius    = 18.0
	SpecialRadius = 24.0
)

// MaxRadius is the largest puck radius; the collision grid is sized from it.
const MaxRadius = KingRadius

// PuckType enumerates every puck variant.
type PuckType int

const (
	King PuckType = iota
	Pawn
	Guardian
	Striker
	Bastion
	Phantom
	Comet
	Swerver
	Pulsar
	Magnet
	Berserker
	Nullifier
	Warden
	Ricochet
	Sponge
	Anchor
	Drifter
	Titan
	Spark
	Oracle
	numPuckTypes
)

// TypeSpec holds the data-driven properties of a puck type.
type TypeSpec struct {
	Name            string
	Class           Class
	Mass            float64
	Friction        float64 // Per-frame velocity multiplier
	Elasticity      float64
	Radius          float64
	Required        int     // Line crossings needed to charge (ignored when Dual)
	Dual            bool    // Needs one pawn-pawn and one pawn-special crossing
	GoalValue       int     // Points awarded for a valid goal
	PowerMultiplier float64 // Launch impulse multiplier
	Durability      int     // 0 means indestructible by impacts
	Swerve          float64 // Lateral force factor proportional to speed
	Ability         Ability
	PawnLines       bool // When shot, (pawn,pawn) lines also count
}

var specs = [numPuckTypes]TypeSpec{
	King:      {Name: "KING", Class: ClassKing, Mass: 3.0, Friction: 0.975, Elasticity: 0.9, Radius: KingRadius, Required: 2, GoalValue: 3, PowerMultiplier: 1.4, PawnLines: true},
	Pawn:      {Name: "PAWN", Class: ClassPawn, Mass: 0.8, Friction: 0.97, Elasticity: 1.0, Radius: PawnRadius, Dual: true, GoalValue: 1, PowerMultiplier: 1, Durability: 2},
	Guardian:  {Name: "GUARDIAN", Class: ClassSpecial, Mass: 2.2, Friction: 0.965, Elasticity: 0.8, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Durability: 4},
	Striker:   {Name: "STRIKER", Class: ClassSpecial, Mass: 1.2, Friction: 0.978, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Bastion:   {Name: "BASTION", Class: ClassSpecial, Mass: 3.5, Friction: 0.96, Elasticity: 0.7, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Phantom:   {Name: "PHANTOM", Class: ClassSpecial, Mass: 1.0, Friction: 0.976, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityPhaseOnLaunch},
	Comet:     {Name: "COMET", Class: ClassSpecial, Mass: 0.6, Friction: 0.982, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1.3},
	Swerver:   {Name: "SWERVER", Class: ClassSpecial, Mass: 1.0, Friction: 0.976, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Swerve: 0.015},
	Pulsar:    {Name: "PULSAR", Class: ClassSpecial, Mass: 1.1, Friction: 0.976, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityEMPOnCross},
	Magnet:    {Name: "MAGNET", Class: ClassSpecial, Mass: 1.4, Friction: 0.974, Elasticity: 0.9, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityAuraPull},
	Berserker: {Name: "BERSERKER", Class: ClassSpecial, Mass: 1.6, Friction: 0.975, Elasticity: 0.9, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityRageOnLaunch},
	Nullifier: {Name: "NULLIFIER", Class: ClassSpecial, Mass: 1.2, Friction: 0.976, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityNeutralizeOnHit},
	Warden:    {Name: "WARDEN", Class: ClassSpecial, Mass: 1.8, Friction: 0.972, Elasticity: 0.8, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, Ability: AbilityArmorOnLaunch},
	Ricochet:  {Name: "RICOCHET", Class: ClassSpecial, Mass: 0.9, Friction: 0.98, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Sponge:    {Name: "SPONGE", Class: ClassSpecial, Mass: 1.3, Friction: 0.97, Elasticity: 0.5, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Anchor:    {Name: "ANCHOR", Class: ClassSpecial, Mass: 2.8, Friction: 0.95, Elasticity: 0.6, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Drifter:   {Name: "DRIFTER", Class: ClassSpecial, Mass: 1.0, Friction: 0.988, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1},
	Titan:     {Name: "TITAN", Class: ClassSpecial, Mass: 4.0, Friction: 0.965, Elasticity: 0.8, Radius: SpecialRadius, Required: 2, GoalValue: 2, PowerMultiplier: 1},
	Spark:     {Name: "SPARK", Class: ClassSpecial, Mass: 0.7, Friction: 0.978, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1.15},
	Oracle:    {Name: "ORACLE", Class: ClassSpecial, Mass: 1.0, Friction: 0.976, Elasticity: 1.0, Radius: SpecialRadius, Required: 1, GoalValue: 2, PowerMultiplier: 1, PawnLines: true},
}

// Spec returns the property table entry for t.
func (t PuckType) Spec() TypeSpec {
	if t < 0 || t >= numPuckTypes {
		return specs[Striker]
	}
	return specs[t]
}

// Valid reports whether t is a known puck type.
func (t PuckType) Valid() bool {
	return t >= 0 && t < numPuckTypes
}

func (t PuckType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("PuckType(%d)", int(t))
	}
	return specs[t].Name
}

// ParsePuckType resolves a case-insensitive type name.
func ParsePuckType(name string) (PuckType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for t := PuckType(0); t < numPuckTypes; t++ {
		if specs[t].Name == upper {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown puck type %q", name)
}

// SpecialTypes returns every type of the special class, in declaration order.
func SpecialTypes() []PuckType {
	var out []PuckType
	for t := PuckType(0); t < numPuckTypes; t++ {
		if specs[t].Class == ClassSpecial {
			out = append(out, t)
		}
	}
	return out
}
