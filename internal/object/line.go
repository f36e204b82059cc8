package object

import "github.com/tomz197/pucks/internal/physics"

// LineKind classifies an imaginary line by the classes of its source pucks.
// Kings count as specials for pairing.
type LineKind int

const (
	LinePawnPawn LineKind = iota
	LinePawnSpecial
	LineSpecialSpecial
)

func (k LineKind) String() string {
	switch k {
	case LinePawnPawn:
		return "pawn-pawn"
	case LinePawnSpecial:
		return "pawn-special"
	default:
		return "special-special"
	}
}

// ImaginaryLine is a charge requirement between two teammates, frozen at the
// moment the shot was launched. Sources are stored by id, never by pointer.
type ImaginaryLine struct {
	Index   int
	Sources [2]int
	Types   [2]PuckType
	Kind    LineKind
	A, B    physics.Vec
	Synergy string // Empty when the pair has no synergy
}

// Midpoint returns the geometric midpoint of the line.
func (l ImaginaryLine) Midpoint() physics.Vec {
	return l.A.Lerp(l.B, 0.5)
}

// Length returns the segment length.
func (l ImaginaryLine) Length() float64 {
	return physics.Distance(l.A, l.B)
}

// synergies maps a sorted pair of puck types to a synergy tag.
var synergies = map[[2]PuckType]string{
	{Pulsar, Magnet}:    "FLUX",
	{Guardian, Warden}:  "BULWARK",
	{Comet, Spark}:      "STREAK",
	{Phantom, Oracle}:   "MIRAGE",
	{Berserker, Titan}:  "WRATH",
	{King, Guardian}:    "ROYAL GUARD",
	{Striker, Ricochet}: "TRICKSHOT",
	{Bastion, Anchor}:   "FORTRESS",
	{Swerver, Drifter}:  "CURRENT",
	{Nullifier, Pulsar}: "STATIC",
	{Sponge, Bastion}:   "BUFFER",
	{King, Oracle}:      "PROPHECY",
	{Pawn, King}:        "LOYALTY",
	{Magnet, Nullifier}: "VOID",
	{Spark, Striker}:    "IGNITE",
	{Warden, Berserker}: "DISCIPLINE",
	{Titan, Anchor}:     "BEDROCK",
	{Ricochet, Phantom}: "ECHO",
	{Comet, Drifter}:    "TAILWIND",
	{Guardian, Bastion}: "RAMPART",
}

// SynergyFor returns the synergy tag for a pair of types, in either order.
func SynergyFor(a, b PuckType) string {
	if tag, ok := synergies[[2]PuckType{a, b}]; ok {
		return tag
	}
	return synergies[[2]PuckType{b, a}]
}
