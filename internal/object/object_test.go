package object

import (
	"math/rand"
	"testing"

	"github.com/tomz197/pucks/internal/physics"
)

func TestTypeTable(t *testing.T) {
	specials := 0
	for typ := PuckType(0); typ < numPuckTypes; typ++ {
		spec := typ.Spec()
		if spec.Name == "" {
			t.Fatalf("type %d has no table entry", typ)
		}
		if spec.Mass <= 0 {
			t.Errorf("%s: mass %v must be positive", spec.Name, spec.Mass)
		}
		if spec.Friction <= 0 || spec.Friction >= 1 {
			t.Errorf("%s: friction %v outside (0,1)", spec.Name, spec.Friction)
		}
		if !spec.Dual && spec.Required < 1 {
			t.Errorf("%s: no crossing requirement", spec.Name)
		}
		if spec.Class == ClassSpecial {
			specials++
			if spec.Radius != SpecialRadius {
				t.Errorf("%s: special radius %v", spec.Name, spec.Radius)
			}
		}
	}
	if King.Spec().Radius <= SpecialRadius || Pawn.Spec().Radius >= SpecialRadius {
		t.Error("king must be largest and pawn smallest")
	}
	if !Pawn.Spec().Dual {
		t.Error("pawn must use the dual requirement")
	}
	if specials < 7 {
		t.Errorf("only %d special types, a roster needs 7", specials)
	}
	if got := len(SpecialTypes()); got != specials {
		t.Errorf("SpecialTypes() = %d, want %d", got, specials)
	}
}

func TestParsePuckType(t *testing.T) {
	typ, err := ParsePuckType(" pulsar ")
	if err != nil || typ != Pulsar {
		t.Fatalf("ParsePuckType = %v, %v", typ, err)
	}
	if _, err := ParsePuckType("dragon"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestNeutralizeRestoresStats(t *testing.T) {
	p := NewPuck(1, Red, Bastion, physics.V(100, 100))
	orig := Stats{Mass: p.Mass, Friction: p.Friction, Elasticity: p.Elasticity}

	p.Neutralize(10)
	if p.Mass == orig.Mass {
		t.Fatal("mass not overridden")
	}
	// A second hit extends the duration but keeps the original snapshot.
	p.Neutralize(20)
	e := p.Effect(EffectNeutralize)
	if e == nil || e.Ticks != 20 || e.Saved != orig {
		t.Fatalf("neutralize effect = %+v", e)
	}

	p.ClearEffects()
	if p.Mass != orig.Mass || p.Friction != orig.Friction || p.Elasticity != orig.Elasticity {
		t.Fatalf("stats not restored: %v %v %v", p.Mass, p.Friction, p.Elasticity)
	}
}

func TestDamageAndArmor(t *testing.T) {
	p := NewPuck(1, Blue, Pawn, physics.V(0, 0))
	if !p.Breakable || p.Durability != 2 {
		t.Fatalf("pawn durability = %d breakable=%v", p.Durability, p.Breakable)
	}

	p.AddEffect(Effect{Kind: EffectArmor, Ticks: 5})
	if p.Damage(1) {
		t.Fatal("armored puck lost durability")
	}

	p.ClearEffects()
	p.Damage(1)
	p.Damage(1)
	if !p.IsDestroyed() {
		t.Fatal("pawn with zero durability not destroyed")
	}

	k := NewPuck(2, Blue, King, physics.V(0, 0))
	if k.Damage(5) || k.IsDestroyed() {
		t.Fatal("king must be unbreakable")
	}
}

func TestResetForRound(t *testing.T) {
	p := NewPuck(1, Red, Striker, physics.V(50, 60))
	p.Position = physics.V(300, 300)
	p.Velocity = physics.V(2, 2)
	p.Charged = true
	p.AddEffect(NewRage(1, 10))

	p.ResetForRound()
	if p.Position != p.InitialPosition || p.Moving() || p.Charged || len(p.Effects) != 0 {
		t.Fatalf("puck not reset: %+v", p)
	}
}

func TestRageExpiresWhenSpent(t *testing.T) {
	e := NewRage(2, 100)
	e.Kills = 0
	if !e.Expired() {
		t.Fatal("rage without kills left should expire")
	}
}

func TestSynergyForIsOrderIndependent(t *testing.T) {
	if SynergyFor(Magnet, Pulsar) != "FLUX" || SynergyFor(Pulsar, Magnet) != "FLUX" {
		t.Fatal("synergy lookup depends on order")
	}
	if SynergyFor(Pawn, Pawn) != "" {
		t.Fatal("unexpected synergy for pawn pair")
	}
}

func TestPerimeterPointStaysInsideRink(t *testing.T) {
	rink := physics.Rink{Width: 800, Height: 1200, GoalLeft: 280, GoalRight: 520}
	for i := 0; i < 100; i++ {
		p := PerimeterPoint(float64(i)/100, rink)
		if !rink.Contains(p) {
			t.Fatalf("t=%v maps outside the rink: %v", float64(i)/100, p)
		}
	}
}

func TestParticlesExpire(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	ps := SpawnBurst(rng, physics.V(10, 10), 12, 2, 10, Red)
	for i := 0; i < 10; i++ {
		ps = UpdateParticles(ps)
	}
	if len(ps) != 0 {
		t.Fatalf("%d particles outlived their lifetime", len(ps))
	}
}
