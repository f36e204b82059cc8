package object

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/pucks/internal/physics"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect. It does not interact with pucks.
type Particle struct {
	Position physics.Vec
	Velocity physics.Vec
	Life     int     // Ticks remaining
	MaxLife  int     // Initial lifetime (for fade calculation)
	Drag     float64 // Velocity decay per tick (1.0 = no drag)
	Team     Team    // Colour hint for renderers
}

// NewParticle creates a single particle from the pool.
func NewParticle(pos, vel physics.Vec, life int, team Team) *Particle {
	p := particlePool.Get().(*Particle)
	p.Position = pos
	p.Velocity = vel
	p.Life = life
	p.MaxLife = life
	p.Drag = 0.92
	p.Team = team
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the state.
func (p *Particle) Release() {
	particlePool.Put(p)
}

// Opacity returns the remaining life fraction in [0,1].
func (p *Particle) Opacity() float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	return float64(p.Life) / float64(p.MaxLife)
}

// Update moves the particle one tick. Returns true if it should be removed.
func (p *Particle) Update() bool {
	p.Life--
	if p.Life <= 0 {
		return true
	}
	p.Velocity = p.Velocity.Scale(p.Drag)
	p.Position = p.Position.Add(p.Velocity)
	return false
}

// SpawnBurst creates particles in a circular burst pattern around pos.
func SpawnBurst(rng *rand.Rand, pos physics.Vec, count int, speed float64, life int, team Team) []*Particle {
	out := make([]*Particle, 0, count)
	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		l := int(float64(life) * (0.5 + rng.Float64()*0.5))
		if l < 1 {
			l = 1
		}
		vel := physics.V(math.Cos(angle)*spd, math.Sin(angle)*spd)
		out = append(out, NewParticle(pos, vel, l, team))
	}
	return out
}

// UpdateParticles advances every particle and drops the expired ones, reusing
// the backing array.
func UpdateParticles(ps []*Particle) []*Particle {
	kept := ps[:0]
	for _, p := range ps {
		if p.Update() {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(ps[len(kept):])
	return kept
}
