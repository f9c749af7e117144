package ambient

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/cockroachdb/errors"
)

// BurstConfig controls how burst particles are spawned and integrated. All
// rates are per frame.
type BurstConfig struct {
	// Speed is the range of initial speeds in pixels per frame.
	Speed Range `mapstructure:"speed" yaml:"speed"`
	// Gravity is added to each particle's vertical velocity every frame.
	Gravity float64 `mapstructure:"gravity" yaml:"gravity"`
	// Decay is subtracted from opacity every frame; must be positive.
	Decay float64 `mapstructure:"decay" yaml:"decay" validate:"gt=0"`
	// Size is the range of dot diameters in pixels.
	Size Range `mapstructure:"size" yaml:"size"`
	// Palette is sampled uniformly for each particle's color.
	Palette []Color `mapstructure:"palette" yaml:"palette"`
}

// Particle is one ballistic body of a burst.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Gravity float64
	Opacity float64

	shape *Shape
}

// Burst is a one-shot swarm of particles spawned at a point. Live particles
// are kept packed at the front of the slice; expired ones are swap-removed.
type Burst struct {
	cfg       BurstConfig
	layer     Scene
	particles []Particle
	alive     int
	spawned   int
}

// NewBurst creates count particles at (x, y) and adds a dot shape for each to
// layer. Particle i leaves at angle 2π·i/count with a speed drawn from
// cfg.Speed, so the burst is radially even but speed-jittered.
func NewBurst(layer Scene, x, y float64, count int, cfg BurstConfig, rng *rand.Rand) (*Burst, error) {
	if count <= 0 {
		return nil, errors.Wrapf(ErrInvalidCount, "burst of %d particles", count)
	}
	if cfg.Decay <= 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrInvalidConfig, "burst opacity decay %v", cfg.Decay),
			"a burst only ends once opacity decays; use a positive decay such as 0.02")
	}
	if !cfg.Speed.valid() || !cfg.Size.valid() {
		return nil, errors.Wrapf(ErrInvalidConfig, "burst speed %+v size %+v", cfg.Speed, cfg.Size)
	}
	if rng == nil {
		rng = newRand()
	}

	b := &Burst{
		cfg:       cfg,
		layer:     layer,
		particles: make([]Particle, count),
		alive:     count,
		spawned:   count,
	}
	for i := range b.particles {
		angle := 2 * math.Pi * float64(i) / float64(count)
		speed := cfg.Speed.Random(rng)

		s := NewShape(fmt.Sprintf("particle-%d", i), ShapeDot)
		s.Position = Vec3{X: x, Y: y}
		s.Size = cfg.Size.Random(rng)
		if len(cfg.Palette) > 0 {
			s.Color = cfg.Palette[rng.IntN(len(cfg.Palette))]
		}

		b.particles[i] = Particle{
			X:       x,
			Y:       y,
			VX:      math.Cos(angle) * speed,
			VY:      math.Sin(angle) * speed,
			Gravity: cfg.Gravity,
			Opacity: 1,
			shape:   s,
		}
		layer.Add(s)
	}
	return b, nil
}

// Step integrates one frame: gravity into vertical velocity, velocity into
// position, then opacity decay. A particle whose opacity reaches zero has its
// shape removed this frame. Step reports whether any particle is still alive.
func (b *Burst) Step() bool {
	i := 0
	for i < b.alive {
		p := &b.particles[i]
		p.VY += p.Gravity
		p.X += p.VX
		p.Y += p.VY
		p.Opacity -= b.cfg.Decay

		if p.Opacity <= 0 {
			p.Opacity = 0
			b.layer.Remove(p.shape)
			// Swap with last alive particle; re-examine slot i.
			b.alive--
			b.particles[i] = b.particles[b.alive]
			b.particles[b.alive] = Particle{}
			continue
		}

		p.shape.Position.X = p.X
		p.shape.Position.Y = p.Y
		p.shape.Opacity = p.Opacity
		i++
	}
	return b.alive > 0
}

// frame adapts Step to the scheduler.
func (b *Burst) frame(time.Duration) bool {
	return b.Step()
}

// Alive returns the number of live particles.
func (b *Burst) Alive() int { return b.alive }

// Spawned returns the number of particles the burst started with.
func (b *Burst) Spawned() int { return b.spawned }

// Particles returns the live particles. The returned slice MUST NOT be mutated
// and is only valid until the next Step.
func (b *Burst) Particles() []Particle {
	return b.particles[:b.alive]
}

// Release removes every remaining particle shape immediately.
func (b *Burst) Release() {
	for i := 0; i < b.alive; i++ {
		b.layer.Remove(b.particles[i].shape)
	}
	clear(b.particles)
	b.alive = 0
}
