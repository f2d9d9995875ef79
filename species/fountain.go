package species

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
)

// Fountain launches particles in a cone around +Y and lets gravity pull them
// back down. Scale shrinks linearly from StartScale to EndScale.
type Fountain struct {
	origin     mgl32.Vec3
	speed      float32
	spread     float32
	cosCone    float32
	gravity    float32
	jitter     float32
	startScale float32
	endScale   float32
	color      particles.Color
	rng        *rand.Rand
}

// NewFountain creates a fountain policy.
func NewFountain(origin mgl32.Vec3, cfg config.FountainConfig, rng *rand.Rand) (*Fountain, error) {
	color, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	return &Fountain{
		origin:     origin,
		speed:      float32(cfg.Speed),
		spread:     float32(cfg.SpeedSpread),
		cosCone:    float32(math.Cos(cfg.ConeDegrees * math.Pi / 180)),
		gravity:    float32(cfg.Gravity),
		jitter:     float32(cfg.Jitter),
		startScale: float32(cfg.StartScale),
		endScale:   float32(cfg.EndScale),
		color:      color,
		rng:        rng,
	}, nil
}

// Create places a particle at the origin, offset by up to jitter on X and Z.
func (f *Fountain) Create(index int) particles.Attrs {
	off := mgl32.Vec3{
		(f.rng.Float32()*2 - 1) * f.jitter,
		0,
		(f.rng.Float32()*2 - 1) * f.jitter,
	}
	return particles.Attrs{
		Position: f.origin.Add(off),
		Scale:    f.startScale,
		Color:    f.color,
	}
}

// Update integrates the particle's velocity at its current age.
func (f *Fountain) Update(index int, age, life float32, prev particles.Attrs, dt float32) particles.Attrs {
	v := f.launchVelocity(index)
	v[1] -= f.gravity * age

	return particles.Attrs{
		Position: prev.Position.Add(v.Mul(dt)),
		Scale:    lerp(f.startScale, f.endScale, progress(age, life)),
		Color:    prev.Color,
	}
}

// launchVelocity is the slot's initial velocity: uniform over the cone's
// solid angle, speed varied by the configured spread.
func (f *Fountain) launchVelocity(index int) mgl32.Vec3 {
	cosTheta := lerp(f.cosCone, 1, slotHash(index, 1))
	sinTheta := float32(math.Sqrt(float64(1 - cosTheta*cosTheta)))
	phi := 2 * math.Pi * slotHash(index, 2)

	dir := mgl32.Vec3{cos32(phi) * sinTheta, cosTheta, sin32(phi) * sinTheta}
	speed := f.speed * (1 + (slotHash(index, 3)*2-1)*f.spread)
	return dir.Mul(speed)
}
