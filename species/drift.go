package species

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
)

// Drift scatters slow particles through a box centered on the origin. They
// sink and sway, fading in and back out over their life.
type Drift struct {
	origin   mgl32.Vec3
	extent   mgl32.Vec3
	fall     float32
	sway     float32
	swayFreq float32
	maxScale float32
	color    particles.Color
	rng      *rand.Rand

	// Shared flow field pushing neighbouring particles the same way.
	noise      opensimplex.Noise32
	turbulence float32
	noiseScale float32
}

// NewDrift creates a drift policy.
func NewDrift(origin mgl32.Vec3, cfg config.DriftConfig, rng *rand.Rand) (*Drift, error) {
	color, err := ParseColor(cfg.Color)
	if err != nil {
		return nil, err
	}
	return &Drift{
		origin:   origin,
		extent:   mgl32.Vec3{float32(cfg.Extent[0]), float32(cfg.Extent[1]), float32(cfg.Extent[2])},
		fall:     float32(cfg.FallSpeed),
		sway:     float32(cfg.Sway),
		swayFreq: float32(cfg.SwayFreq),
		maxScale: float32(cfg.MaxScale),
		color:    color,
		rng:      rng,

		noise:      opensimplex.New32(rng.Int63()),
		turbulence: float32(cfg.Turbulence),
		noiseScale: float32(cfg.NoiseScale),
	}, nil
}

// Create places an invisible particle anywhere in the box.
func (d *Drift) Create(index int) particles.Attrs {
	off := mgl32.Vec3{
		(d.rng.Float32()*2 - 1) * d.extent[0],
		(d.rng.Float32()*2 - 1) * d.extent[1],
		(d.rng.Float32()*2 - 1) * d.extent[2],
	}
	return particles.Attrs{
		Position: d.origin.Add(off),
		Scale:    0,
		Color:    d.color,
	}
}

// Update sinks the particle with a sideways sway plus a push from the
// noise field at its position. Scale follows a half sine over the life so
// particles neither pop in nor out.
func (d *Drift) Update(index int, age, life float32, prev particles.Attrs, dt float32) particles.Attrs {
	t := progress(age, life)
	phase := 2 * math.Pi * slotHash(index, 5)

	vel := mgl32.Vec3{sin32(age*d.swayFreq+phase) * d.sway, -d.fall, 0}
	vel = vel.Add(d.flow(prev.Position, age))

	return particles.Attrs{
		Position: prev.Position.Add(vel.Mul(dt)),
		Scale:    d.maxScale * sin32(math.Pi*t),
		Color:    prev.Color,
	}
}

// flow samples the noise field at p. The two axes read decorrelated slices
// of the same field.
func (d *Drift) flow(p mgl32.Vec3, age float32) mgl32.Vec3 {
	if d.turbulence == 0 {
		return mgl32.Vec3{}
	}
	x := p.X() * d.noiseScale
	y := p.Y() * d.noiseScale
	return mgl32.Vec3{
		d.noise.Eval3(x, y, age*0.25) * d.turbulence,
		d.noise.Eval3(x+31.7, y-17.3, age*0.25) * d.turbulence,
		0,
	}
}
