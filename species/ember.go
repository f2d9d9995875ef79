package species

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
)

// Ember particles rise from a disk, wobble sideways and cool from HotColor to
// CoolColor over their life. Without a color-enabled pool only the motion
// and scale are visible.
type Ember struct {
	origin     mgl32.Vec3
	radius     float32
	rise       float32
	wobble     float32
	wobbleFreq float32
	startScale float32
	hot, cool  colorful.Color
	rng        *rand.Rand
}

// NewEmber creates an ember policy.
func NewEmber(origin mgl32.Vec3, cfg config.EmberConfig, rng *rand.Rand) (*Ember, error) {
	hot, err := colorful.Hex(cfg.HotColor)
	if err != nil {
		return nil, err
	}
	cool, err := colorful.Hex(cfg.CoolColor)
	if err != nil {
		return nil, err
	}
	return &Ember{
		origin:     origin,
		radius:     float32(cfg.Radius),
		rise:       float32(cfg.RiseSpeed),
		wobble:     float32(cfg.Wobble),
		wobbleFreq: float32(cfg.WobbleFreq),
		startScale: float32(cfg.StartScale),
		hot:        hot,
		cool:       cool,
		rng:        rng,
	}, nil
}

// Create places a particle uniformly on the spawn disk in the XZ plane.
func (e *Ember) Create(index int) particles.Attrs {
	r := e.radius * float32(math.Sqrt(float64(e.rng.Float32())))
	a := 2 * math.Pi * e.rng.Float32()
	return particles.Attrs{
		Position: e.origin.Add(mgl32.Vec3{r * cos32(a), 0, r * sin32(a)}),
		Scale:    e.startScale,
		Color:    fromColorful(e.hot),
	}
}

// Update lifts and sways the particle and moves its color toward cool.
func (e *Ember) Update(index int, age, life float32, prev particles.Attrs, dt float32) particles.Attrs {
	t := progress(age, life)
	phase := 2 * math.Pi * slotHash(index, 4)
	sway := sin32(age*e.wobbleFreq+phase) * e.wobble

	return particles.Attrs{
		Position: prev.Position.Add(mgl32.Vec3{sway * dt, e.rise * dt, 0}),
		Scale:    e.startScale * (1 - t),
		Color:    fromColorful(e.hot.BlendHcl(e.cool, float64(t))),
	}
}
