// Package species provides the concrete particle policies used by the demo.
package species

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
)

// Names recognized by New.
const (
	NameFountain = "fountain"
	NameEmber    = "ember"
	NameDrift    = "drift"
)

// ErrUnknownSpecies is returned by New for names it does not recognize.
var ErrUnknownSpecies = errors.New("unknown species")

// New builds the policy for the named species emitting around origin.
func New(name string, origin mgl32.Vec3, cfg *config.SpeciesConfig, rng *rand.Rand) (particles.Policy, error) {
	var (
		p   particles.Policy
		err error
	)
	switch name {
	case NameFountain:
		p, err = NewFountain(origin, cfg.Fountain, rng)
	case NameEmber:
		p, err = NewEmber(origin, cfg.Ember, rng)
	case NameDrift:
		p, err = NewDrift(origin, cfg.Drift, rng)
	default:
		return nil, fmt.Errorf("building policy %q: %w", name, ErrUnknownSpecies)
	}
	if err != nil {
		return nil, fmt.Errorf("building policy %q: %w", name, err)
	}
	return p, nil
}

// ParseColor converts a hex string such as "#ff8800" to a particle color.
func ParseColor(hex string) (particles.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return particles.Color{}, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	return fromColorful(c), nil
}

func fromColorful(c colorful.Color) particles.Color {
	c = c.Clamped()
	return particles.Color{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// slotHash maps a slot index to a well-mixed value in [0, 1).
// Species use it for per-slot traits that must stay fixed for the
// particle's whole life without storing extra state.
func slotHash(index int, salt uint64) float32 {
	x := uint64(index)*0x9E3779B97F4A7C15 + salt
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return float32(x>>40) / float32(1<<24)
}

func lerp(a, b, t float32) float32 { return a + (b-a)*t }

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }
func cos32(x float32) float32 { return float32(math.Cos(float64(x))) }

// progress returns age/life clamped to [0, 1].
func progress(age, life float32) float32 {
	if life <= 0 {
		return 1
	}
	return mgl32.Clamp(age/life, 0, 1)
}
