package particles

import "math/rand"

// sampleLife draws the lifespan of a newborn particle.
//
// life = expectancy * (1 + u*variance), u uniform in [-1, 1). Variance is not
// clamped: values above 1 can yield a non-positive life, and such a particle
// dies on its first age check.
func sampleLife(rng *rand.Rand, expectancy, variance float32) float32 {
	if variance == 0 {
		return expectancy
	}
	u := rng.Float32()*2 - 1
	return expectancy * (1 + u*variance)
}
