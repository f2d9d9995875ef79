package particles

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	valid := DefaultOptions(10)

	tests := []struct {
		name   string
		policy Policy
		mutate func(*Options)
		want   error
	}{
		{"zero capacity", &recorder{}, func(o *Options) { o.Capacity = 0 }, ErrInvalidCapacity},
		{"negative capacity", &recorder{}, func(o *Options) { o.Capacity = -3 }, ErrInvalidCapacity},
		{"nil policy", nil, func(*Options) {}, ErrNilPolicy},
		{"funcs without update", PolicyFuncs{CreateFunc: func(int) Attrs { return Attrs{} }}, func(*Options) {}, ErrNilPolicy},
		{"nil funcs pointer", (*PolicyFuncs)(nil), func(*Options) {}, ErrNilPolicy},
		{"zero life", &recorder{}, func(o *Options) { o.LifeExpectancy = 0 }, ErrInvalidLifeExpectancy},
		{"negative rate", &recorder{}, func(o *Options) { o.BirthRate = -1 }, ErrNegativeBirthRate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := valid
			tc.mutate(&opts)
			p, err := New(tc.policy, opts)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewExposesConfiguration(t *testing.T) {
	p, err := New(&recorder{}, Options{
		Capacity:       32,
		BirthRate:      12,
		LifeExpectancy: 2,
		LifeVariance:   0.25,
		UseColor:       true,
	})
	require.NoError(t, err)

	assert.Equal(t, 32, p.Capacity())
	assert.True(t, p.UseColor())
	assert.Equal(t, float32(12), p.BirthRate())
	assert.Equal(t, float32(2), p.LifeExpectancy())
	assert.Equal(t, float32(0.25), p.LifeVariance())
	assert.Equal(t, 0, p.AliveCount())

	p.SetBirthRate(3)
	p.SetLifeExpectancy(4)
	p.SetLifeVariance(0.5)
	assert.Equal(t, float32(3), p.BirthRate())
	assert.Equal(t, float32(4), p.LifeExpectancy())
	assert.Equal(t, float32(0.5), p.LifeVariance())
}

func TestPolicyFuncsDrivesPool(t *testing.T) {
	created := 0
	p, err := New(PolicyFuncs{
		CreateFunc: func(int) Attrs { created++; return Attrs{Scale: 2} },
		UpdateFunc: func(_ int, _, _ float32, prev Attrs, _ float32) Attrs { return prev },
	}, Options{Capacity: 4, BirthRate: 8, LifeExpectancy: 10, Rand: seeded(1)})
	require.NoError(t, err)

	p.Update(0.25)
	assert.Equal(t, 2, created)
	assert.Equal(t, []float32{2, 2}, p.Output().Scales())
}

func TestZeroBirthRateStaysEmpty(t *testing.T) {
	rec := &recorder{}
	p, err := New(rec, Options{Capacity: 10, BirthRate: 0, LifeExpectancy: 1, Rand: seeded(1)})
	require.NoError(t, err)

	for _, dt := range []float32{0.001, 0.016, 0.5, 1, 10, 1000} {
		p.Update(dt)
		assert.Equal(t, 0, p.AliveCount(), "dt=%v", dt)
	}
	assert.Empty(t, rec.creates)
}

func TestSingleSlotNeverExceedsOne(t *testing.T) {
	p, err := New(&recorder{}, Options{Capacity: 1, BirthRate: 1000, LifeExpectancy: 1.5, Rand: seeded(3)})
	require.NoError(t, err)

	p.Update(1)
	assert.Equal(t, 1, p.AliveCount())
	assert.Equal(t, 1, p.LastTick().Births)

	for i := 0; i < 50; i++ {
		p.Update(1)
		assert.LessOrEqual(t, p.AliveCount(), 1)
		assert.LessOrEqual(t, p.LastTick().Births, 1)
	}
}

func TestBornParticleAppearsSameTick(t *testing.T) {
	rec := &recorder{}
	p, err := New(rec, Options{Capacity: 3, BirthRate: 2, LifeExpectancy: 1, Rand: seeded(1)})
	require.NoError(t, err)

	p.Update(1)

	out := p.Output()
	require.Equal(t, 2, out.Count())
	assert.Equal(t, []int{0, 1}, rec.creates)
	assert.Empty(t, rec.updates, "newborns are not updated on their birth tick")
	assert.Equal(t, float32(0), out.Position(0).X())
	assert.Equal(t, float32(1), out.Position(1).X())
	assert.False(t, p.Alive(2))
}

func TestDyingParticleExcludedSameTick(t *testing.T) {
	p, err := spawnOne(&recorder{}, 0.5, 0.3)
	require.NoError(t, err)
	require.Equal(t, 1, p.AliveCount())

	p.Update(0.3) // age 0.3 <= 0.5
	assert.Equal(t, 1, p.AliveCount())
	assert.True(t, p.Alive(0))

	p.Update(0.3) // age 0.6 > 0.5
	assert.Equal(t, 0, p.AliveCount())
	assert.False(t, p.Alive(0))
	assert.Equal(t, TickStats{Births: 0, Deaths: 1, Alive: 0}, p.LastTick())
}

func TestLifetimeTickCount(t *testing.T) {
	tests := []struct {
		name      string
		life, dt  float32
		published int // ticks with the particle in the output, birth tick included
	}{
		{"non-integer ratio", 0.9, 0.25, 4},                   // ceil(0.9/0.25)
		{"integer ratio keeps the boundary tick", 1, 0.25, 5}, // age == life survives
		{"life shorter than a step", 0.1, 0.25, 1},
		{"half life", 0.5, 0.3, 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := spawnOne(&recorder{}, tc.life, tc.dt)
			require.NoError(t, err)

			published := 0
			for p.AliveCount() == 1 {
				published++
				p.Update(tc.dt)
				require.Less(t, published, 100)
			}
			assert.Equal(t, tc.published, published)
		})
	}
}

func TestZeroVarianceLifeIsExact(t *testing.T) {
	rec := &recorder{}
	p, err := New(rec, Options{Capacity: 200, BirthRate: 50, LifeExpectancy: 0.7, Rand: seeded(11)})
	require.NoError(t, err)

	for i := 0; i < 60; i++ {
		p.Update(0.05)
	}
	require.NotEmpty(t, rec.updates)
	for _, c := range rec.updates {
		assert.Equal(t, float32(0.7), c.life)
	}
}

func TestNonPositiveLifeDiesOnNextTick(t *testing.T) {
	// A zero draw gives u = -1, so life = 1 * (1 - 2) = -1.
	p, err := New(&recorder{}, Options{
		Capacity:       4,
		BirthRate:      4,
		LifeExpectancy: 1,
		LifeVariance:   2,
		Rand:           constRand(0),
	})
	require.NoError(t, err)

	p.Update(1)
	assert.Equal(t, 4, p.AliveCount())

	p.SetBirthRate(0)
	p.Update(0.001)
	assert.Equal(t, 0, p.AliveCount())
	assert.Equal(t, 4, p.LastTick().Deaths)
}

func TestUpdateReceivesAgeAndPreviousAttrs(t *testing.T) {
	rec := &recorder{}
	p, err := spawnOne(rec, 10, 0.5)
	require.NoError(t, err)

	p.Update(0.5)
	p.Update(0.5)

	require.Len(t, rec.updates, 2)
	first, second := rec.updates[0], rec.updates[1]
	assert.Equal(t, float32(0.5), first.age)
	assert.Equal(t, float32(1), second.age)
	assert.Equal(t, float32(10), first.life)
	assert.Equal(t, float32(0.5), first.dt)
	assert.Equal(t, float32(1), first.prev.Scale)
	assert.Equal(t, float32(0.5), second.prev.Scale)
	assert.Equal(t, float32(0.5), second.prev.Position.Y())
	assert.Equal(t, float32(0.25), p.Output().Scale(0))
}

func TestNonPositiveDeltaIsNoOp(t *testing.T) {
	rec := &recorder{}
	p, err := New(rec, Options{Capacity: 8, BirthRate: 16, LifeExpectancy: 1, Rand: seeded(5)})
	require.NoError(t, err)

	p.Update(0.25)
	require.Equal(t, 4, p.AliveCount())
	before := append([]float32(nil), p.Output().Positions()...)
	calls := len(rec.creates) + len(rec.updates)

	for _, dt := range []float32{0, -1, float32(math.NaN())} {
		p.Update(dt)
		assert.Equal(t, 4, p.AliveCount(), "dt=%v", dt)
		assert.Equal(t, 0, p.LastTick().Births)
		assert.Equal(t, before, p.Output().Positions())
	}
	assert.Equal(t, calls, len(rec.creates)+len(rec.updates))
}

func TestCompactionFollowsSlotOrder(t *testing.T) {
	p, err := New(&recorder{}, Options{
		Capacity:       64,
		BirthRate:      120,
		LifeExpectancy: 0.5,
		LifeVariance:   0.9,
		Rand:           seeded(42),
	})
	require.NoError(t, err)

	for tick := 0; tick < 300; tick++ {
		p.Update(1.0 / 30)

		out := p.Output()
		var alive []int
		for i := 0; i < p.Capacity(); i++ {
			if p.Alive(i) {
				alive = append(alive, i)
			}
		}

		require.Equal(t, len(alive), out.Count(), "tick %d", tick)
		require.GreaterOrEqual(t, out.Count(), 0)
		require.LessOrEqual(t, out.Count(), p.Capacity())
		require.Len(t, out.Positions(), 3*out.Count())
		require.Len(t, out.Scales(), out.Count())
		for k, slot := range alive {
			assert.Equal(t, float32(slot), out.Position(k).X(), "tick %d dense %d", tick, k)
		}
	}
}

func TestColorPath(t *testing.T) {
	want := Color{R: 1, G: 0.5, B: 0.25}

	colored, err := New(&recorder{color: want}, Options{Capacity: 4, BirthRate: 8, LifeExpectancy: 1, UseColor: true, Rand: seeded(1)})
	require.NoError(t, err)
	colored.Update(0.25)

	out := colored.Output()
	require.True(t, out.HasColor())
	assert.Equal(t, []float32{1, 0.5, 0.25, 1, 0.5, 0.25}, out.Colors())
	assert.Equal(t, want, out.Color(1))

	rec := &recorder{color: want}
	plain, err := New(rec, Options{Capacity: 4, BirthRate: 8, LifeExpectancy: 1, Rand: seeded(1)})
	require.NoError(t, err)
	plain.Update(0.25)
	plain.Update(0.25)

	assert.False(t, plain.Output().HasColor())
	assert.Nil(t, plain.Output().Colors())
	assert.Equal(t, Color{}, plain.Output().Color(0))
	require.NotEmpty(t, rec.updates)
	assert.Equal(t, Color{}, rec.updates[0].prev.Color)
}

func TestReset(t *testing.T) {
	p, err := New(&recorder{}, Options{Capacity: 8, BirthRate: 16, LifeExpectancy: 1, Rand: seeded(5)})
	require.NoError(t, err)
	p.Update(0.25)
	require.Equal(t, 4, p.AliveCount())

	p.Reset()
	assert.Equal(t, 0, p.AliveCount())
	for i := 0; i < p.Capacity(); i++ {
		assert.False(t, p.Alive(i))
	}
	assert.Equal(t, TickStats{}, p.LastTick())
}

func TestBirthsConvergeToRate(t *testing.T) {
	const (
		rate  = 8
		dt    = 0.25
		ticks = 2000
	)

	for seed := int64(0); seed < 5; seed++ {
		p, err := New(&recorder{}, Options{
			Capacity:       rate * ticks,
			BirthRate:      rate,
			LifeExpectancy: 1e9,
			Rand:           seeded(seed),
		})
		require.NoError(t, err)

		births := 0
		for i := 0; i < ticks; i++ {
			p.Update(dt)
			births += p.LastTick().Births
		}
		want := rate * dt * ticks
		assert.InDelta(t, want, births, want*0.01, "seed %d", seed)
		assert.Equal(t, births, p.AliveCount())
	}
}

func TestAliveCountBoundedUnderLoad(t *testing.T) {
	p, err := New(&recorder{}, Options{
		Capacity:       16,
		BirthRate:      10000,
		LifeExpectancy: 0.2,
		LifeVariance:   1,
		Rand:           seeded(9),
	})
	require.NoError(t, err)

	for i := 0; i < 500; i++ {
		p.Update(float32(i%7+1) / 60)
		st := p.LastTick()
		require.GreaterOrEqual(t, st.Alive, 0)
		require.LessOrEqual(t, st.Alive, p.Capacity())
		require.Equal(t, st.Alive, p.AliveCount())
	}
}
