package particles

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// constSource always yields the same value. Float32 draws from it return
// v / 2^63.
type constSource struct{ v int64 }

func (s constSource) Int63() int64 { return s.v }
func (s constSource) Seed(int64)   {}

func constRand(v int64) *rand.Rand { return rand.New(constSource{v: v}) }

func seeded(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

type updateCall struct {
	index     int
	age, life float32
	prev      Attrs
	dt        float32
}

// recorder is a Policy that marks each particle with its slot index and
// remembers every call it receives.
type recorder struct {
	color   Color
	creates []int
	updates []updateCall
}

func (r *recorder) Create(index int) Attrs {
	r.creates = append(r.creates, index)
	return Attrs{
		Position: mgl32.Vec3{float32(index), 0, 0},
		Scale:    1,
		Color:    r.color,
	}
}

func (r *recorder) Update(index int, age, life float32, prev Attrs, dt float32) Attrs {
	r.updates = append(r.updates, updateCall{index: index, age: age, life: life, prev: prev, dt: dt})
	next := prev
	next.Position[1] = age
	next.Scale = prev.Scale * 0.5
	return next
}

// spawnOne builds a single-slot pool and admits exactly one particle with a
// tick of dt seconds. The birth rate is left at zero afterwards.
func spawnOne(policy Policy, life, dt float32) (*Pool, error) {
	p, err := New(policy, Options{
		Capacity:       1,
		BirthRate:      2 / dt,
		LifeExpectancy: life,
		Rand:           seeded(1),
	})
	if err != nil {
		return nil, err
	}
	p.Update(dt)
	p.SetBirthRate(0)
	return p, nil
}
