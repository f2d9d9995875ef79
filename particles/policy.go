// Package particles implements a fixed-capacity point particle pool.
//
// A Pool owns every slot for its whole lifetime. Each call to Update ages the
// living slots, retires the expired ones, admits new births according to the
// birth rate, and compacts the survivors into dense output buffers that a
// renderer can upload as-is.
package particles

import "github.com/go-gl/mathgl/mgl32"

// Color is an RGB triple in [0, 1].
type Color struct {
	R, G, B float32
}

// Attrs is the per-particle attribute set produced by a Policy.
type Attrs struct {
	Position mgl32.Vec3
	Scale    float32
	Color    Color // ignored when the pool has color disabled
}

// Policy defines how one species of particle is born and how it evolves.
//
// Create is called once when slot index is reborn and must return a fully
// initialized attribute set. Update is called once per tick for every
// surviving particle with its new age, its sampled life, the attributes it
// had after the previous tick and the tick duration.
type Policy interface {
	Create(index int) Attrs
	Update(index int, age, life float32, prev Attrs, dt float32) Attrs
}

// PolicyFuncs adapts a pair of functions to the Policy interface.
type PolicyFuncs struct {
	CreateFunc func(index int) Attrs
	UpdateFunc func(index int, age, life float32, prev Attrs, dt float32) Attrs
}

// Create calls f.CreateFunc.
func (f PolicyFuncs) Create(index int) Attrs {
	return f.CreateFunc(index)
}

// Update calls f.UpdateFunc.
func (f PolicyFuncs) Update(index int, age, life float32, prev Attrs, dt float32) Attrs {
	return f.UpdateFunc(index, age, life, prev, dt)
}

// validPolicy reports whether p can be called.
func validPolicy(p Policy) bool {
	switch f := p.(type) {
	case nil:
		return false
	case PolicyFuncs:
		return f.CreateFunc != nil && f.UpdateFunc != nil
	case *PolicyFuncs:
		return f != nil && f.CreateFunc != nil && f.UpdateFunc != nil
	}
	return true
}
