// Package components defines the ECS components of the particle demo.
package components

import "github.com/pthm-cable/pointsfx/particles"

// Emitter owns one particle pool.
type Emitter struct {
	Name    string
	Species string
	Pool    *particles.Pool
	Paused  bool // paused emitters are not stepped; their last output stays on screen
}

// Appearance controls how an emitter's points are drawn.
type Appearance struct {
	PointSize float32 // screen pixels at scale 1 and zoom 1
	Tint      particles.Color
}
