// Package renderer draws particle output buffers with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointsfx/camera"
	"github.com/pthm-cable/pointsfx/components"
	"github.com/pthm-cable/pointsfx/particles"
)

// minRadius keeps shrinking points visible as a single pixel.
const minRadius = 0.5

// PointRenderer draws the published prefix of a pool's output buffers as
// screen-space circles.
type PointRenderer struct {
	// Drawn is the number of points drawn by the last Draw call.
	Drawn int
}

// NewPointRenderer creates a new point renderer.
func NewPointRenderer() *PointRenderer {
	return &PointRenderer{}
}

// Draw renders every live point in buf. The rendered diameter is the
// emitter's point size times the per-point scale, at the camera's zoom.
// Points carry their own color when the pool has a color buffer; otherwise
// they use the emitter tint.
func (r *PointRenderer) Draw(cam *camera.Camera, buf *particles.Buffers, app *components.Appearance) {
	r.Drawn = 0
	tint := toRaylib(app.Tint)
	hasColor := buf.HasColor()

	for i := 0; i < buf.Count(); i++ {
		p := buf.Position(i)

		radius := cam.PixelScale(app.PointSize*buf.Scale(i)) / 2
		if radius < minRadius {
			radius = minRadius
		}

		if !cam.IsVisible(p.X(), p.Y(), radius) {
			continue
		}

		color := tint
		if hasColor {
			color = toRaylib(buf.Color(i))
		}

		sx, sy := cam.WorldToScreen(p.X(), p.Y())
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, radius, color)
		r.Drawn++
	}
}

// toRaylib converts a [0,1] float color to an opaque raylib color.
func toRaylib(c particles.Color) rl.Color {
	return rl.Color{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: 255,
	}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
