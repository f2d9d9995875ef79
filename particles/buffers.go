package particles

import "github.com/go-gl/mathgl/mgl32"

// Buffers holds the dense per-particle attribute arrays published after each
// tick. Only the first Count() entries are meaningful, and they stay valid
// until the next Update. A particle's dense index is not stable across ticks.
type Buffers struct {
	positions []float32 // 3 per particle
	scales    []float32 // 1 per particle
	colors    []float32 // 3 per particle, nil when color is disabled
	count     int
}

func newBuffers(capacity int, useColor bool) *Buffers {
	b := &Buffers{
		positions: make([]float32, 3*capacity),
		scales:    make([]float32, capacity),
	}
	if useColor {
		b.colors = make([]float32, 3*capacity)
	}
	return b
}

// reset empties the logical content. Backing arrays are reused.
func (b *Buffers) reset() {
	b.count = 0
}

// append writes a at the next free dense index.
func (b *Buffers) append(a *Attrs) {
	i := b.count
	b.positions[3*i] = a.Position[0]
	b.positions[3*i+1] = a.Position[1]
	b.positions[3*i+2] = a.Position[2]
	b.scales[i] = a.Scale
	if b.colors != nil {
		b.colors[3*i] = a.Color.R
		b.colors[3*i+1] = a.Color.G
		b.colors[3*i+2] = a.Color.B
	}
	b.count++
}

// Count returns the number of published particles, i.e. the draw range.
func (b *Buffers) Count() int {
	return b.count
}

// HasColor reports whether the color array exists.
func (b *Buffers) HasColor() bool {
	return b.colors != nil
}

// Positions returns the published xyz triples.
func (b *Buffers) Positions() []float32 {
	return b.positions[:3*b.count]
}

// Scales returns the published per-particle scale factors.
func (b *Buffers) Scales() []float32 {
	return b.scales[:b.count]
}

// Colors returns the published rgb triples, or nil when color is disabled.
func (b *Buffers) Colors() []float32 {
	if b.colors == nil {
		return nil
	}
	return b.colors[:3*b.count]
}

// Position returns the position at dense index i.
func (b *Buffers) Position(i int) mgl32.Vec3 {
	return mgl32.Vec3{b.positions[3*i], b.positions[3*i+1], b.positions[3*i+2]}
}

// Scale returns the scale at dense index i.
func (b *Buffers) Scale(i int) float32 {
	return b.scales[i]
}

// Color returns the color at dense index i. It returns the zero Color when
// color is disabled.
func (b *Buffers) Color(i int) Color {
	if b.colors == nil {
		return Color{}
	}
	return Color{R: b.colors[3*i], G: b.colors[3*i+1], B: b.colors[3*i+2]}
}
