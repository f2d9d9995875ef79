package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointsfx/components"
	"github.com/pthm-cable/pointsfx/config"
)

// ControlLimits bounds the tuning sliders for one emitter.
type ControlLimits struct {
	MaxRate float32
	MaxLife float32
}

// LimitsFor derives slider ranges from an emitter's configured values.
func LimitsFor(ec *config.EmitterConfig) ControlLimits {
	return ControlLimits{
		MaxRate: max(4*float32(ec.BirthRate), 10),
		MaxLife: max(4*float32(ec.LifeExpectancy), 1),
	}
}

// ControlActions reports button presses from the last Draw.
type ControlActions struct {
	TogglePause bool
	Reset       bool
}

// ControlPanel renders raygui sliders for the selected emitter's birth rate,
// life expectancy and life variance. Slider changes are applied to the pool
// immediately.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlPanel creates a new control panel.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies inside the panel.
func (c *ControlPanel) Contains(px, py float32) bool {
	if !c.visible {
		return false
	}
	return px >= float32(c.x) && px <= float32(c.x+c.width) &&
		py >= float32(c.y) && py <= float32(c.y+c.height())
}

func (c *ControlPanel) height() int32 {
	return c.renderer.Theme.Padding*2 + 4*38 + 30
}

// Draw renders the panel for em and applies slider changes to its pool.
func (c *ControlPanel) Draw(em *components.Emitter, lim ControlLimits) ControlActions {
	var actions ControlActions
	if !c.visible || em == nil {
		return actions
	}

	r := c.renderer
	pad := r.Theme.Padding
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x + pad)
	y := float32(c.y + pad)
	sliderW := float32(c.width-pad*2) - 50

	rl.DrawText(fmt.Sprintf("Emitter: %s", em.Name), int32(x), int32(y), 16, rl.White)
	y += 26

	pool := em.Pool

	rate := c.slider(x, &y, sliderW, "Birth rate (/s)", pool.BirthRate(), 0, lim.MaxRate, "%.0f")
	if rate != pool.BirthRate() {
		pool.SetBirthRate(rate)
	}

	life := c.slider(x, &y, sliderW, "Life expectancy (s)", pool.LifeExpectancy(), 0.05, lim.MaxLife, "%.2f")
	if life != pool.LifeExpectancy() {
		pool.SetLifeExpectancy(life)
	}

	variance := c.slider(x, &y, sliderW, "Life variance", pool.LifeVariance(), 0, 1, "%.2f")
	if variance != pool.LifeVariance() {
		pool.SetLifeVariance(variance)
	}

	y += 4
	pauseText := "Pause"
	if em.Paused {
		pauseText = "Resume"
	}
	btnW := (sliderW + 40) / 2
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: btnW - 4, Height: 24}, pauseText) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: x + btnW, Y: y, Width: btnW - 4, Height: 24}, "Reset") {
		actions.Reset = true
	}

	return actions
}

// slider draws a labelled slider and advances y past it.
func (c *ControlPanel) slider(x float32, y *float32, w float32, label string, value, lo, hi float32, format string) float32 {
	t := c.renderer.Theme
	rl.DrawText(label, int32(x), int32(*y), t.FontSize, t.LabelColor)
	*y += 14

	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: w, Height: 16},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+w+6), int32(*y+2), t.FontSize, t.ValueColor)
	*y += 24
	return v
}
