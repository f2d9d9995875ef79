package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointsfx/telemetry"
)

// EmitterRow is one emitter's line in the HUD.
type EmitterRow struct {
	Name     string
	Species  string
	Alive    int
	Capacity int
	Births   int
	Deaths   int
	Paused   bool
	Selected bool
	Swatch   rl.Color
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       int32
	SimTime    float64
	Speed      int
	FPS        int32
	Paused     bool
	TotalAlive int
	Drawn      int
	Emitters   []EmitterRow
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    340,
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	lh := r.Theme.LineHeight

	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | t=%.1fs | Speed: %dx | FPS: %d", data.Tick, data.SimTime, data.Speed, data.FPS),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Alive: %d | Drawn: %d", data.TotalAlive, data.Drawn),
		10, 55, 16, rl.LightGray,
	)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 75, 16, rl.Yellow)

	// Emitter table
	x := int32(10)
	y := int32(100)
	panelH := int32(len(data.Emitters))*(lh*2+4) + r.Theme.Padding*2 + lh
	r.DrawPanel(x, y, h.width, panelH)

	y += r.Theme.Padding
	y = r.DrawSectionHeader(x+r.Theme.Padding, y, "Emitters")

	for _, e := range data.Emitters {
		ex := x + r.Theme.Padding
		r.DrawSwatch(ex, y, e.Swatch)

		nameColor := r.Theme.LabelColor
		if e.Selected {
			nameColor = rl.White
		}
		label := fmt.Sprintf("%s (%s)", e.Name, e.Species)
		if e.Paused {
			label += " [paused]"
		}
		if e.Selected {
			label = "> " + label
		}
		rl.DrawText(label, ex+16, y, r.Theme.FontSize, nameColor)
		rl.DrawText(
			fmt.Sprintf("+%d -%d", e.Births, e.Deaths),
			x+h.width-80, y, r.Theme.FontSize, r.Theme.ValueColor,
		)
		y += lh

		occupancy := float32(0)
		if e.Capacity > 0 {
			occupancy = float32(e.Alive) / float32(e.Capacity)
		}
		rl.DrawText(fmt.Sprintf("%d/%d", e.Alive, e.Capacity), ex+16, y, r.Theme.FontSize, r.Theme.ValueColor)
		y = r.DrawOccupancyBar(ex+110, y, occupancy, h.width-170)
		y += 4
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the tick timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s avg, %s max",
		stats.AvgTickDuration.Round(time.Microsecond),
		stats.MaxTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, phase := range []string{telemetry.PhaseLifecycle, telemetry.PhaseTelemetry, telemetry.PhaseRender} {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", phase, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
