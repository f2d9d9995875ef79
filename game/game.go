// Package game is the raylib front end: it owns the window-side state
// (camera, renderers, panels) around a sim.Simulation.
package game

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/pointsfx/camera"
	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/renderer"
	"github.com/pthm-cable/pointsfx/sim"
	"github.com/pthm-cable/pointsfx/telemetry"
	"github.com/pthm-cable/pointsfx/ui"
)

const controlsLegend = "[Space] pause  [</>] speed  [Tab] emitter  [P] pause emitter  [R] reset  [C] panel  [F3] perf  [Home] camera"

// Game holds the graphical state around a simulation.
type Game struct {
	cfg *config.Config
	sim *sim.Simulation

	camera    *camera.Camera
	points    *renderer.PointRenderer
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlPanel
	limits    []ui.ControlLimits

	// Selection and overlays
	selected int
	showPerf bool

	// Mouse drag panning
	dragging  bool
	lastMouse rl.Vector2

	// Periodic console report
	logInterval int32
	lastLogTick int32

	screenWidth, screenHeight float32
	drawn                     int
}

// NewGame creates the simulation and the window-side state. The raylib
// window must already be open.
func NewGame(cfg *config.Config, opts sim.Options) (*Game, error) {
	s, err := sim.New(cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("creating simulation: %w", err)
	}

	w := cfg.Derived.ScreenW32
	h := cfg.Derived.ScreenH32

	cam := camera.New(w, h, float32(cfg.Camera.CenterX), float32(cfg.Camera.CenterY), float32(cfg.Camera.PixelsPerUnit))
	cam.MinZoom = float32(cfg.Camera.MinZoom)
	cam.MaxZoom = float32(cfg.Camera.MaxZoom)

	g := &Game{
		cfg:          cfg,
		sim:          s,
		camera:       cam,
		points:       renderer.NewPointRenderer(),
		hud:          ui.NewHUD(),
		perfPanel:    ui.NewPerfPanel(int32(w)-260, 10),
		controls:     ui.NewControlPanel(int32(w)-290, int32(h)-240, 280),
		screenWidth:  w,
		screenHeight: h,
	}

	for i := range cfg.Emitters {
		g.limits = append(g.limits, ui.LimitsFor(&cfg.Emitters[i]))
	}

	if opts.LogStats {
		// Report roughly every stats window
		g.logInterval = int32(cfg.Telemetry.StatsWindow / float64(cfg.Derived.DT32))
	}

	return g, nil
}

// Update handles input and advances the simulation.
func (g *Game) Update() {
	g.handleInput()
	g.sim.Update()

	if g.logInterval > 0 && g.sim.Tick()-g.lastLogTick >= g.logInterval {
		g.lastLogTick = g.sim.Tick()
		g.sim.LogState()
	}
}

// Draw renders the frame.
func (g *Game) Draw() {
	start := time.Now()
	perf := g.sim.Perf()
	perf.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 8, G: 10, B: 16, A: 255})

	g.drawn = 0
	for i := 0; i < g.sim.EmitterCount(); i++ {
		em, app := g.sim.Emitter(i)
		g.points.Draw(g.camera, em.Pool.Output(), app)
		g.drawn += g.points.Drawn
	}

	g.drawHUD()

	if g.showPerf {
		g.perfPanel.Draw(perf.Stats())
	}

	if g.sim.EmitterCount() > 0 {
		em, _ := g.sim.Emitter(g.selected)
		actions := g.controls.Draw(em, g.limits[g.selected])
		if actions.TogglePause {
			em.Paused = !em.Paused
		}
		if actions.Reset {
			em.Pool.Reset()
		}
	}

	g.hud.DrawControls(int32(g.screenWidth), int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()

	perf.AddToLastTick(telemetry.PhaseRender, time.Since(start))
}

// drawHUD assembles the per-emitter rows and draws the HUD.
func (g *Game) drawHUD() {
	data := ui.HUDData{
		Title:      "pointsfx",
		Tick:       g.sim.Tick(),
		SimTime:    g.sim.SimTime(),
		Speed:      g.sim.StepsPerUpdate(),
		FPS:        rl.GetFPS(),
		Paused:     g.sim.Paused(),
		TotalAlive: g.sim.TotalAlive(),
		Drawn:      g.drawn,
	}

	for i := 0; i < g.sim.EmitterCount(); i++ {
		em, app := g.sim.Emitter(i)
		last := em.Pool.LastTick()
		data.Emitters = append(data.Emitters, ui.EmitterRow{
			Name:     em.Name,
			Species:  em.Species,
			Alive:    em.Pool.AliveCount(),
			Capacity: em.Pool.Capacity(),
			Births:   last.Births,
			Deaths:   last.Deaths,
			Paused:   em.Paused,
			Selected: i == g.selected,
			Swatch: rl.Color{
				R: uint8(app.Tint.R * 255),
				G: uint8(app.Tint.G * 255),
				B: uint8(app.Tint.B * 255),
				A: 255,
			},
		})
	}

	g.hud.Draw(data)
}

// Unload releases resources and closes telemetry output.
func (g *Game) Unload() error {
	return g.sim.Close()
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.sim.Tick()
}
