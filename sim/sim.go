// Package sim runs the particle emitters without any rendering dependency.
// The graphical front end in package game and the headless CLI both drive
// a Simulation.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/pointsfx/components"
	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
	"github.com/pthm-cable/pointsfx/species"
	"github.com/pthm-cable/pointsfx/telemetry"
)

// Options configures a Simulation.
type Options struct {
	Seed           int64   // 0 = time-based
	LogStats       bool    // log window stats via slog
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	StepsPerUpdate int     // 0 = use config
}

// Simulation holds the emitter world and its telemetry.
type Simulation struct {
	cfg   *config.Config
	world *ecs.World
	seed  int64

	emitterMapper *ecs.Map2[components.Emitter, components.Appearance]
	emitterFilter *ecs.Filter2[components.Emitter, components.Appearance]
	emitters      []ecs.Entity // config order

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func([]telemetry.WindowStats)

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
}

// New creates a simulation with one entity per configured emitter.
func New(cfg *config.Config, opts Options) (*Simulation, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Simulation.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = cfg.Simulation.StepsPerUpdate
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:            cfg,
		world:          world,
		seed:           seed,
		emitterMapper:  ecs.NewMap2[components.Emitter, components.Appearance](world),
		emitterFilter:  ecs.NewFilter2[components.Emitter, components.Appearance](world),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
	}

	if err := s.spawnEmitters(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	s.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}

	return s, nil
}

// spawnEmitters creates one pool per configured emitter. Each emitter gets
// its own generator so adding an emitter does not perturb the others.
func (s *Simulation) spawnEmitters() error {
	for i, ec := range s.cfg.Emitters {
		rng := rand.New(rand.NewSource(s.seed + int64(i)))
		origin := mgl32.Vec3{float32(ec.Origin[0]), float32(ec.Origin[1]), float32(ec.Origin[2])}

		policy, err := species.New(ec.Species, origin, &s.cfg.Species, rng)
		if err != nil {
			return fmt.Errorf("emitter %q: %w", ec.Name, err)
		}

		pool, err := particles.New(policy, particles.Options{
			Capacity:       ec.Capacity,
			BirthRate:      float32(ec.BirthRate),
			LifeExpectancy: float32(ec.LifeExpectancy),
			LifeVariance:   float32(ec.LifeVariance),
			UseColor:       ec.UseColor,
			Rand:           rng,
		})
		if err != nil {
			return fmt.Errorf("emitter %q: %w", ec.Name, err)
		}

		tint, err := species.ParseColor(ec.Tint)
		if err != nil {
			return fmt.Errorf("emitter %q: %w", ec.Name, err)
		}

		em := components.Emitter{Name: ec.Name, Species: ec.Species, Pool: pool}
		app := components.Appearance{PointSize: float32(ec.PointSize), Tint: tint}
		s.emitters = append(s.emitters, s.emitterMapper.NewEntity(&em, &app))

		slog.Debug("emitter created",
			"name", ec.Name,
			"species", ec.Species,
			"capacity", ec.Capacity,
			"use_color", ec.UseColor,
		)
	}
	return nil
}

// Update runs StepsPerUpdate ticks unless paused.
func (s *Simulation) Update() {
	if s.paused {
		return
	}
	for i := 0; i < s.stepsPerUpdate; i++ {
		s.Step()
	}
}

// Step advances every running emitter by one tick of simulation.dt.
func (s *Simulation) Step() {
	dt := s.cfg.Derived.DT32

	s.perfCollector.StartTick()
	s.perfCollector.StartPhase(telemetry.PhaseLifecycle)

	query := s.emitterFilter.Query()
	for query.Next() {
		em, _ := query.Get()
		if em.Paused {
			continue
		}
		em.Pool.Update(dt)
		s.collector.RecordTick(em.Name, em.Pool.Capacity(), em.Pool.LastTick())
	}

	s.tick++

	s.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	s.flushTelemetry()
	s.perfCollector.EndTick()
}

// Tick returns the number of completed ticks.
func (s *Simulation) Tick() int32 { return s.tick }

// SimTime returns elapsed simulation time in seconds.
func (s *Simulation) SimTime() float64 {
	return float64(s.tick) * float64(s.cfg.Derived.DT32)
}

// Paused reports whether Update is suspended.
func (s *Simulation) Paused() bool { return s.paused }

// TogglePause suspends or resumes Update.
func (s *Simulation) TogglePause() { s.paused = !s.paused }

// StepsPerUpdate returns the number of ticks per Update call.
func (s *Simulation) StepsPerUpdate() int { return s.stepsPerUpdate }

// SetStepsPerUpdate sets the ticks per Update call, clamped to [1, 10].
func (s *Simulation) SetStepsPerUpdate(n int) {
	s.stepsPerUpdate = min(max(n, 1), 10)
}

// EmitterCount returns the number of emitters.
func (s *Simulation) EmitterCount() int { return len(s.emitters) }

// Emitter returns the components of the i-th emitter in config order.
func (s *Simulation) Emitter(i int) (*components.Emitter, *components.Appearance) {
	return s.emitterMapper.Get(s.emitters[i])
}

// EmitterConfig returns the configuration the i-th emitter was built from.
func (s *Simulation) EmitterConfig(i int) *config.EmitterConfig {
	return &s.cfg.Emitters[i]
}

// TotalAlive returns the number of published particles across all emitters.
func (s *Simulation) TotalAlive() int {
	total := 0
	query := s.emitterFilter.Query()
	for query.Next() {
		em, _ := query.Get()
		total += em.Pool.AliveCount()
	}
	return total
}

// Perf returns the tick timing collector.
func (s *Simulation) Perf() *telemetry.PerfCollector { return s.perfCollector }

// SetStatsCallback registers a function called with each flushed window.
func (s *Simulation) SetStatsCallback(fn func([]telemetry.WindowStats)) {
	s.statsCallback = fn
}

// Close flushes and closes telemetry output.
func (s *Simulation) Close() error {
	return s.outputManager.Close()
}
