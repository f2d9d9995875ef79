package telemetry

import "github.com/pthm-cable/pointsfx/particles"

// emitterWindow accumulates one emitter's events within the current window.
type emitterWindow struct {
	capacity int
	births   int
	deaths   int
	alive    []float64
}

// Collector accumulates per-emitter lifecycle events within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	emitters map[string]*emitterWindow
	order    []string // registration order, used for output order
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
		emitters:            make(map[string]*emitterWindow),
	}
}

// RecordTick records the outcome of one pool update for the named emitter.
func (c *Collector) RecordTick(emitter string, capacity int, st particles.TickStats) {
	w, ok := c.emitters[emitter]
	if !ok {
		w = &emitterWindow{}
		c.emitters[emitter] = w
		c.order = append(c.order, emitter)
	}
	w.capacity = capacity
	w.births += st.Births
	w.deaths += st.Deaths
	w.alive = append(w.alive, float64(st.Alive))
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces one WindowStats per emitter, in registration order, and
// resets counters for the next window.
func (c *Collector) Flush(currentTick int32) []WindowStats {
	elapsed := float64(currentTick-c.windowStartTick) * float64(c.dt)

	out := make([]WindowStats, 0, len(c.order))
	for _, name := range c.order {
		w := c.emitters[name]
		mean, std, p50, p90, peak := ComputeAliveStats(w.alive)

		s := WindowStats{
			WindowStartTick: c.windowStartTick,
			WindowEndTick:   currentTick,
			SimTimeSec:      float64(currentTick) * float64(c.dt),
			Emitter:         name,
			Capacity:        w.capacity,
			Births:          w.births,
			Deaths:          w.deaths,
			AliveMean:       mean,
			AliveStd:        std,
			AliveP50:        p50,
			AliveP90:        p90,
			AliveMax:        int(peak),
		}
		if elapsed > 0 {
			s.BirthsPerSec = float64(w.births) / elapsed
			s.DeathsPerSec = float64(w.deaths) / elapsed
		}
		if w.capacity > 0 {
			s.Occupancy = mean / float64(w.capacity)
		}
		out = append(out, s)

		// Reset for next window
		w.births = 0
		w.deaths = 0
		w.alive = w.alive[:0]
	}

	c.windowStartTick = currentTick
	return out
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
