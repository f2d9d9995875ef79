package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated lifecycle statistics of one emitter for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Emitter  string `csv:"emitter"`
	Capacity int    `csv:"capacity"`

	// Events during window
	Births       int     `csv:"births"`
	Deaths       int     `csv:"deaths"`
	BirthsPerSec float64 `csv:"births_per_sec"`
	DeathsPerSec float64 `csv:"deaths_per_sec"`

	// Alive count distribution over the window's ticks
	AliveMean float64 `csv:"alive_mean"`
	AliveStd  float64 `csv:"alive_std"`
	AliveP50  float64 `csv:"alive_p50"`
	AliveP90  float64 `csv:"alive_p90"`
	AliveMax  int     `csv:"alive_max"`

	// Mean fraction of capacity in use
	Occupancy float64 `csv:"occupancy"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAliveStats calculates mean, sample standard deviation, median, p90
// and max of per-tick alive counts.
func ComputeAliveStats(values []float64) (mean, std, p50, p90, peak float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	peak = sorted[n-1]

	return mean, std, p50, p90, peak
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.String("emitter", s.Emitter),
		slog.Int("capacity", s.Capacity),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("births_per_sec", s.BirthsPerSec),
		slog.Float64("deaths_per_sec", s.DeathsPerSec),
		slog.Float64("alive_mean", s.AliveMean),
		slog.Float64("alive_std", s.AliveStd),
		slog.Float64("alive_p50", s.AliveP50),
		slog.Float64("alive_p90", s.AliveP90),
		slog.Int("alive_max", s.AliveMax),
		slog.Float64("occupancy", s.Occupancy),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"emitter", s.Emitter,
		"births", s.Births,
		"deaths", s.Deaths,
		"births_per_sec", s.BirthsPerSec,
		"alive_mean", s.AliveMean,
		"alive_max", s.AliveMax,
		"occupancy", s.Occupancy,
	)
}
