package main

import (
	"math"
	"math/rand"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/pointsfx/config"
	"github.com/pthm-cable/pointsfx/particles"
	"github.com/pthm-cable/pointsfx/species"
	"github.com/pthm-cable/pointsfx/telemetry"
)

// Target describes the occupancy an emitter should settle at.
type Target struct {
	Occupancy float64 // desired mean alive/capacity after warm-up
	Peak      float64 // p90 alive/capacity above this is penalized
}

// Penalty weights
const (
	peakWeight  = 4.0
	driftWeight = 0.05 // keeps life expectancy near the configured look
)

// FitnessEvaluator runs headless pools and scores their occupancy.
type FitnessEvaluator struct {
	params   *ParamVector
	emitter  config.EmitterConfig
	species  *config.SpeciesConfig
	dt       float32
	seconds  float64
	seeds    []int64
	target   Target
	baseLife float64

	mu       sync.Mutex
	lastMean float64
	lastP90  float64
}

// NewFitnessEvaluator creates an evaluator for one emitter.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config, emitter string, seconds float64, seeds []int64, target Target) *FitnessEvaluator {
	ec := cfg.Emitters[cfg.Derived.EmitterIndex[emitter]]
	return &FitnessEvaluator{
		params:   params,
		emitter:  ec,
		species:  &cfg.Species,
		dt:       cfg.Derived.DT32,
		seconds:  seconds,
		seeds:    seeds,
		target:   target,
		baseLife: ec.LifeExpectancy,
	}
}

// LastOccupancy returns the mean and p90 occupancy of the most recent
// Evaluate call, averaged over seeds.
func (fe *FitnessEvaluator) LastOccupancy() (mean, p90 float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMean, fe.lastP90
}

// runResult holds occupancy statistics from a single run.
type runResult struct {
	mean, p90 float64
	err       error
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	ec := fe.emitter
	fe.params.ApplyToEmitter(&ec, x)

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.run(ec, s)
		}(i, seed)
	}
	wg.Wait()

	var mean, p90 float64
	for _, r := range results {
		if r.err != nil {
			return math.Inf(1)
		}
		mean += r.mean
		p90 += r.p90
	}
	n := float64(len(results))
	mean /= n
	p90 /= n

	fe.mu.Lock()
	fe.lastMean = mean
	fe.lastP90 = p90
	fe.mu.Unlock()

	return fe.score(mean, p90, ec.LifeExpectancy)
}

// score combines the occupancy error, the peak overshoot and the drift of
// life expectancy away from its configured value.
func (fe *FitnessEvaluator) score(mean, p90, life float64) float64 {
	miss := mean - fe.target.Occupancy
	over := max(p90-fe.target.Peak, 0)
	drift := (life - fe.baseLife) / fe.baseLife
	return miss*miss + peakWeight*over*over + driftWeight*drift*drift
}

// run steps one pool for the configured duration and samples occupancy
// after a warm-up of two maximum lifetimes.
func (fe *FitnessEvaluator) run(ec config.EmitterConfig, seed int64) runResult {
	rng := rand.New(rand.NewSource(seed))
	origin := mgl32.Vec3{float32(ec.Origin[0]), float32(ec.Origin[1]), float32(ec.Origin[2])}

	policy, err := species.New(ec.Species, origin, fe.species, rng)
	if err != nil {
		return runResult{err: err}
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
		return runResult{err: err}
	}

	warmup := int(2 * ec.LifeExpectancy * (1 + ec.LifeVariance) / float64(fe.dt))
	ticks := warmup + int(fe.seconds/float64(fe.dt))

	samples := make([]float64, 0, ticks-warmup)
	for t := 0; t < ticks; t++ {
		pool.Update(fe.dt)
		if t >= warmup {
			samples = append(samples, float64(pool.AliveCount())/float64(ec.Capacity))
		}
	}

	mean, _, _, p90, _ := telemetry.ComputeAliveStats(samples)
	return runResult{mean: mean, p90: p90}
}
