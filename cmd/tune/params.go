package main

import (
	"github.com/pthm-cable/pointsfx/config"
)

// ParamSpec defines a single tunable emitter parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the tunable knobs of one emitter, in the order
// birth_rate, life_expectancy, life_variance.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector derives search bounds around an emitter's configured values.
func NewParamVector(ec *config.EmitterConfig) *ParamVector {
	rate := max(ec.BirthRate, 1)
	life := ec.LifeExpectancy
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "birth_rate", Min: 0.1 * rate, Max: 4 * rate, Default: ec.BirthRate},
			{Name: "life_expectancy", Min: 0.25 * life, Max: 4 * life, Default: life},
			{Name: "life_variance", Min: 0, Max: 0.9, Default: min(ec.LifeVariance, 0.9)},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToEmitter writes clamped parameter values into an emitter config.
func (pv *ParamVector) ApplyToEmitter(ec *config.EmitterConfig, values []float64) {
	clamped := pv.Clamp(values)
	ec.BirthRate = clamped[0]
	ec.LifeExpectancy = clamped[1]
	ec.LifeVariance = clamped[2]
}
