// Package main searches physics parameters for fast, stable settling.
package main

import (
	"math"

	"github.com/pthm-cable/fruitfall/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "ground_friction", Path: "ground.friction", Min: 0.1, Max: 2.0, Default: 1.0},
			{Name: "velocity_iterations", Path: "physics.velocity_iterations", Min: 1, Max: 12, Default: 6},
			{Name: "position_iterations", Path: "physics.position_iterations", Min: 1, Max: 8, Default: 2},
			{Name: "step_hz", Path: "physics.step", Min: 30, Max: 120, Default: 60},
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
		clamped[i] = math.Max(spec.Min, math.Min(spec.Max, v[i]))
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order. Iteration counts are rounded.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Ground.Friction = clamped[0]
	cfg.Physics.VelocityIterations = int(math.Round(clamped[1]))
	cfg.Physics.PositionIterations = int(math.Round(clamped[2]))
	cfg.Physics.Step = 1 / clamped[3]
	if cfg.Physics.MaxFrameDelta < cfg.Physics.Step {
		cfg.Physics.MaxFrameDelta = cfg.Physics.Step
	}
	cfg.Derived.StepHz = clamped[3]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Ground.Friction,
		float64(cfg.Physics.VelocityIterations),
		float64(cfg.Physics.PositionIterations),
		1 / cfg.Physics.Step,
	}
}
