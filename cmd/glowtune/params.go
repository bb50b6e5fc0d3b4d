// Package main provides CMA-ES search over spark field parameters.
package main

import (
	"github.com/emberfield/sparks/config"
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
			// Interaction
			{Name: "radius", Path: "interaction.radius", Min: 60, Max: 200, Default: 120},
			{Name: "activation", Path: "interaction.activation_threshold", Min: 0.05, Max: 0.35, Default: 0.15},
			{Name: "conn_rate", Path: "interaction.connection_rate_per_sec", Min: 2, Max: 12, Default: 6},
			{Name: "conn_decay", Path: "interaction.connection_decay_per_sec", Min: 1, Max: 8, Default: 4},
			{Name: "color_rate", Path: "interaction.color_rate_per_sec", Min: 0.1, Max: 1.5, Default: 0.6},
			// Energy
			{Name: "energy_decay", Path: "energy.decay_per_sec", Min: 0.01, Max: 0.12, Default: 0.04},
			{Name: "transfer_rate", Path: "energy.transfer_rate_per_sec", Min: 0.2, Max: 2.0, Default: 0.9},
			{Name: "energy_floor", Path: "energy.floor", Min: 0.2, Max: 0.6, Default: 0.35},
			// Motion
			{Name: "max_speed", Path: "motion.max_speed", Min: 20, Max: 80, Default: 40},
			{Name: "drift", Path: "motion.drift_strength", Min: 4, Max: 30, Default: 14},
			// Flows
			{Name: "flow_spawn", Path: "flow.spawn_rate", Min: 0.005, Max: 0.06, Default: 0.02},
			{Name: "flow_visibility", Path: "flow.visibility_threshold", Min: 0.15, Max: 0.6, Default: 0.35},
			// Population
			{Name: "spawn_rate", Path: "population.spawn_rate_per_sec", Min: 2, Max: 12, Default: 6},
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
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and refreshes
// its derived values. Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0

	// Interaction
	cfg.Interaction.Radius = clamped[i]; i++
	cfg.Interaction.ActivationThreshold = clamped[i]; i++
	cfg.Interaction.ConnectionRatePerSec = clamped[i]; i++
	cfg.Interaction.ConnectionDecayPerSec = clamped[i]; i++
	cfg.Interaction.ColorRatePerSec = clamped[i]; i++

	// Energy
	cfg.Energy.DecayPerSec = clamped[i]; i++
	cfg.Energy.TransferRatePerSec = clamped[i]; i++
	cfg.Energy.Floor = clamped[i]; i++

	// Motion
	cfg.Motion.MaxSpeed = clamped[i]; i++
	cfg.Motion.DriftStrength = clamped[i]; i++

	// Flows
	cfg.Flow.SpawnRate = clamped[i]; i++
	cfg.Flow.VisibilityThreshold = clamped[i]; i++

	// Population
	cfg.Population.SpawnRatePerSec = clamped[i]

	cfg.ComputeDerived()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		// Interaction
		cfg.Interaction.Radius,
		cfg.Interaction.ActivationThreshold,
		cfg.Interaction.ConnectionRatePerSec,
		cfg.Interaction.ConnectionDecayPerSec,
		cfg.Interaction.ColorRatePerSec,
		// Energy
		cfg.Energy.DecayPerSec,
		cfg.Energy.TransferRatePerSec,
		cfg.Energy.Floor,
		// Motion
		cfg.Motion.MaxSpeed,
		cfg.Motion.DriftStrength,
		// Flows
		cfg.Flow.SpawnRate,
		cfg.Flow.VisibilityThreshold,
		// Population
		cfg.Population.SpawnRatePerSec,
	}
}
