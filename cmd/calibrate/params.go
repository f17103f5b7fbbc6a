package main

import (
	"github.com/pthm-cable/bugfights/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of tunable odds parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the trait rating bonuses as a parameter set.
// Defaults are taken from base so a run starts at the current config.
func NewParamVector(base config.OddsConfig) *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "horn", Path: "odds.horn", Min: -40, Max: 80, Default: base.Horn},
			{Name: "stinger", Path: "odds.stinger", Min: -40, Max: 80, Default: base.Stinger},
			{Name: "shell", Path: "odds.shell", Min: -40, Max: 80, Default: base.Shell},
			{Name: "winged", Path: "odds.winged", Min: -40, Max: 80, Default: base.Winged},
			{Name: "wallcrawler", Path: "odds.wallcrawler", Min: -40, Max: 80, Default: base.Wallcrawler},
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

// Apply writes clamped values into an odds config. Order matches Specs.
func (pv *ParamVector) Apply(c *config.OddsConfig, values []float64) {
	v := pv.Clamp(values)
	c.Horn = v[0]
	c.Stinger = v[1]
	c.Shell = v[2]
	c.Winged = v[3]
	c.Wallcrawler = v[4]
}
