// Package scoring computes the weighted fit score of a framework for a
// company context.
package scoring

import (
	"fmt"
	"math"
)

// Default factor weights. They form a convex combination.
const (
	DefaultWeightStage      = 0.20
	DefaultWeightProblem    = 0.30
	DefaultWeightData       = 0.15
	DefaultWeightComplexity = 0.10
	DefaultWeightTeam       = 0.10
	DefaultWeightTiming     = 0.15
)

// Weights is the immutable record of the six factor weights.
type Weights struct {
	Stage      float64
	Problem    float64
	Data       float64
	Complexity float64
	Team       float64
	Timing     float64
}

var defaultWeights = Weights{
	Stage:      DefaultWeightStage,
	Problem:    DefaultWeightProblem,
	Data:       DefaultWeightData,
	Complexity: DefaultWeightComplexity,
	Team:       DefaultWeightTeam,
	Timing:     DefaultWeightTiming,
}

// DefaultWeights returns the scoring weights. The value is a copy; the
// weights used by the scorer cannot be changed.
func DefaultWeights() Weights {
	return defaultWeights
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Stage + w.Problem + w.Data + w.Complexity + w.Team + w.Timing
}

// Validate checks that every weight is non-negative and that they sum to 1.
func (w Weights) Validate() error {
	factors := []struct {
		name  string
		value float64
	}{
		{"stage", w.Stage},
		{"problem", w.Problem},
		{"data", w.Data},
		{"complexity", w.Complexity},
		{"team", w.Team},
		{"timing", w.Timing},
	}
	for _, f := range factors {
		if f.value < 0 {
			return fmt.Errorf("weight %s is negative: %v", f.name, f.value)
		}
	}
	if math.Abs(w.Sum()-1) > 1e-9 {
		return fmt.Errorf("weights sum to %v, want 1", w.Sum())
	}
	return nil
}
