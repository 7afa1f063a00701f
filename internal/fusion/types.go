package fusion

import "github.com/danielpatrickdp/neurosym-core/internal/weights"

// #region strategy

// Strategy is how the symbolic core and the neural variant were combined.
type Strategy int

const (
	StrategySymbolicFallback Strategy = iota
	StrategyWeightedBlend
	StrategyNeuralEnhanced
)

func (s Strategy) String() string {
	switch s {
	case StrategyNeuralEnhanced:
		return "neural_enhanced"
	case StrategyWeightedBlend:
		return "weighted_blend"
	case StrategySymbolicFallback:
		return "symbolic_fallback"
	}
	return "unknown"
}

// MarshalText lets strategies serialize by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// #endregion

// #region context

// Validation is the pre-fusion safety state of the symbolic plan.
type Validation struct {
	Validated     bool
	ConstraintsOK bool
}

// Passed reports whether both checks hold.
func (v Validation) Passed() bool {
	return v.Validated && v.ConstraintsOK
}

// Context is the input of a fusion run.
type Context struct {
	SymbolicText       string
	NeuralText         string // empty when generation failed
	SymbolicConfidence float64
	NeuralConfidence   float64
	Emotion            string
	Validation         Validation
	DeviationScore     *float64 // secondary threat/deviation score, when known
}

// #endregion

// #region result

// Result is the fused response. SymbolicWeight+NeuralWeight is always 1.
type Result struct {
	FusedResponse     string
	FusedConfidence   float64
	SymbolicWeight    float64
	NeuralWeight      float64
	PreservationScore float64
	Strategy          Strategy
	ContextType       weights.ContextType
}

// #endregion
