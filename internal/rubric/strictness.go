package rubric

import (
	"fmt"
	"sync/atomic"
)

// #region level

// Level names a strictness preset.
type Level string

const (
	LevelFlexible Level = "flexible"
	LevelModerate Level = "moderate"
	LevelStrict   Level = "strict"
)

// #endregion

// #region config

// Thresholds are compared against rubric scores; they never rescale the raw scores.
type Thresholds struct {
	RiskAlert            float64 // per-rubric weighted risk score that raises an alert
	OverallRiskHigh      float64 // overall risk (0-100) at or above which the level is high
	OverallRiskModerate  float64
	ProtectiveFactorsMin int
	InterventionTrigger  float64 // per-rubric overall score that surfaces its interventions
}

// Weights scale risk and protective contributions when thresholds are applied.
type Weights struct {
	RiskMultiplier       float64
	ProtectiveMultiplier float64
}

// StrictnessConfig is one preset. Exactly one is active per process.
type StrictnessConfig struct {
	Level      Level
	Thresholds Thresholds
	Weights    Weights
}

var presets = map[Level]StrictnessConfig{
	LevelFlexible: {
		Level: LevelFlexible,
		Thresholds: Thresholds{
			RiskAlert:            6,
			OverallRiskHigh:      80,
			OverallRiskModerate:  50,
			ProtectiveFactorsMin: 1,
			InterventionTrigger:  4,
		},
		Weights: Weights{RiskMultiplier: 0.8, ProtectiveMultiplier: 1.2},
	},
	LevelModerate: {
		Level: LevelModerate,
		Thresholds: Thresholds{
			RiskAlert:            4,
			OverallRiskHigh:      70,
			OverallRiskModerate:  40,
			ProtectiveFactorsMin: 2,
			InterventionTrigger:  3,
		},
		Weights: Weights{RiskMultiplier: 1.0, ProtectiveMultiplier: 1.0},
	},
	LevelStrict: {
		Level: LevelStrict,
		Thresholds: Thresholds{
			RiskAlert:            2,
			OverallRiskHigh:      60,
			OverallRiskModerate:  30,
			ProtectiveFactorsMin: 3,
			InterventionTrigger:  2,
		},
		Weights: Weights{RiskMultiplier: 1.2, ProtectiveMultiplier: 0.8},
	},
}

// Preset returns the fixed config for a level.
func Preset(level Level) (StrictnessConfig, error) {
	cfg, ok := presets[level]
	if !ok {
		return StrictnessConfig{}, fmt.Errorf("unknown strictness level %q", level)
	}
	return cfg, nil
}

// DefaultStrictness is the moderate preset.
func DefaultStrictness() StrictnessConfig {
	return presets[LevelModerate]
}

// #endregion

// #region holder

// StrictnessHolder keeps the active preset. Readers take a copy per request,
// so a swap never changes a request that is already running.
type StrictnessHolder struct {
	active atomic.Pointer[StrictnessConfig]
}

// NewStrictnessHolder starts with the given preset.
func NewStrictnessHolder(cfg StrictnessConfig) *StrictnessHolder {
	h := &StrictnessHolder{}
	h.active.Store(&cfg)
	return h
}

// Current returns a copy of the active preset.
func (h *StrictnessHolder) Current() StrictnessConfig {
	return *h.active.Load()
}

// SetLevel swaps in the preset for level.
func (h *StrictnessHolder) SetLevel(level Level) error {
	cfg, err := Preset(level)
	if err != nil {
		return err
	}
	h.active.Store(&cfg)
	return nil
}

// #endregion
