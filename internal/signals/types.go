package signals

import (
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region config

// ProducerConfig holds tuning knobs for constraint-context construction.
type ProducerConfig struct {
	MaxScorePerRubric   float64  // score that maps to 100 in the rubric snapshot
	DirectAdviceMarkers []string // lower-cased phrases that mark imperative advice
}

// DefaultProducerConfig returns sensible defaults.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		MaxScorePerRubric: 5,
		DirectAdviceMarkers: []string{
			"je moet", "jij moet", "u moet", "doe dit", "stop met",
			"you should", "you must", "you need to", "do this", "stop doing",
		},
	}
}

// #endregion config

// #region input

// ProduceInput bundles everything known about a plan once fusion is done.
type ProduceInput struct {
	Assessments    []rubric.Assessment
	Strictness     rubric.StrictnessConfig
	Profile        rubric.Profile
	ResponseText   string
	Label          seed.Label
	SeedMatchScore float64
}

// #endregion input
