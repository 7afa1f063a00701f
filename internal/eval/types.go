package eval

// #region eval-config
// EvalConfig holds thresholds for post-fusion evaluation.
type EvalConfig struct {
	MinPreservation float64 // share of the symbolic core that should survive fusion
	MinConfidence   float64 // fused confidence below this is flagged
	MaxLostIntents  int     // intent deviations tolerated before flagging
}

// DefaultEvalConfig returns sensible defaults.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		MinPreservation: 0.4,
		MinConfidence:   0.5,
		MaxLostIntents:  0,
	}
}

// #endregion eval-config

// #region eval-input
// Input describes one completed pipeline run.
type Input struct {
	SymbolicText    string
	FusedText       string
	FusedConfidence float64
	ConstraintOK    bool
}

// #endregion eval-input

// #region eval-metric
// EvalMetric captures a single check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is informational; it never blocks a response.
type EvalResult struct {
	Passed      bool
	Metrics     []EvalMetric
	LostIntents []string
	Quality     float64 // 0-1, recorded against the fusion context type
	Reason      string
}

// #endregion eval-result
