package eval

import (
	"fmt"
	"strings"

	"github.com/danielpatrickdp/neurosym-core/internal/fusion"
)

const intentCount = 4

// #region eval-harness
// EvalHarness scores a fused response after it has been verified.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run computes preservation, intent deviation and confidence metrics plus a
// quality score. A response that failed verification has quality 0.
func (h *EvalHarness) Run(in Input) EvalResult {
	var metrics []EvalMetric
	var failReasons []string

	// 1. Preservation of the symbolic core in what was actually sent
	preservation := 1.0
	if strings.TrimSpace(in.SymbolicText) != "" {
		preservation = fusion.PreservationScore(in.SymbolicText, in.FusedText)
	}
	presPass := preservation >= h.config.MinPreservation
	metrics = append(metrics, EvalMetric{Name: "preservation", Value: preservation, Pass: presPass})
	if !presPass {
		failReasons = append(failReasons, fmt.Sprintf("preservation %.2f below %.2f", preservation, h.config.MinPreservation))
	}

	// 2. Therapeutic intents lost between seed and fused text
	lost := fusion.IntentDeviation(in.SymbolicText, in.FusedText)
	lostPass := len(lost) <= h.config.MaxLostIntents
	metrics = append(metrics, EvalMetric{Name: "intent_deviation", Value: float64(len(lost)), Pass: lostPass})
	if !lostPass {
		failReasons = append(failReasons, fmt.Sprintf("lost intents: %s", strings.Join(lost, ",")))
	}

	// 3. Fused confidence
	confPass := in.FusedConfidence >= h.config.MinConfidence
	metrics = append(metrics, EvalMetric{Name: "fused_confidence", Value: in.FusedConfidence, Pass: confPass})
	if !confPass {
		failReasons = append(failReasons, fmt.Sprintf("confidence %.2f below %.2f", in.FusedConfidence, h.config.MinConfidence))
	}

	// 4. Constraint outcome
	metrics = append(metrics, EvalMetric{Name: "constraints", Value: boolValue(in.ConstraintOK), Pass: in.ConstraintOK})
	if !in.ConstraintOK {
		failReasons = append(failReasons, "constraint verification failed")
	}

	quality := 0.0
	if in.ConstraintOK {
		quality = 0.4*preservation +
			0.3*clamp(in.FusedConfidence) +
			0.3*(1-float64(len(lost))/intentCount)
	}

	reason := "all checks passed"
	if len(failReasons) == 1 {
		reason = fmt.Sprintf("eval flagged: %s", failReasons[0])
	} else if len(failReasons) > 1 {
		reason = fmt.Sprintf("eval flagged: %d checks: %s", len(failReasons), failReasons[0])
	}

	return EvalResult{
		Passed:      len(failReasons) == 0,
		Metrics:     metrics,
		LostIntents: lost,
		Quality:     clamp(quality),
		Reason:      reason,
	}
}

// #endregion eval-harness

// #region helpers
func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
