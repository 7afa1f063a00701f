package fusion

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/weights"
)

// #region constants

const (
	greetingConfidence        = 0.9
	lowConfidence             = 0.6
	highConfidence            = 0.8
	userAgencyThreshold       = 0.4
	safetySymbolicWeight      = 0.9
	lowConfidenceNudge        = 0.1
	lowConfidenceFloor        = 0.5
	neuralEnhancedThreshold   = 0.7
	weightedBlendThreshold    = 0.4
	maxBlendedNeural          = 2
	blendNoveltyMaxSimilarity = 0.7
)

// #endregion

// #region assembler

// WeightSource supplies learned blend weights per context type.
type WeightSource interface {
	Lookup(ctx context.Context, ct weights.ContextType) weights.Weights
}

// Assembler merges a symbolic response core with a generated variant.
type Assembler struct {
	weights WeightSource
	logger  *zap.Logger
}

// NewAssembler creates an assembler. A nil source always yields weights.Default.
func NewAssembler(source WeightSource, logger *zap.Logger) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assembler{weights: source, logger: logger.Named("fusion")}
}

// #endregion

// #region context-type

// DetermineContextType classifies a fusion request, first match wins.
func DetermineContextType(fc Context) weights.ContextType {
	switch {
	case strings.EqualFold(fc.Emotion, "neutral") && fc.SymbolicConfidence > greetingConfidence:
		return weights.ContextGreeting
	case !fc.Validation.Passed():
		return weights.ContextCrisis
	case fc.SymbolicConfidence < lowConfidence:
		return weights.ContextLowConfidence
	case fc.SymbolicConfidence >= highConfidence:
		return weights.ContextHighConfidence
	case fc.DeviationScore != nil && *fc.DeviationScore < userAgencyThreshold:
		return weights.ContextUserAgencyHigh
	}
	return weights.ContextNormal
}

// #endregion

// #region fuse

// Fuse blends the two texts. It never fails: a missing neural variant or low
// preservation returns the symbolic text verbatim.
func (a *Assembler) Fuse(ctx context.Context, fc Context) Result {
	ct := DetermineContextType(fc)
	w := weights.Default
	if a.weights != nil {
		w = a.weights.Lookup(ctx, ct)
	}
	w = weights.FromSymbolic(w.Symbolic)

	switch {
	case !fc.Validation.Passed():
		w = weights.FromSymbolic(safetySymbolicWeight)
	case fc.SymbolicConfidence < lowConfidence:
		w = weights.FromSymbolic(math.Max(lowConfidenceFloor, w.Symbolic-lowConfidenceNudge))
	}

	res := Result{
		SymbolicWeight:  w.Symbolic,
		NeuralWeight:    w.Neural,
		ContextType:     ct,
		FusedConfidence: fc.SymbolicConfidence*w.Symbolic + fc.NeuralConfidence*w.Neural,
	}

	if strings.TrimSpace(fc.NeuralText) == "" {
		res.Strategy = StrategySymbolicFallback
		res.FusedResponse = fc.SymbolicText
		a.logger.Debug("no neural variant, symbolic fallback", zap.Stringer("context_type", ct))
		return res
	}

	symSentences := SplitSentences(fc.SymbolicText)
	neuSentences := SplitSentences(fc.NeuralText)
	res.PreservationScore = preservation(symSentences, neuSentences)

	switch {
	case res.PreservationScore > neuralEnhancedThreshold:
		res.Strategy = StrategyNeuralEnhanced
		res.FusedResponse = fc.NeuralText
	case res.PreservationScore > weightedBlendThreshold:
		res.Strategy = StrategyWeightedBlend
		res.FusedResponse = blend(symSentences, neuSentences, w.Symbolic)
	default:
		res.Strategy = StrategySymbolicFallback
		res.FusedResponse = fc.SymbolicText
	}

	a.logger.Debug("fused",
		zap.Stringer("context_type", ct),
		zap.Stringer("strategy", res.Strategy),
		zap.Float64("preservation", res.PreservationScore),
		zap.Float64("symbolic_weight", res.SymbolicWeight))
	return res
}

// blend keeps the leading share of symbolic sentences and appends up to two
// neural sentences that add something not already said.
func blend(symbolic, neural []string, symbolicWeight float64) string {
	keep := int(math.Ceil(float64(len(symbolic))*symbolicWeight - 1e-9))
	if keep > len(symbolic) {
		keep = len(symbolic)
	}
	out := append([]string{}, symbolic[:keep]...)

	added := 0
	for _, n := range neural {
		if added == maxBlendedNeural {
			break
		}
		novel := true
		for _, s := range symbolic {
			if Jaccard(s, n) > blendNoveltyMaxSimilarity {
				novel = false
				break
			}
		}
		if novel {
			out = append(out, n)
			added++
		}
	}
	return strings.Join(out, " ")
}

// #endregion
