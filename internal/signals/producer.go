package signals

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region producer

// Producer turns rubric assessments and an assembled response into the
// verifier's constraint context.
type Producer struct {
	config ProducerConfig
}

// NewProducer creates a Producer.
func NewProducer(config ProducerConfig) *Producer {
	if config.MaxScorePerRubric <= 0 {
		config.MaxScorePerRubric = DefaultProducerConfig().MaxScorePerRubric
	}
	return &Producer{config: config}
}

// #endregion producer

// #region produce

// Produce builds the constraint context for one plan.
func (p *Producer) Produce(input ProduceInput) gate.Context {
	length := utf8.RuneCountInString(strings.TrimSpace(input.ResponseText))
	return gate.Context{
		Snapshot:       p.Snapshot(input.Assessments, input.Strictness),
		SeedMatchScore: input.SeedMatchScore,
		Plan: gate.Plan{
			Strategy:      p.strategy(input.Label, input.ResponseText),
			ContainsPII:   ContainsPII(input.ResponseText),
			Length:        &length,
			Interventions: input.Profile.Interventions,
		},
	}
}

// #endregion produce

// #region snapshot

// Snapshot maps assessments to per-category scores in 0-100. Crisis and
// distress read the weighted risk score, support and coping the weighted
// protective score. The strongest rubric per category wins.
func (p *Producer) Snapshot(assessments []rubric.Assessment, cfg rubric.StrictnessConfig) gate.RubricSnapshot {
	riskMul := cfg.Weights.RiskMultiplier
	if riskMul == 0 {
		riskMul = 1
	}
	protMul := cfg.Weights.ProtectiveMultiplier
	if protMul == 0 {
		protMul = 1
	}

	var s gate.RubricSnapshot
	for _, a := range assessments {
		switch a.Category {
		case rubric.CategoryCrisis:
			s.Crisis = max(s.Crisis, p.scale(a.RiskScore*riskMul))
		case rubric.CategoryDistress:
			s.Distress = max(s.Distress, p.scale(a.RiskScore*riskMul))
		case rubric.CategorySupport:
			s.Support = max(s.Support, p.scale(a.ProtectiveScore*protMul))
		case rubric.CategoryCoping:
			s.Coping = max(s.Coping, p.scale(a.ProtectiveScore*protMul))
		}
	}
	return s
}

func (p *Producer) scale(score float64) int {
	v := math.Round(100 * score / p.config.MaxScorePerRubric)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// #endregion snapshot

// #region strategy

// strategy classifies the plan. Intervention seeds refer, imperative phrasing
// is direct advice, suggestions are self-help, everything else is support.
func (p *Producer) strategy(label seed.Label, text string) gate.Strategy {
	if label == seed.LabelIntervention {
		return gate.StrategyRefer
	}
	lower := strings.ToLower(text)
	for _, m := range p.config.DirectAdviceMarkers {
		if strings.Contains(lower, m) {
			return gate.StrategyDirectAdvice
		}
	}
	if label == seed.LabelSuggestion {
		return gate.StrategySelfHelp
	}
	return gate.StrategySupport
}

// #endregion strategy

// #region pii

var piiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`),
	regexp.MustCompile(`(?:\+31|0031|\b0)[\s\-]?[1-9](?:[\s\-]?\d){8}\b`),
	regexp.MustCompile(`\b[A-Z]{2}\d{2}\s?[A-Z]{4}(?:\s?\d){10}\b`),
	regexp.MustCompile(`\b\d{9}\b`),
}

// ContainsPII reports whether text holds an email address, a Dutch phone
// number, an IBAN or a nine digit citizen number.
func ContainsPII(text string) bool {
	for _, re := range piiPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// #endregion pii
