package rubric

import "time"

// #region category

// Category groups rubrics by the clinical concern they score.
type Category string

const (
	CategoryCrisis   Category = "crisis"
	CategoryDistress Category = "distress"
	CategorySupport  Category = "support"
	CategoryCoping   Category = "coping"
)

// #endregion

// #region definition

// Definition is one entry of the immutable rubric catalogue.
type Definition struct {
	ID                      string   `yaml:"id"`
	Name                    string   `yaml:"name"`
	Category                Category `yaml:"category"`
	RiskFactorPhrases       []string `yaml:"risk_factor_phrases"`
	ProtectiveFactorPhrases []string `yaml:"protective_factor_phrases"`
	Interventions           []string `yaml:"interventions"`
	RiskWeight              float64  `yaml:"risk_weight"`
	ProtectiveWeight        float64  `yaml:"protective_weight"`
}

// #endregion

// #region assessment

// Assessment is the per-message score of a single rubric.
// OverallScore is max(0, RiskScore-ProtectiveScore).
type Assessment struct {
	RubricID        string
	Category        Category
	RiskScore       float64
	ProtectiveScore float64
	OverallScore    float64
	MatchedRisk     []string
	MatchedProtect  []string
	Timestamp       time.Time
}

// MatchedPhrases returns risk and protective matches together.
func (a Assessment) MatchedPhrases() []string {
	out := make([]string, 0, len(a.MatchedRisk)+len(a.MatchedProtect))
	out = append(out, a.MatchedRisk...)
	return append(out, a.MatchedProtect...)
}

// #endregion

// #region risk-profile

// RiskLevel is the strictness-relative band of the overall risk.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// Profile summarizes a set of assessments under the active strictness preset.
type Profile struct {
	OverallRisk        float64
	Level              RiskLevel
	Alert              bool // a single rubric crossed the risk alert threshold
	ProtectiveFactors  int
	InterventionNeeded bool
	Interventions      []string
}

// #endregion
