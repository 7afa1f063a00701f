package gate

import "strings"

// #region strategy

// Strategy is the response plan's intervention style.
type Strategy string

const (
	StrategySupport      Strategy = "support"
	StrategySelfHelp     Strategy = "self_help"
	StrategyDirectAdvice Strategy = "direct_advice"
	StrategyRefer        Strategy = "refer"
)

// #endregion strategy

// #region context

// RubricSnapshot holds per-category rubric scores, each 0-100.
type RubricSnapshot struct {
	Crisis   int `json:"crisis"`
	Distress int `json:"distress"`
	Support  int `json:"support"`
	Coping   int `json:"coping"`
}

// Plan describes the response about to leave the core.
type Plan struct {
	Strategy      Strategy `json:"strategy"`
	ContainsPII   bool     `json:"contains_pii"`
	Length        *int     `json:"length,omitempty"` // runes; nil skips the length rule
	Interventions []string `json:"interventions,omitempty"`
}

// Context is the input to Verify.
type Context struct {
	Snapshot       RubricSnapshot `json:"rubric_snapshot"`
	SeedMatchScore float64        `json:"seed_match_score"`
	Plan           Plan           `json:"plan"`
}

// #endregion context

// #region result

// Reasons reported in Result.Reason.
const (
	ReasonSatisfied   = "satisfied"
	ReasonUnsat       = "unsatisfiable"
	ReasonError       = "error"
	criticalTagPrefix = "CRITICAL: "
)

// Result is the verifier outcome. Violations keep rule order.
type Result struct {
	OK         bool     `json:"ok"`
	Reason     string   `json:"reason"`
	Violations []string `json:"violations,omitempty"`
}

// Critical reports whether any violation carries the CRITICAL tag.
func (r Result) Critical() bool {
	for _, v := range r.Violations {
		if strings.HasPrefix(v, criticalTagPrefix) {
			return true
		}
	}
	return false
}

// #endregion result
