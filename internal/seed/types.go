package seed

import "time"

// #region label

// Label is the therapeutic move a seed's response makes.
type Label string

const (
	LabelValidate           Label = "Validate"
	LabelReflectiveQuestion Label = "ReflectiveQuestion"
	LabelSuggestion         Label = "Suggestion"
	LabelIntervention       Label = "Intervention"
	LabelError              Label = "Error"
)

// Valid reports whether l is one of the known labels.
func (l Label) Valid() bool {
	switch l {
	case LabelValidate, LabelReflectiveQuestion, LabelSuggestion, LabelIntervention, LabelError:
		return true
	}
	return false
}

// #endregion

// #region severity

// Severity marks seeds that handle escalating situations.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// #endregion

// #region seed

// Seed is an authored trigger→response pattern for one emotional pattern.
// The core only mutates UsageCount and LastUsedAt; seeds are deactivated, never deleted.
type Seed struct {
	ID         string     `yaml:"id" json:"id"`
	Emotion    string     `yaml:"emotion" json:"emotion"`
	Triggers   []string   `yaml:"triggers" json:"triggers"`
	Response   string     `yaml:"response" json:"response"`
	Label      Label      `yaml:"label" json:"label"`
	Severity   Severity   `yaml:"severity" json:"severity"`
	Weight     float64    `yaml:"weight" json:"weight"`
	Confidence *float64   `yaml:"confidence,omitempty" json:"confidence,omitempty"`
	UsageCount int        `yaml:"usage_count" json:"usage_count"`
	LastUsedAt *time.Time `yaml:"last_used_at,omitempty" json:"last_used_at,omitempty"`
	IsActive   bool       `yaml:"is_active" json:"is_active"`
}

// ConfidenceOr returns the seed's authored confidence or fallback.
func (s Seed) ConfidenceOr(fallback float64) float64 {
	if s.Confidence == nil {
		return fallback
	}
	return *s.Confidence
}

// #endregion
