package rubric

import (
	"math"
	"strings"
	"time"
	"unicode"
)

// #region constants

// maxRiskFactorsPerRubric is the fixed normalization divisor of CalculateOverallRisk.
const maxRiskFactorsPerRubric = 5

// #endregion

// #region assessor

// Assessor scores text against the rubric catalogue. It has no side effects.
type Assessor struct {
	catalogue *Catalogue
	synonyms  map[string][]string
	now       func() time.Time
}

// NewAssessor creates an assessor. synonyms may be nil.
func NewAssessor(catalogue *Catalogue, synonyms map[string][]string) *Assessor {
	if synonyms == nil {
		synonyms = map[string][]string{}
	}
	return &Assessor{catalogue: catalogue, synonyms: synonyms, now: time.Now}
}

// #endregion

// #region assess

// Assess returns one assessment per rubric with at least one matched phrase.
func (a *Assessor) Assess(text string) []Assessment {
	return a.assess(text, a.catalogue.Snapshot())
}

// AssessProfile assesses text and builds its profile from one catalogue
// snapshot, so a concurrent Replace cannot mix definition versions.
func (a *Assessor) AssessProfile(text string, cfg StrictnessConfig) ([]Assessment, Profile) {
	defs := a.catalogue.Snapshot()
	assessments := a.assess(text, defs)
	return assessments, BuildProfile(assessments, defs, cfg)
}

func (a *Assessor) assess(text string, defs []Definition) []Assessment {
	tokens := TokenSet(text)
	if len(tokens) == 0 {
		return nil
	}
	ts := a.now().UTC()

	var out []Assessment
	for _, def := range defs {
		risk := a.matchPhrases(def.RiskFactorPhrases, tokens)
		protective := a.matchPhrases(def.ProtectiveFactorPhrases, tokens)
		if len(risk) == 0 && len(protective) == 0 {
			continue
		}
		riskScore := float64(len(risk)) * def.RiskWeight
		protectiveScore := float64(len(protective)) * def.ProtectiveWeight
		out = append(out, Assessment{
			RubricID:        def.ID,
			Category:        def.Category,
			RiskScore:       riskScore,
			ProtectiveScore: protectiveScore,
			OverallScore:    math.Max(0, riskScore-protectiveScore),
			MatchedRisk:     risk,
			MatchedProtect:  protective,
			Timestamp:       ts,
		})
	}
	return out
}

func (a *Assessor) matchPhrases(phrases []string, tokens map[string]struct{}) []string {
	var matched []string
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		if seen[p] {
			continue
		}
		seen[p] = true
		if a.PhraseMatches(p, tokens) {
			matched = append(matched, p)
		}
	}
	return matched
}

// PhraseMatches reports whether every word of phrase occurs in tokens,
// directly or as one of its listed variants. Word order is ignored.
func (a *Assessor) PhraseMatches(phrase string, tokens map[string]struct{}) bool {
	words := Tokenize(phrase)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !a.hasWord(w, tokens) {
			return false
		}
	}
	return true
}

func (a *Assessor) hasWord(w string, tokens map[string]struct{}) bool {
	if _, ok := tokens[w]; ok {
		return true
	}
	for _, v := range a.synonyms[w] {
		if _, ok := tokens[v]; ok {
			return true
		}
	}
	return false
}

// #endregion

// #region overall-risk

// CalculateOverallRisk normalizes the summed overall scores to 0-100,
// assuming at most five risk factors per rubric. Empty input yields 0.
func CalculateOverallRisk(assessments []Assessment) float64 {
	if len(assessments) == 0 {
		return 0
	}
	var sum float64
	for _, a := range assessments {
		sum += a.OverallScore
	}
	risk := 100 * sum / float64(len(assessments)*maxRiskFactorsPerRubric)
	if risk < 0 {
		return 0
	}
	return math.Min(100, risk)
}

// #endregion

// #region profile

// BuildProfile applies the strictness thresholds to a set of assessments.
// Interventions are read from defs, which should be the definitions the
// assessments were scored against.
func BuildProfile(assessments []Assessment, defs []Definition, cfg StrictnessConfig) Profile {
	p := Profile{OverallRisk: CalculateOverallRisk(assessments)}

	switch {
	case p.OverallRisk >= cfg.Thresholds.OverallRiskHigh:
		p.Level = RiskHigh
	case p.OverallRisk >= cfg.Thresholds.OverallRiskModerate:
		p.Level = RiskModerate
	default:
		p.Level = RiskLow
	}

	seen := make(map[string]bool)
	for _, a := range assessments {
		if a.RiskScore*cfg.Weights.RiskMultiplier >= cfg.Thresholds.RiskAlert {
			p.Alert = true
		}
		p.ProtectiveFactors += len(a.MatchedProtect)

		weighted := a.RiskScore*cfg.Weights.RiskMultiplier - a.ProtectiveScore*cfg.Weights.ProtectiveMultiplier
		if weighted < cfg.Thresholds.InterventionTrigger {
			continue
		}
		p.InterventionNeeded = true
		def, ok := findDefinition(defs, a.RubricID)
		if !ok {
			continue
		}
		for _, iv := range def.Interventions {
			if !seen[iv] {
				seen[iv] = true
				p.Interventions = append(p.Interventions, iv)
			}
		}
	}
	return p
}

func findDefinition(defs []Definition, id string) (Definition, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// #endregion

// #region tokenize

// Tokenize lower-cases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// TokenSet is Tokenize as a set.
func TokenSet(text string) map[string]struct{} {
	words := Tokenize(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// #endregion
