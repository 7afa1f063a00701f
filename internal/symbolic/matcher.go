package symbolic

import (
	"sort"
	"strings"
	"time"

	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region constants

const (
	maxMatches         = 5
	pointsPerTrigger   = 10.0
	highSeverityBonus  = 5.0
	criticalBonus      = 10.0
	overuseThreshold   = 3
	overusePenalty     = 0.8
	recencyPenalty     = 0.5
	recencyWindow      = time.Hour
	confidencePerMatch = 0.3
	defaultConfidence  = 0.5
	minConfidence      = 0.1
	maxConfidence      = 0.95
)

// crisisTokens raise the score of critical seeds when one occurs as a whole
// word of the input.
var crisisTokens = []string{
	"crisis", "emergency", "noodgeval", "nood", "zelfmoord", "suicide", "113", "112",
}

// #endregion

// #region match

// Match is one scored seed hit.
type Match struct {
	Seed            seed.Seed
	Score           float64
	MatchedTriggers []string
	Confidence      float64
}

// #endregion

// #region matcher

// Matcher scores input text against trigger phrases.
type Matcher struct {
	now func() time.Time
}

// NewMatcher creates a matcher using the wall clock.
func NewMatcher() *Matcher {
	return &Matcher{now: time.Now}
}

// NewMatcherAt creates a matcher with a fixed notion of "now", for replay and tests.
func NewMatcherAt(now func() time.Time) *Matcher {
	return &Matcher{now: now}
}

// Match returns at most five active seeds with a trigger hit, ranked by
// descending score. Equal scores keep catalogue order.
func (m *Matcher) Match(text string, seeds []seed.Seed) []Match {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}
	now := m.now()

	var out []Match
	for _, s := range seeds {
		if !s.IsActive {
			continue
		}
		var matched []string
		for _, trig := range s.Triggers {
			t := strings.ToLower(strings.TrimSpace(trig))
			if t != "" && strings.Contains(lower, t) {
				matched = append(matched, trig)
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, Match{
			Seed:            s,
			Score:           Score(s, lower, len(matched), now),
			MatchedTriggers: matched,
			Confidence:      confidence(s, len(matched)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out
}

// #endregion

// #region scoring

// Score computes the trigger score for a seed with matchedCount trigger hits
// on the lower-cased input, including the overuse and recency penalties.
func Score(s seed.Seed, lower string, matchedCount int, now time.Time) float64 {
	score := pointsPerTrigger * s.Weight * float64(matchedCount)

	switch s.Severity {
	case seed.SeverityHigh:
		if strings.Contains(lower, "help") {
			score += highSeverityBonus
		}
	case seed.SeverityCritical:
		if containsToken(lower, crisisTokens) {
			score += criticalBonus
		}
	}

	if s.UsageCount > overuseThreshold {
		score *= overusePenalty
	}
	if s.LastUsedAt != nil && now.Sub(*s.LastUsedAt) < recencyWindow {
		score *= recencyPenalty
	}
	return score
}

func confidence(s seed.Seed, matchedCount int) float64 {
	c := confidencePerMatch*float64(matchedCount) + s.ConfidenceOr(defaultConfidence)
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

func containsToken(text string, tokens []string) bool {
	words := rubric.TokenSet(text)
	for _, t := range tokens {
		if _, ok := words[t]; ok {
			return true
		}
	}
	return false
}

// #endregion
