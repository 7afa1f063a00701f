package neural

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// #region constants

const (
	maxMatches       = 5
	minContextualFit = 0.5
	emotionalBoost   = 1.2
	therapeuticBoost = 1.3
	lengthPenalty    = 0.8
	minContentLength = 20
	maxContentLength = 500
)

// emotionalVocabulary marks content that speaks to feelings (Dutch and English).
var emotionalVocabulary = []string{
	"gevoel", "voel", "emotie", "verdriet", "angst", "boos", "eenzaam", "stress", "zorgen",
	"feel", "feeling", "emotion", "sad", "anxious", "afraid", "angry", "lonely", "worried",
}

// therapeuticContentTypes denote authored seed / therapeutic responses.
var therapeuticContentTypes = map[string]bool{
	"seed":                 true,
	"seed_response":        true,
	"therapeutic_response": true,
}

// #endregion

// #region evaluate

// Evaluate rescores similarities for contextual fit and returns at most five
// with fit above 0.5, best first. Entries without a score are skipped.
func Evaluate(similarities []Similarity) []Match {
	var out []Match
	for _, sim := range similarities {
		score, ok := sim.Score()
		if !ok {
			continue
		}
		m := toMatch(sim, score)
		if m.ContextualFit > minContextualFit {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ContextualFit > out[j].ContextualFit
	})
	if len(out) > maxMatches {
		out = out[:maxMatches]
	}
	return out
}

func toMatch(sim Similarity, score float64) Match {
	relevance := score
	lower := strings.ToLower(sim.ContentText)
	for _, w := range emotionalVocabulary {
		if strings.Contains(lower, w) {
			relevance *= emotionalBoost
			break
		}
	}
	relevance = clamp(relevance)

	fit := relevance
	if therapeuticContentTypes[strings.ToLower(sim.ContentType)] {
		fit *= therapeuticBoost
	}
	n := utf8.RuneCountInString(sim.ContentText)
	if n < minContentLength || n > maxContentLength {
		fit *= lengthPenalty
	}

	return Match{
		Similarity:     sim,
		RelevanceScore: relevance,
		ContextualFit:  clamp(fit),
	}
}

// #endregion

// #region helpers

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion
