package orchestrator

// #region imports
import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// #endregion

// #region deflection-patterns

var deflectionPatterns = []string{
	"hoe kan ik je helpen",
	"waarmee kan ik je helpen",
	"is er nog iets anders",
	"laat me weten hoe ik",
	"how can i help",
	"how can i assist",
	"is there anything else",
	"let me know how i can",
}

// #endregion

// #region assistant-patterns

var assistantPatterns = []string{
	"als ai",
	"als taalmodel",
	"als assistent",
	"ik ben een ai",
	"ik ben geen therapeut",
	"as an ai",
	"as a language model",
	"i'm an ai",
	"i am an ai",
	"my programming",
	"my training",
}

// #endregion

// #region evaluate

// EvaluateVariant checks a generated variant before fusion. No model call.
// A variant with any failure is dropped and fusion falls back to the seed.
func EvaluateVariant(userText, seedText, variant string, maxRunes int) VariantEvaluation {
	trimmed := strings.TrimSpace(variant)
	lower := strings.ToLower(trimmed)

	failure := detectFailure(userText, trimmed, lower, maxRunes)
	quality := scoreQuality(userText, seedText, trimmed, lower)

	// A failed variant never scores above the acceptance line.
	if failure != FailureNone && quality > 0.35 {
		quality = 0.35
	}

	return VariantEvaluation{Quality: quality, FailureType: failure}
}

// #endregion

// #region detect-failure

func detectFailure(userText, trimmed, lower string, maxRunes int) FailureType {
	if len(strings.TrimFunc(trimmed, unicode.IsSpace)) == 0 {
		return FailureEmpty
	}
	if maxRunes > 0 && utf8.RuneCountInString(trimmed) > maxRunes {
		return FailureOverlong
	}
	if hasRepetition(lower) {
		return FailureRepetition
	}
	for _, p := range assistantPatterns {
		if strings.Contains(lower, p) {
			return FailureAssistant
		}
	}

	words := strings.Fields(trimmed)
	for _, p := range deflectionPatterns {
		if strings.Contains(lower, p) && len(words) < 30 {
			return FailureDeflection
		}
	}

	// A variant that only repeats the user back adds nothing.
	userLower := strings.ToLower(strings.TrimSpace(userText))
	if len(userLower) > 10 && strings.Contains(lower, userLower) && len(words) <= len(strings.Fields(userLower))+3 {
		return FailureEcho
	}

	return FailureNone
}

// #endregion

// #region repetition-check

func hasRepetition(lower string) bool {
	// Split into sentences, check for 3+ identical sentences
	sentences := strings.FieldsFunc(lower, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	if len(sentences) < 3 {
		return false
	}
	counts := make(map[string]int)
	for _, s := range sentences {
		trimmed := strings.TrimSpace(s)
		if len(trimmed) > 10 {
			counts[trimmed]++
		}
	}
	for _, c := range counts {
		if c >= 3 {
			return true
		}
	}
	return false
}

// #endregion

// #region quality-score

func scoreQuality(userText, seedText, trimmed, lower string) float64 {
	wordCount := len(strings.Fields(trimmed))

	// Length adequacy: under 5 words scales up, 5-40 is ideal, longer decays.
	var lengthAdequacy float64
	switch {
	case wordCount < 5:
		lengthAdequacy = float64(wordCount) / 5.0
	case wordCount <= 40:
		lengthAdequacy = 1.0
	default:
		lengthAdequacy = 40.0 / float64(wordCount)
	}

	responseWords := make(map[string]bool)
	for _, w := range strings.Fields(lower) {
		responseWords[strings.Trim(w, ".,!?;:")] = true
	}

	// Engagement: does the variant pick up what the user said?
	engagement := overlap(strings.Fields(strings.ToLower(userText)), responseWords)
	// Faithfulness: does it keep the seed's wording?
	faithfulness := overlap(strings.Fields(strings.ToLower(seedText)), responseWords)

	quality := 0.3*lengthAdequacy + 0.3*engagement + 0.4*faithfulness
	if quality > 1.0 {
		quality = 1.0
	}
	if quality < 0.0 {
		quality = 0.0
	}
	return quality
}

// overlap is the share of words longer than three letters found in set.
func overlap(words []string, set map[string]bool) float64 {
	total, shared := 0, 0
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:")
		if len(w) <= 3 {
			continue
		}
		total++
		if set[w] {
			shared++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(shared) / float64(total)
}

// #endregion
