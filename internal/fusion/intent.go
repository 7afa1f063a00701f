package fusion

import (
	"regexp"
	"strings"
)

// #region patterns

var (
	validationPattern = regexp.MustCompile(`(begrijpelijk|logisch dat|het is normaal|heel normaal|mag er zijn|makes sense|understandable|it's okay to|it is okay to|completely normal|valid)`)
	reflectivePattern = regexp.MustCompile(`\b(wat|hoe|welke|waarom|wanneer|what|how|which|why|when|could you|would you|kun je|zou je)\b[^?]*\?`)
	suggestionPattern = regexp.MustCompile(`(misschien kun je|je zou kunnen|probeer|wat als je|het kan helpen|you could|you might|try to|try |consider|it may help|it might help)`)
	empathyPattern    = regexp.MustCompile(`(ik hoor|ik begrijp|dat klinkt|wat vervelend|wat naar|i hear|i understand|that sounds|i'm sorry|i am sorry|it sounds like)`)
)

// #endregion

// #region intent

// Intent flags the therapeutic moves present in a text.
type Intent struct {
	Validation         bool
	ReflectiveQuestion bool
	Suggestion         bool
	Empathy            bool
}

// ExtractTherapeuticIntent runs the four detectors over the lower-cased text.
func ExtractTherapeuticIntent(text string) Intent {
	lower := strings.ToLower(text)
	return Intent{
		Validation:         validationPattern.MatchString(lower),
		ReflectiveQuestion: reflectivePattern.MatchString(lower),
		Suggestion:         suggestionPattern.MatchString(lower),
		Empathy:            empathyPattern.MatchString(lower),
	}
}

// IntentDeviation lists intents present in the seed text but missing from the
// generated text. Informational only.
func IntentDeviation(seedText, generated string) []string {
	want := ExtractTherapeuticIntent(seedText)
	got := ExtractTherapeuticIntent(generated)

	var lost []string
	if want.Validation && !got.Validation {
		lost = append(lost, "validation")
	}
	if want.ReflectiveQuestion && !got.ReflectiveQuestion {
		lost = append(lost, "reflective_question")
	}
	if want.Suggestion && !got.Suggestion {
		lost = append(lost, "suggestion")
	}
	if want.Empathy && !got.Empathy {
		lost = append(lost, "empathy")
	}
	return lost
}

// #endregion
