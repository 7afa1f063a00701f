package fusion

import (
	"regexp"
	"strings"
	"unicode"
)

// #region sentences

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]*`)

// SplitSentences splits text on terminal punctuation, keeping the punctuation.
func SplitSentences(text string) []string {
	var out []string
	for _, s := range sentencePattern.FindAllString(text, -1) {
		s = strings.TrimSpace(s)
		if strings.IndexFunc(s, isWordRune) >= 0 {
			out = append(out, s)
		}
	}
	return out
}

// #endregion

// #region jaccard

// Jaccard is the word-set Jaccard similarity of two sentences.
func Jaccard(a, b string) float64 {
	wa, wb := wordSet(a), wordSet(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 0
	}
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return !isWordRune(r) })
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// #endregion

// #region preservation

// PreservationScore is the share of symbolic sentences that some neural
// sentence restates (Jaccard above 0.6). Zero when the symbolic text is empty.
func PreservationScore(symbolicText, neuralText string) float64 {
	return preservation(SplitSentences(symbolicText), SplitSentences(neuralText))
}

func preservation(symbolic, neural []string) float64 {
	if len(symbolic) == 0 {
		return 0
	}
	preserved := 0
	for _, s := range symbolic {
		for _, n := range neural {
			if Jaccard(s, n) > 0.6 {
				preserved++
				break
			}
		}
	}
	return float64(preserved) / float64(len(symbolic))
}

// #endregion
