package retrieval

import (
	"strings"
	"unicode"
)

// #region stopwords
// stopwords contains common Dutch and English words that carry no topic.
var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"will": true, "would": true, "could": true, "should": true, "can": true,
	"not": true, "and": true, "or": true, "but": true, "if": true,
	"so": true, "at": true, "for": true, "in": true, "of": true,
	"on": true, "to": true, "with": true, "it": true, "this": true,
	"that": true, "you": true, "me": true, "my": true, "i": true,
	"de": true, "het": true, "een": true, "en": true,
	"ik": true, "je": true, "jij": true, "mij": true,
	"mijn": true, "zijn": true, "ben": true,
	"bent": true, "dat": true, "die": true, "dit": true, "er": true,
	"te": true, "van": true, "op": true, "met": true,
	"voor": true, "aan": true, "niet": true, "wel": true, "ook": true,
	"maar": true, "als": true, "dan": true, "nog": true, "al": true,
	"heb": true, "hebt": true, "heeft": true, "om": true, "naar": true,
}

// contentTokens splits text into unique lowercase non-stopword tokens.
func contentTokens(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	seen := make(map[string]bool)
	var tokens []string
	for _, w := range words {
		if len([]rune(w)) < 2 || stopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		tokens = append(tokens, w)
	}
	return tokens
}

// #endregion stopwords
