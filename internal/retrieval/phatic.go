package retrieval

import (
	"strings"
)

// #region phatic-detection
// IsPhatic returns true for greetings, thanks and goodbyes that carry no
// emotional content worth a similarity search.
func IsPhatic(prompt string) bool {
	lower := strings.ToLower(strings.TrimSpace(prompt))
	lower = strings.TrimRight(lower, "!.? ")
	if lower == "" {
		return false
	}

	phrases := []string{
		"hoi", "hallo", "hey", "hi", "hello", "goedemorgen", "goedemiddag",
		"goedenavond", "good morning", "good evening", "dank je", "dank je wel",
		"bedankt", "thanks", "thank you", "doei", "tot ziens", "bye", "ok", "oke", "oké",
	}
	for _, p := range phrases {
		if lower == p {
			return true
		}
	}

	// Short greeting followed by a name or filler, no question mark
	if strings.Contains(prompt, "?") {
		return false
	}
	words := strings.Fields(lower)
	if len(words) >= 1 && len(words) <= 3 {
		openers := map[string]bool{
			"hoi": true, "hallo": true, "hey": true, "hi": true, "hello": true,
			"bedankt": true, "thanks": true, "doei": true, "bye": true,
		}
		if openers[strings.Trim(words[0], ",")] {
			return true
		}
	}

	return false
}

// #endregion phatic-detection
