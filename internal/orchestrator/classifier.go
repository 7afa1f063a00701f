package orchestrator

// #region imports
import (
	"strings"

	"github.com/danielpatrickdp/neurosym-core/internal/retrieval"
)

// #endregion

// #region keywords

var crisisKeywords = []string{
	"zelfmoord", "suïcide", "suicide", "dood willen", "niet meer leven",
	"einde maken", "mezelf iets aandoen", "kill myself", "end my life",
	"want to die", "hurt myself",
}

var pushbackKeywords = []string{
	"dat helpt niet", "helpt niet", "stop met vragen", "niet weer een vraag",
	"geen vragen meer", "daar heb ik niks aan", "dat weet ik al", "hou op",
	"that doesn't help", "that does not help", "stop asking", "not helpful",
	"i know that already",
}

// emotionKeywords maps an emotion to the phrases that signal it. Checked in
// emotionOrder so the result is deterministic.
var emotionKeywords = map[string][]string{
	"sad":      {"verdrietig", "somber", "huilen", "depressief", "sad", "down", "crying"},
	"anxious":  {"angstig", "bang", "paniek", "zenuwachtig", "ongerust", "anxious", "scared", "panic", "worried"},
	"stressed": {"stress", "overweldig", "gespannen", "druk", "overwhelmed", "stressed"},
	"angry":    {"boos", "woedend", "kwaad", "gefrustreerd", "angry", "furious", "frustrated"},
	"lonely":   {"eenzaam", "alleen", "niemand", "lonely", "alone"},
	"tired":    {"vermoeid", "doodmoe", "uitgeput", "tired", "exhausted"},
}

var emotionOrder = []string{"sad", "anxious", "stressed", "angry", "lonely", "tired"}

// #endregion

// #region follow-up-words

// followUpWords are short prompts that typically continue the previous topic.
var followUpWords = []string{
	"en", "maar", "dus", "waarom", "hoe", "echt",
	"and", "but", "so", "why", "how", "really",
}

// #endregion

// #region classify

// ClassifyTurn classifies a message via keyword heuristics. No model call.
// prev carries the previous turn's classification for context inheritance.
func ClassifyTurn(text string, prev ...TurnClassification) TurnClassification {
	lower := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(lower)

	turnType := classifyType(lower, text)
	emotion := detectEmotion(lower)

	// Short follow-ups keep the emotional thread of the previous turn.
	if len(prev) > 0 && len(words) <= 6 && isFollowUp(lower) {
		p := prev[0]
		if emotion == "neutral" && p.Emotion != "" {
			emotion = p.Emotion
		}
		if turnType == TurnConversational || turnType == TurnQuestion {
			if p.Type == TurnEmotional || p.Type == TurnCrisis {
				turnType = p.Type
			}
		}
	}

	if turnType == TurnGreeting {
		emotion = "neutral"
	}
	return TurnClassification{Type: turnType, Emotion: emotion}
}

// IsPushback reports whether the message rejects the previous reply.
func IsPushback(text string) bool {
	return containsAny(strings.ToLower(text), pushbackKeywords)
}

// #endregion

// #region follow-up-detection

func isFollowUp(lower string) bool {
	for _, fw := range followUpWords {
		if lower == fw || strings.HasPrefix(lower, fw+" ") || strings.HasPrefix(lower, fw+"?") {
			return true
		}
	}
	return strings.HasSuffix(lower, "?") && len(strings.Fields(lower)) <= 3
}

// #endregion

// #region classify-type

func classifyType(lower, original string) TurnType {
	// Crisis wins over everything, including a greeting prefix.
	if containsAny(lower, crisisKeywords) {
		return TurnCrisis
	}
	if retrieval.IsPhatic(original) {
		return TurnGreeting
	}
	if containsAny(lower, pushbackKeywords) {
		return TurnPushback
	}
	if detectEmotion(lower) != "neutral" {
		return TurnEmotional
	}
	if strings.Contains(lower, "?") {
		return TurnQuestion
	}
	return TurnConversational
}

func detectEmotion(lower string) string {
	for _, e := range emotionOrder {
		if containsAny(lower, emotionKeywords[e]) {
			return e
		}
	}
	return "neutral"
}

func containsAny(lower string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

// #endregion
