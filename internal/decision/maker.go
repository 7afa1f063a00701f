package decision

import (
	"fmt"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/symbolic"
)

// #region constants

const (
	// FallbackText is returned when neither branch produced a match.
	FallbackText       = "Ik hoor je. Kun je me wat meer vertellen over wat er op dit moment speelt?"
	fallbackConfidence = 0.3

	symbolicOverride = 0.8
	neuralOverride   = 0.8
	hybridSymbolic   = 0.6
	hybridNeural     = 0.4
)

// substitutes is the fixed order tried when the chosen label was disliked.
var substitutes = []seed.Label{seed.LabelValidate, seed.LabelReflectiveQuestion, seed.LabelSuggestion}

// #endregion constants

// #region maker

// Maker picks the primary source for a response.
type Maker struct {
	fallbackText string
}

// NewMaker returns a Maker using FallbackText.
func NewMaker() *Maker {
	return &Maker{fallbackText: FallbackText}
}

// NewMakerWithFallback overrides the generated fallback text.
func NewMakerWithFallback(text string) *Maker {
	if text == "" {
		text = FallbackText
	}
	return &Maker{fallbackText: text}
}

// Decide applies the selection policy in order. It has no side effects: the
// caller updates seed usage once the decision is accepted.
func (m *Maker) Decide(symbolicMatches []symbolic.Match, neuralMatches []neural.Match, ctx Context) Decision {
	sym := adjustForRisk(symbolicMatches, ctx.Risk)

	var topSym *symbolic.Match
	if len(sym) > 0 {
		topSym = &sym[0]
	}
	var topNeu *neural.Match
	if len(neuralMatches) > 0 {
		topNeu = &neuralMatches[0]
	}

	var d Decision
	switch {
	case topSym == nil && topNeu == nil:
		return Decision{
			ResponseText: m.fallbackText,
			ResponseType: ResponseGenerated,
			Confidence:   fallbackConfidence,
			Reasoning:    "no symbolic or neural matches, using generated fallback",
		}

	case topSym != nil && (topNeu == nil || topSym.Confidence > symbolicOverride):
		d = fromSymbolic(*topSym)
		d.SymbolicContribution = 1
		if topNeu == nil {
			d.Reasoning = fmt.Sprintf("symbolic seed %s, no neural matches", topSym.Seed.ID)
		} else {
			d.Reasoning = fmt.Sprintf("symbolic seed %s with confidence %.2f above %.1f", topSym.Seed.ID, topSym.Confidence, symbolicOverride)
		}

	case topNeu != nil && topNeu.ContextualFit > neuralOverride:
		d = fromNeural(*topNeu)
		d.NeuralContribution = 1
		d.Reasoning = fmt.Sprintf("neural content %s with fit %.2f above %.1f", topNeu.Similarity.ContentID, topNeu.ContextualFit, neuralOverride)

	case topSym != nil && topNeu != nil:
		sw := topSym.Confidence * hybridSymbolic
		nw := topNeu.ContextualFit * hybridNeural
		if sw >= nw {
			d = fromSymbolic(*topSym)
		} else {
			d = fromNeural(*topNeu)
		}
		d.ResponseType = ResponseHybrid
		d.Confidence = (sw + nw) / 2
		d.SymbolicContribution = sw
		d.NeuralContribution = nw
		d.Reasoning = fmt.Sprintf("hybrid blend symbolic=%.2f neural=%.2f", sw, nw)

	default:
		// only a weak neural match remains
		d = fromNeural(*topNeu)
		d.NeuralContribution = 1
		d.Reasoning = fmt.Sprintf("best available neural content %s with fit %.2f", topNeu.Similarity.ContentID, topNeu.ContextualFit)
	}

	if ctx.DislikedLabel != "" && d.Label == ctx.DislikedLabel {
		d = avoidLabel(d, sym, ctx.DislikedLabel)
	}
	return d
}

// #endregion maker

// #region helpers

func fromSymbolic(m symbolic.Match) Decision {
	s := m.Seed
	return Decision{
		ResponseText: s.Response,
		ResponseType: ResponseSymbolic,
		Confidence:   m.Confidence,
		Seed:         &s,
		Label:        s.Label,
	}
}

func fromNeural(m neural.Match) Decision {
	d := Decision{
		ResponseText: m.Similarity.ContentText,
		ResponseType: ResponseNeural,
		Confidence:   m.ContextualFit,
	}
	if l := seed.Label(m.Similarity.Label()); l.Valid() {
		d.Label = l
	}
	return d
}

// avoidLabel replaces the disliked label with the first allowed substitute.
// When a symbolic match carries that label and the decision was taken from a
// seed, its response replaces the text.
func avoidLabel(d Decision, sym []symbolic.Match, disliked seed.Label) Decision {
	var sub seed.Label
	for _, l := range substitutes {
		if l != disliked {
			sub = l
			break
		}
	}
	d.Label = sub
	d.Reasoning += fmt.Sprintf("; label %s disliked, using %s", disliked, sub)

	if d.Seed == nil {
		return d
	}
	for _, m := range sym {
		if m.Seed.Label == sub {
			s := m.Seed
			d.Seed = &s
			d.ResponseText = s.Response
			d.Reasoning += fmt.Sprintf(" from seed %s", s.ID)
			break
		}
	}
	return d
}

// adjustForRisk moves high and critical severity seeds to the front when the
// rubric profile is elevated. The input slice is not modified.
func adjustForRisk(matches []symbolic.Match, risk *rubric.Profile) []symbolic.Match {
	if risk == nil || !(risk.Alert || risk.Level == rubric.RiskHigh) {
		return matches
	}
	out := make([]symbolic.Match, 0, len(matches))
	for _, m := range matches {
		if m.Seed.Severity == seed.SeverityHigh || m.Seed.Severity == seed.SeverityCritical {
			out = append(out, m)
		}
	}
	for _, m := range matches {
		if m.Seed.Severity != seed.SeverityHigh && m.Seed.Severity != seed.SeverityCritical {
			out = append(out, m)
		}
	}
	return out
}

// #endregion helpers
