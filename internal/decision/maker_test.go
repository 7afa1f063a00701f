package decision

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/symbolic"
)

func symMatch(id string, label seed.Label, conf float64) symbolic.Match {
	return symbolic.Match{
		Seed:       seed.Seed{ID: id, Response: "response " + id, Label: label, Severity: seed.SeverityNone, IsActive: true},
		Score:      10,
		Confidence: conf,
	}
}

func neuMatch(id string, fit float64, meta map[string]any) neural.Match {
	return neural.Match{
		Similarity:     neural.Similarity{ContentID: id, ContentText: "neural " + id, Metadata: meta},
		RelevanceScore: fit,
		ContextualFit:  fit,
	}
}

func TestDecide_NoMatchesIsGenerated(t *testing.T) {
	d := NewMaker().Decide(nil, nil, Context{})
	want := Decision{
		ResponseText: FallbackText,
		ResponseType: ResponseGenerated,
		Confidence:   0.3,
	}
	if diff := cmp.Diff(want, d, cmpopts.IgnoreFields(Decision{}, "Reasoning")); diff != "" {
		t.Fatalf("decision mismatch (-want +got):\n%s", diff)
	}
}

func TestDecide_SymbolicOnly(t *testing.T) {
	d := NewMaker().Decide([]symbolic.Match{symMatch("s1", seed.LabelValidate, 0.6)}, nil, Context{})
	assert.Equal(t, ResponseSymbolic, d.ResponseType)
	assert.Equal(t, 0.6, d.Confidence)
	require.NotNil(t, d.Seed)
	assert.Equal(t, "s1", d.Seed.ID)
	assert.Equal(t, "response s1", d.ResponseText)
	assert.Equal(t, seed.LabelValidate, d.Label)
}

func TestDecide_StrongSymbolicBeatsNeural(t *testing.T) {
	d := NewMaker().Decide(
		[]symbolic.Match{symMatch("s1", seed.LabelValidate, 0.85)},
		[]neural.Match{neuMatch("n1", 0.95, nil)},
		Context{})
	assert.Equal(t, ResponseSymbolic, d.ResponseType)
	assert.Equal(t, 0.85, d.Confidence)
}

func TestDecide_StrongNeural(t *testing.T) {
	d := NewMaker().Decide(
		[]symbolic.Match{symMatch("s1", seed.LabelValidate, 0.7)},
		[]neural.Match{neuMatch("n1", 0.9, map[string]any{"label": "Suggestion"})},
		Context{})
	assert.Equal(t, ResponseNeural, d.ResponseType)
	assert.Equal(t, 0.9, d.Confidence)
	assert.Equal(t, "neural n1", d.ResponseText)
	assert.Equal(t, seed.LabelSuggestion, d.Label)
	assert.Nil(t, d.Seed)
}

func TestDecide_Hybrid(t *testing.T) {
	d := NewMaker().Decide(
		[]symbolic.Match{symMatch("s1", seed.LabelValidate, 0.7)},
		[]neural.Match{neuMatch("n1", 0.6, nil)},
		Context{})
	assert.Equal(t, ResponseHybrid, d.ResponseType)
	assert.Equal(t, "response s1", d.ResponseText)
	assert.InDelta(t, 0.42, d.SymbolicContribution, 1e-9)
	assert.InDelta(t, 0.24, d.NeuralContribution, 1e-9)
	assert.InDelta(t, 0.33, d.Confidence, 1e-9)

	d = NewMaker().Decide(
		[]symbolic.Match{symMatch("s1", seed.LabelValidate, 0.3)},
		[]neural.Match{neuMatch("n1", 0.8, nil)},
		Context{})
	assert.Equal(t, ResponseHybrid, d.ResponseType)
	assert.Equal(t, "neural n1", d.ResponseText)
}

func TestDecide_WeakNeuralOnly(t *testing.T) {
	d := NewMaker().Decide(nil, []neural.Match{neuMatch("n1", 0.55, nil)}, Context{})
	assert.Equal(t, ResponseNeural, d.ResponseType)
	assert.Equal(t, 0.55, d.Confidence)
}

func TestDecide_DislikedLabelSubstitution(t *testing.T) {
	matches := []symbolic.Match{
		symMatch("s1", seed.LabelValidate, 0.7),
		symMatch("s2", seed.LabelReflectiveQuestion, 0.5),
	}
	d := NewMaker().Decide(matches, nil, Context{DislikedLabel: seed.LabelValidate})
	assert.Equal(t, seed.LabelReflectiveQuestion, d.Label)
	require.NotNil(t, d.Seed)
	assert.Equal(t, "s2", d.Seed.ID)
	assert.Equal(t, "response s2", d.ResponseText)
	assert.Equal(t, 0.7, d.Confidence)

	d = NewMaker().Decide(matches[:1], nil, Context{DislikedLabel: seed.LabelValidate})
	assert.Equal(t, seed.LabelReflectiveQuestion, d.Label)
	assert.Equal(t, "response s1", d.ResponseText)

	d = NewMaker().Decide(matches[1:], nil, Context{DislikedLabel: seed.LabelValidate})
	assert.Equal(t, seed.LabelReflectiveQuestion, d.Label, "non-disliked label untouched")
}

func TestDecide_SubstituteSkipsDisliked(t *testing.T) {
	matches := []symbolic.Match{symMatch("s1", seed.LabelSuggestion, 0.7)}
	d := NewMaker().Decide(matches, nil, Context{DislikedLabel: seed.LabelSuggestion})
	assert.Equal(t, seed.LabelValidate, d.Label)
}

func TestDecide_RiskPrefersSevereSeeds(t *testing.T) {
	calm := symMatch("calm", seed.LabelValidate, 0.9)
	severe := symMatch("severe", seed.LabelIntervention, 0.6)
	severe.Seed.Severity = seed.SeverityCritical
	matches := []symbolic.Match{calm, severe}

	d := NewMaker().Decide(matches, nil, Context{Risk: &rubric.Profile{Level: rubric.RiskHigh}})
	require.NotNil(t, d.Seed)
	assert.Equal(t, "severe", d.Seed.ID)
	assert.Equal(t, "calm", matches[0].Seed.ID, "input order preserved")

	d = NewMaker().Decide(matches, nil, Context{Risk: &rubric.Profile{Level: rubric.RiskLow}})
	assert.Equal(t, "calm", d.Seed.ID)
}

func TestResponseTypeRoundTrip(t *testing.T) {
	for _, rt := range []ResponseType{ResponseSymbolic, ResponseNeural, ResponseHybrid, ResponseGenerated} {
		got, err := ParseResponseType(rt.String())
		require.NoError(t, err)
		assert.Equal(t, rt, got)
	}
	_, err := ParseResponseType("bogus")
	assert.Error(t, err)
}
