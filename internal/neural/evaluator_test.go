package neural

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func score(v float64) *float64 { return &v }

func TestEvaluate_EmotionalAndTherapeuticBoost(t *testing.T) {
	got := Evaluate([]Similarity{{
		ContentID:       "c1",
		ContentType:     "seed",
		ContentText:     "Het is begrijpelijk dat je je zo voelt na alles.",
		SimilarityScore: score(0.6),
	}})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.72, got[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.936, got[0].ContextualFit, 1e-9)
}

func TestEvaluate_ClampsToOne(t *testing.T) {
	got := Evaluate([]Similarity{{
		ContentType:     "therapeutic_response",
		ContentText:     "I can hear how anxious this makes you feel today.",
		SimilarityScore: score(0.95),
	}})
	require.Len(t, got, 1)
	assert.Equal(t, 1.0, got[0].RelevanceScore)
	assert.Equal(t, 1.0, got[0].ContextualFit)
}

func TestEvaluate_LengthPenaltyAndFilter(t *testing.T) {
	got := Evaluate([]Similarity{
		{ContentID: "short", ContentType: "faq", ContentText: "ok", SimilarityScore: score(0.6)},
		{ContentID: "long", ContentType: "faq", ContentText: strings.Repeat("a", 501), SimilarityScore: score(0.9)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "long", got[0].Similarity.ContentID)
	assert.InDelta(t, 0.72, got[0].ContextualFit, 1e-9)
}

func TestEvaluate_SkipsMalformed(t *testing.T) {
	got := Evaluate([]Similarity{
		{ContentID: "missing", ContentText: "twenty characters or more here"},
		{ContentID: "nan", ContentText: "twenty characters or more here", SimilarityScore: score(math.NaN())},
		{ContentID: "ok", ContentText: "twenty characters or more here", SimilarityScore: score(0.7)},
	})
	require.Len(t, got, 1)
	assert.Equal(t, "ok", got[0].Similarity.ContentID)
}

func TestEvaluate_TopFiveByFit(t *testing.T) {
	var sims []Similarity
	for i := 0; i < 8; i++ {
		sims = append(sims, Similarity{
			ContentID:       string(rune('a' + i)),
			ContentText:     "a neutral sentence of decent length",
			SimilarityScore: score(0.55 + float64(i)*0.05),
		})
	}
	got := Evaluate(sims)
	require.Len(t, got, 5)
	assert.Equal(t, "h", got[0].Similarity.ContentID)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].ContextualFit, got[i].ContextualFit)
	}
}

func TestSimilarity_Label(t *testing.T) {
	assert.Equal(t, "", Similarity{}.Label())
	assert.Equal(t, "Suggestion", Similarity{Metadata: map[string]any{"label": "Suggestion"}}.Label())
}

func TestSimilarity_UnmarshalSkipsBadScore(t *testing.T) {
	var sims []Similarity
	err := json.Unmarshal([]byte(`[
		{"content_id":"good","content_type":"seed","content_text":"Het is begrijpelijk dat je je zo voelt na alles.","similarity_score":0.9},
		{"content_id":"text","content_text":"Het is begrijpelijk dat je je zo voelt.","similarity_score":"n/a"},
		{"content_id":"null","content_text":"Het is begrijpelijk dat je je zo voelt.","similarity_score":null},
		{"content_id":"missing","content_text":"Het is begrijpelijk dat je je zo voelt."},
		{"content_id":42,"content_text":"Het is begrijpelijk dat je je zo voelt.","similarity_score":0.8},
		"not an object"
	]`), &sims)
	require.NoError(t, err)
	require.Len(t, sims, 6)

	_, ok := sims[0].Score()
	assert.True(t, ok)
	for _, i := range []int{1, 2, 3, 5} {
		_, ok := sims[i].Score()
		assert.False(t, ok, "entry %d", i)
	}
	assert.Equal(t, "", sims[4].ContentID)

	got := Evaluate(sims)
	require.NotEmpty(t, got)
	assert.Equal(t, "good", got[0].Similarity.ContentID)
	for _, m := range got {
		assert.NotContains(t, []string{"text", "null", "missing"}, m.Similarity.ContentID)
	}
}
