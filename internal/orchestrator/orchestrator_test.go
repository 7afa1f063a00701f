package orchestrator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielpatrickdp/neurosym-core/internal/codec"
	"github.com/danielpatrickdp/neurosym-core/internal/decision"
	"github.com/danielpatrickdp/neurosym-core/internal/fusion"
	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/store"
	"github.com/danielpatrickdp/neurosym-core/internal/weights"
)

const stressResponse = "Het klinkt alsof je veel spanning voelt. Wat helpt je meestal om tot rust te komen?"

func stressSeed(id string, label seed.Label, weight float64, response string) seed.Seed {
	return seed.Seed{
		ID:       id,
		Emotion:  "stressed",
		Triggers: []string{"stress"},
		Response: response,
		Label:    label,
		Severity: seed.SeverityNone,
		Weight:   weight,
		IsActive: true,
	}
}

type fakeGenerator struct {
	mu    sync.Mutex
	text  string
	conf  float64
	err   error
	calls []codec.GenerateRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req codec.GenerateRequest) (codec.GenerateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, req)
	if f.err != nil {
		return codec.GenerateResult{}, f.err
	}
	return codec.GenerateResult{Text: f.text, Confidence: f.conf}, nil
}

func TestProcess_NoMatchesUsesGeneratedFallback(t *testing.T) {
	o := New(Deps{}, DefaultConfig())

	res := o.Process(context.Background(), Request{Text: "Ik heb vandaag gewerkt"})

	assert.Equal(t, decision.ResponseGenerated, res.Decision.ResponseType)
	assert.Equal(t, 0.3, res.Decision.Confidence)
	assert.True(t, res.Constraint.OK, res.Constraint.Violations)
	assert.False(t, res.Fallback)
	assert.Equal(t, decision.FallbackText, res.Text)
	assert.NotEmpty(t, res.RunID)
}

func TestProcess_SymbolicSeedIsVerifiedAndCounted(t *testing.T) {
	s := stressSeed("s1", seed.LabelValidate, 1, stressResponse)
	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{s})}, DefaultConfig())

	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress op mijn werk"})

	require.True(t, res.Constraint.OK, res.Constraint.Violations)
	assert.Equal(t, decision.ResponseSymbolic, res.Decision.ResponseType)
	assert.Equal(t, stressResponse, res.Text)
	assert.Equal(t, fusion.StrategySymbolicFallback, res.Fusion.Strategy)
	assert.InDelta(t, 1.0, res.Fusion.SymbolicWeight+res.Fusion.NeuralWeight, 1e-12)

	applied := o.usage.Apply([]seed.Seed{s})
	assert.Equal(t, 1, applied[0].UsageCount)
	assert.NotNil(t, applied[0].LastUsedAt)
}

func TestProcess_CrisisUnderStrictSendsCrisisFallback(t *testing.T) {
	holder := rubric.NewStrictnessHolder(rubric.DefaultStrictness())
	require.NoError(t, holder.SetLevel(rubric.LevelStrict))
	s := stressSeed("s1", seed.LabelValidate, 1, "Het klinkt alsof dit heel zwaar is. Dat mag er zijn.")
	s.Triggers = []string{"zelfmoord"}

	o := New(Deps{Strictness: holder, Seeds: seed.NewCatalogue([]seed.Seed{s})}, DefaultConfig())
	res := o.Process(context.Background(), Request{Text: "Ik denk aan zelfmoord en wil niet meer leven"})

	require.False(t, res.Constraint.OK)
	assert.True(t, res.Constraint.Critical())
	assert.True(t, res.Fallback)
	assert.Equal(t, CrisisFallback, res.Text)
	assert.Equal(t, rubric.LevelStrict, res.Strictness)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Fallbacks.WithLabelValues("crisis")))
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Violations.WithLabelValues("r5")))

	// Rejected plans do not count as seed use.
	applied := o.usage.Apply([]seed.Seed{s})
	assert.Equal(t, 0, applied[0].UsageCount)
}

func TestProcess_StrictnessSwapAffectsNextRequestOnly(t *testing.T) {
	o := New(Deps{}, DefaultConfig())
	text := "Ik denk aan zelfmoord en wil niet meer leven"

	moderate := o.Process(context.Background(), Request{Text: text})
	require.NoError(t, o.Strictness().SetLevel(rubric.LevelStrict))
	strict := o.Process(context.Background(), Request{Text: text})

	assert.Equal(t, rubric.LevelModerate, moderate.Strictness)
	assert.Equal(t, rubric.LevelStrict, strict.Strictness)
	assert.True(t, strict.Fallback)
	assert.Equal(t, CrisisFallback, strict.Text)
}

func TestProcess_GeneratedVariantIsFused(t *testing.T) {
	variant := stressResponse + " Je hoeft het niet in je eentje op te lossen."
	gen := &fakeGenerator{text: variant, conf: 0.9}
	s := stressSeed("s1", seed.LabelReflectiveQuestion, 1, stressResponse)

	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{s}), Generator: gen}, DefaultConfig())
	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress op mijn werk"})

	require.True(t, res.Constraint.OK, res.Constraint.Violations)
	assert.Equal(t, fusion.StrategyNeuralEnhanced, res.Fusion.Strategy)
	assert.Equal(t, variant, res.Text)
	assert.Equal(t, 1.0, res.Fusion.PreservationScore)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, stressResponse, gen.calls[0].SeedText)
	assert.Equal(t, "stressed", gen.calls[0].Emotion)
	assert.Equal(t, "nl", gen.calls[0].Language)
}

func TestProcess_GeneratorFailureDegradesToSymbolic(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("codec unavailable")}
	s := stressSeed("s1", seed.LabelValidate, 1, stressResponse)

	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{s}), Generator: gen}, DefaultConfig())
	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress op mijn werk"})

	assert.True(t, res.Constraint.OK)
	assert.Equal(t, stressResponse, res.Text)
	assert.Equal(t, fusion.StrategySymbolicFallback, res.Fusion.Strategy)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Degraded.WithLabelValues("generator")))
}

func TestProcess_RejectedVariantIsDropped(t *testing.T) {
	gen := &fakeGenerator{text: "Als AI kan ik hier weinig over zeggen.", conf: 0.9}
	s := stressSeed("s1", seed.LabelValidate, 1, stressResponse)

	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{s}), Generator: gen}, DefaultConfig())
	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress op mijn werk"})

	assert.Equal(t, stressResponse, res.Text)
	assert.Equal(t, 1.0, testutil.ToFloat64(o.Metrics().Degraded.WithLabelValues("variant")))
}

func TestProcess_PushbackAvoidsDislikedLabel(t *testing.T) {
	validate := stressSeed("validate", seed.LabelValidate, 3, "Dat klinkt echt zwaar, het is begrijpelijk dat je gespannen bent.")
	question := stressSeed("question", seed.LabelReflectiveQuestion, 1, stressResponse)
	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{validate, question})}, DefaultConfig())
	conv := NewConversation()

	first := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress", Conversation: conv})
	require.Equal(t, seed.LabelValidate, first.Decision.Label)

	second := o.Process(context.Background(), Request{Text: "Dat helpt niet, ik heb nog steeds stress", Conversation: conv})
	assert.Equal(t, TurnPushback, second.Turn.Type)
	assert.Equal(t, seed.LabelReflectiveQuestion, second.Decision.Label)
	require.NotNil(t, second.Decision.Seed)
	assert.Equal(t, "question", second.Decision.Seed.ID)
	assert.Equal(t, stressResponse, second.Text)

	// Avoiding the label settles the pushback.
	assert.Equal(t, seed.Label(""), conv.DislikedLabel())
	assert.Equal(t, 2, conv.DailyCount())
	assert.Len(t, conv.Recent(), 2)
}

func TestProcess_RequestSimilaritiesFeedNeuralBranch(t *testing.T) {
	score := 0.95
	sims := []neural.Similarity{{
		ContentID:       "c1",
		ContentType:     "coping_strategy",
		ContentText:     "Een korte wandeling kan helpen om je hoofd leeg te maken als je veel stress voelt.",
		SimilarityScore: &score,
	}}
	o := New(Deps{}, DefaultConfig())

	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress", Similarities: sims})

	assert.Equal(t, decision.ResponseNeural, res.Decision.ResponseType)
	assert.True(t, res.Constraint.OK, res.Constraint.Violations)
	assert.Equal(t, sims[0].ContentText, res.Text)
}

func TestDiagnose_HasNoSideEffects(t *testing.T) {
	s := stressSeed("s1", seed.LabelValidate, 1, stressResponse)
	o := New(Deps{Seeds: seed.NewCatalogue([]seed.Seed{s})}, DefaultConfig())

	d := o.Diagnose(context.Background(), Request{Text: "Ik voel me overweldigende stress en paniek"})

	require.Len(t, d.SymbolicMatches, 1)
	assert.Equal(t, "s1", d.SymbolicMatches[0].Seed.ID)
	assert.Empty(t, d.NeuralMatches)
	require.Len(t, d.Assessments, 1)
	assert.Equal(t, "emotional_overwhelm", d.Assessments[0].RubricID)
	assert.Equal(t, []string{"paniek"}, d.Assessments[0].MatchedRisk)
	assert.Equal(t, TurnEmotional, d.Turn.Type)

	applied := o.usage.Apply([]seed.Seed{s})
	assert.Equal(t, 0, applied[0].UsageCount)
}

func TestProcess_BackgroundLearningRecordsOutcomeAndProvenance(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"))

	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	recorder, err := weights.NewSQLiteStore(st.DB())
	require.NoError(t, err)

	s := stressSeed("s1", seed.LabelValidate, 1, stressResponse)
	cfg := DefaultConfig()
	cfg.Trigger = "replay"
	o := New(Deps{
		Seeds:    seed.NewCatalogue([]seed.Seed{s}),
		Recorder: recorder,
		DB:       st.DB(),
	}, cfg)

	res := o.Process(context.Background(), Request{Text: "Ik heb zoveel stress op mijn werk"})
	o.Wait()

	rows, err := st.RecentProvenance(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, res.RunID, rows[0].RunID)
	assert.Equal(t, "replay", rows[0].TriggerType)
	assert.Equal(t, "approved", rows[0].Decision)
	assert.Contains(t, rows[0].SignalsJSON, `"seed_id":"s1"`)

	var n int
	require.NoError(t, st.DB().QueryRow(`SELECT COUNT(*) FROM fusion_outcomes WHERE run_id = ?`, res.RunID).Scan(&n))
	assert.Equal(t, 1, n)
	assert.Zero(t, testutil.ToFloat64(o.Metrics().LearnErrors))
}
