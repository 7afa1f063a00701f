package signals

import (
	"testing"

	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region snapshot-tests

func TestSnapshot_ScalesPerCategory(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	assessments := []rubric.Assessment{
		{RubricID: "suicide_risk", Category: rubric.CategoryCrisis, RiskScore: 4},
		{RubricID: "self_harm", Category: rubric.CategoryCrisis, RiskScore: 2},
		{RubricID: "anxiety", Category: rubric.CategoryDistress, RiskScore: 3, ProtectiveScore: 1},
		{RubricID: "social_support", Category: rubric.CategorySupport, ProtectiveScore: 2},
		{RubricID: "coping_skills", Category: rubric.CategoryCoping, ProtectiveScore: 1},
	}
	got := p.Snapshot(assessments, rubric.DefaultStrictness())
	want := gate.RubricSnapshot{Crisis: 80, Distress: 60, Support: 40, Coping: 20}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestSnapshot_StrictnessMultiplierAndCap(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	strict, err := rubric.Preset(rubric.LevelStrict)
	if err != nil {
		t.Fatal(err)
	}
	got := p.Snapshot([]rubric.Assessment{
		{Category: rubric.CategoryCrisis, RiskScore: 3},
		{Category: rubric.CategoryDistress, RiskScore: 10},
		{Category: rubric.CategorySupport, ProtectiveScore: 2},
	}, strict)
	if got.Crisis != 72 {
		t.Errorf("expected crisis 72 under strict, got %d", got.Crisis)
	}
	if got.Distress != 100 {
		t.Errorf("expected distress capped at 100, got %d", got.Distress)
	}
	if got.Support != 32 {
		t.Errorf("expected support 32 under strict, got %d", got.Support)
	}
}

func TestSnapshot_Empty(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	if got := p.Snapshot(nil, rubric.DefaultStrictness()); got != (gate.RubricSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}

// #endregion snapshot-tests

// #region strategy-tests

func TestStrategy(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	cases := []struct {
		label seed.Label
		text  string
		want  gate.Strategy
	}{
		{seed.LabelIntervention, "Je moet nu de huisarts bellen.", gate.StrategyRefer},
		{seed.LabelValidate, "Je moet gewoon doorzetten.", gate.StrategyDirectAdvice},
		{seed.LabelSuggestion, "You should go for a run.", gate.StrategyDirectAdvice},
		{seed.LabelSuggestion, "Misschien helpt een wandeling.", gate.StrategySelfHelp},
		{seed.LabelReflectiveQuestion, "Wat heb je nodig?", gate.StrategySupport},
		{"", "Ik ben er voor je.", gate.StrategySupport},
	}
	for _, c := range cases {
		if got := p.strategy(c.label, c.text); got != c.want {
			t.Errorf("label %q text %q: expected %s, got %s", c.label, c.text, c.want, got)
		}
	}
}

// #endregion strategy-tests

// #region pii-tests

func TestContainsPII(t *testing.T) {
	positives := []string{
		"mail me op jan.jansen@example.nl",
		"bel 06 12345678",
		"mijn nummer is +31 6 1234 5678",
		"IBAN NL91 ABNA 0417 1643 00",
		"bsn 123456789",
	}
	for _, s := range positives {
		if !ContainsPII(s) {
			t.Errorf("expected PII in %q", s)
		}
	}
	negatives := []string{
		"Bel 113 of 0800-0113 als het niet meer gaat.",
		"Ik slaap al 3 nachten slecht.",
		"",
	}
	for _, s := range negatives {
		if ContainsPII(s) {
			t.Errorf("unexpected PII in %q", s)
		}
	}
}

// #endregion pii-tests

// #region produce-tests

func TestProduce(t *testing.T) {
	p := NewProducer(DefaultProducerConfig())
	ctx := p.Produce(ProduceInput{
		Assessments:    []rubric.Assessment{{Category: rubric.CategoryDistress, RiskScore: 2}},
		Strictness:     rubric.DefaultStrictness(),
		Profile:        rubric.Profile{Interventions: []string{"Bespreek een veiligheidsplan"}},
		ResponseText:   "  Dat klinkt zwaar.  ",
		Label:          seed.LabelValidate,
		SeedMatchScore: 12,
	})
	if ctx.Snapshot.Distress != 40 {
		t.Errorf("expected distress 40, got %d", ctx.Snapshot.Distress)
	}
	if ctx.Plan.Length == nil || *ctx.Plan.Length != 17 {
		t.Errorf("expected trimmed rune length 17, got %v", ctx.Plan.Length)
	}
	if ctx.Plan.Strategy != gate.StrategySupport {
		t.Errorf("expected support strategy, got %s", ctx.Plan.Strategy)
	}
	if ctx.Plan.ContainsPII {
		t.Error("unexpected PII flag")
	}
	if len(ctx.Plan.Interventions) != 1 || ctx.SeedMatchScore != 12 {
		t.Errorf("interventions or seed score not carried: %+v", ctx)
	}
}

// #endregion produce-tests
