package symbolic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testMatcher() *Matcher {
	return NewMatcherAt(func() time.Time { return fixedNow })
}

func activeSeed(id string, triggers ...string) seed.Seed {
	return seed.Seed{
		ID:       id,
		Triggers: triggers,
		Label:    seed.LabelValidate,
		Severity: seed.SeverityNone,
		Weight:   1,
		IsActive: true,
	}
}

func TestMatch_ScorePerTrigger(t *testing.T) {
	s := activeSeed("a", "verdrietig", "alleen")
	s.Weight = 2

	got := testMatcher().Match("Ik ben Verdrietig en alleen", []seed.Seed{s})
	require.Len(t, got, 1)
	assert.InDelta(t, 40.0, got[0].Score, 1e-9)
	assert.Equal(t, []string{"verdrietig", "alleen"}, got[0].MatchedTriggers)
	assert.InDelta(t, 0.95, got[0].Confidence, 1e-9)
}

func TestMatch_SkipsInactiveAndUnmatched(t *testing.T) {
	inactive := activeSeed("off", "sad")
	inactive.IsActive = false
	got := testMatcher().Match("so sad", []seed.Seed{inactive, activeSeed("other", "angry")})
	assert.Empty(t, got)
}

func TestMatch_SeverityBonuses(t *testing.T) {
	high := activeSeed("high", "stuck")
	high.Severity = seed.SeverityHigh
	critical := activeSeed("crit", "stuck")
	critical.Severity = seed.SeverityCritical

	got := testMatcher().Match("I am stuck and need help, this is an emergency", []seed.Seed{high, critical})
	require.Len(t, got, 2)
	assert.Equal(t, "crit", got[0].Seed.ID)
	assert.InDelta(t, 20.0, got[0].Score, 1e-9)
	assert.InDelta(t, 15.0, got[1].Score, 1e-9)
}

func TestMatch_CriticalBonusNeedsWholeToken(t *testing.T) {
	critical := activeSeed("crit", "stuck")
	critical.Severity = seed.SeverityCritical

	cases := []struct {
		text  string
		bonus bool
	}{
		{"ik zit stuck, het is noodzakelijk", false},
		{"stuck, bel 0201130000", false},
		{"stuck en in nood", true},
		{"stuck, ik bel 113.", true},
	}
	for _, c := range cases {
		got := testMatcher().Match(c.text, []seed.Seed{critical})
		require.Len(t, got, 1, c.text)
		want := 10.0
		if c.bonus {
			want = 20.0
		}
		assert.InDelta(t, want, got[0].Score, 1e-9, c.text)
	}
}

func TestMatch_PenaltiesStackMultiplicatively(t *testing.T) {
	fresh := activeSeed("fresh", "moe")
	worn := activeSeed("worn", "moe")
	worn.UsageCount = 4
	recent := fixedNow.Add(-30 * time.Minute)
	worn.LastUsedAt = &recent

	got := testMatcher().Match("ik ben moe", []seed.Seed{fresh, worn})
	require.Len(t, got, 2)
	assert.InDelta(t, got[0].Score*0.4, got[1].Score, 1e-12)
	assert.Equal(t, 0.8*0.5, got[1].Score/got[0].Score)
}

func TestMatch_OldUseNotPenalizedForRecency(t *testing.T) {
	s := activeSeed("a", "moe")
	old := fixedNow.Add(-2 * time.Hour)
	s.LastUsedAt = &old
	got := testMatcher().Match("moe", []seed.Seed{s})
	require.Len(t, got, 1)
	assert.InDelta(t, 10.0, got[0].Score, 1e-9)
}

func TestMatch_TopFiveStableOrder(t *testing.T) {
	var seeds []seed.Seed
	for _, id := range []string{"s1", "s2", "s3", "s4", "s5", "s6", "s7"} {
		seeds = append(seeds, activeSeed(id, "hallo"))
	}
	seeds[6].Weight = 3

	got := testMatcher().Match("hallo daar", seeds)
	require.Len(t, got, 5)
	ids := []string{}
	for _, m := range got {
		ids = append(ids, m.Seed.ID)
	}
	assert.Equal(t, []string{"s7", "s1", "s2", "s3", "s4"}, ids)
}

func TestMatch_ConfidenceUsesAuthoredValue(t *testing.T) {
	s := activeSeed("a", "moe")
	low := -0.5
	s.Confidence = &low
	got := testMatcher().Match("moe", []seed.Seed{s})
	require.Len(t, got, 1)
	assert.InDelta(t, 0.1, got[0].Confidence, 1e-9)
}

func TestMatch_Deterministic(t *testing.T) {
	seeds := []seed.Seed{activeSeed("a", "x"), activeSeed("b", "x", "y")}
	first := testMatcher().Match("x y", seeds)
	second := testMatcher().Match("x y", seeds)
	assert.Equal(t, first, second)
}
