package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Strictness      rubric.Level            `json:"strictness"`
	Seeds           []seed.Seed             `json:"seeds"`
	Turns           []FixtureTurn           `json:"turns"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixtureTurn is one recorded user message. Similarities stand in for the
// retriever so replays are deterministic.
type FixtureTurn struct {
	TurnID       string              `json:"turn_id"`
	Text         string              `json:"text"`
	Similarities []neural.Similarity `json:"similarities"`
}

// FixtureExpectedResult captures the expected outcome per turn. Empty fields
// are not checked.
type FixtureExpectedResult struct {
	TurnID       string `json:"turn_id"`
	Action       string `json:"action"` // "approved" | "fallback"
	ResponseType string `json:"response_type,omitempty"`
	Label        string `json:"label,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	if f.Strictness == "" {
		f.Strictness = rubric.LevelModerate
	}
	if _, err := rubric.Preset(f.Strictness); err != nil {
		return nil, fmt.Errorf("fixture %s: %w", path, err)
	}
	for i, s := range f.Seeds {
		if !s.Label.Valid() {
			return nil, fmt.Errorf("fixture %s: seed %q has unknown label %q", path, s.ID, s.Label)
		}
		if s.Weight == 0 {
			f.Seeds[i].Weight = 1
		}
	}
	return &f, nil
}

// ToInteraction converts a FixtureTurn to a domain Interaction.
func (ft *FixtureTurn) ToInteraction() Interaction {
	return Interaction{
		TurnID:       ft.TurnID,
		Text:         ft.Text,
		Similarities: ft.Similarities,
	}
}

// Interactions converts every turn.
func (f *Fixture) Interactions() []Interaction {
	out := make([]Interaction, len(f.Turns))
	for i := range f.Turns {
		out[i] = f.Turns[i].ToInteraction()
	}
	return out
}

// ToReplayConfig converts the fixture header to a domain ReplayConfig.
func (f *Fixture) ToReplayConfig() ReplayConfig {
	cfg := DefaultReplayConfig()
	cfg.Strictness = f.Strictness
	cfg.Seeds = f.Seeds
	return cfg
}

// #endregion fixture-loader

// #region check

// Check compares results with the expected outcomes and returns one message
// per mismatch.
func Check(results []ReplayResult, expected []FixtureExpectedResult) []string {
	var out []string
	if len(results) != len(expected) {
		out = append(out, fmt.Sprintf("expected %d results, got %d", len(expected), len(results)))
	}
	for i := 0; i < len(results) && i < len(expected); i++ {
		got, want := results[i], expected[i]
		if got.TurnID != want.TurnID {
			out = append(out, fmt.Sprintf("turn %d: expected turn_id=%s, got %s", i, want.TurnID, got.TurnID))
		}
		if got.Action != want.Action {
			out = append(out, fmt.Sprintf("turn %d (%s): expected action=%s, got %s (reason: %s)",
				i, want.TurnID, want.Action, got.Action, got.Reason))
		}
		if want.ResponseType != "" && got.ResponseType != want.ResponseType {
			out = append(out, fmt.Sprintf("turn %d (%s): expected response_type=%s, got %s",
				i, want.TurnID, want.ResponseType, got.ResponseType))
		}
		if want.Label != "" && got.Label != want.Label {
			out = append(out, fmt.Sprintf("turn %d (%s): expected label=%s, got %s",
				i, want.TurnID, want.Label, got.Label))
		}
	}
	return out
}

// #endregion check
