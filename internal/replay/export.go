package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/neurosym-core/internal/logging"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/store"
)

// #region export

// BuildFixture turns provenance rows (newest first, as store.RecentProvenance
// returns them) into a chronological fixture over the given seed catalogue.
// Rows without a parsable decision record are skipped. Similarities are not
// recorded in provenance, so exported turns replay symbolic-only.
func BuildFixture(rows []store.ProvenanceRow, seeds []seed.Seed) (Fixture, error) {
	f := Fixture{Strictness: rubric.LevelModerate}

	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		var rec logging.DecisionRecord
		if err := json.Unmarshal([]byte(r.SignalsJSON), &rec); err != nil || rec.RunID == "" {
			continue
		}
		if len(f.Turns) == 0 && rec.Strictness != "" {
			f.Strictness = rubric.Level(rec.Strictness)
		}
		turnID := fmt.Sprintf("t%d", len(f.Turns)+1)
		f.Turns = append(f.Turns, FixtureTurn{TurnID: turnID, Text: rec.Input})
		f.ExpectedResults = append(f.ExpectedResults, FixtureExpectedResult{
			TurnID:       turnID,
			Action:       r.Decision,
			ResponseType: rec.ResponseType,
			Label:        rec.Label,
		})
	}
	if len(f.Turns) == 0 {
		return Fixture{}, fmt.Errorf("no decision records among %d provenance rows", len(rows))
	}

	// usage counters restart so the first turn sees the catalogue fresh
	f.Seeds = make([]seed.Seed, len(seeds))
	for i, sd := range seeds {
		sd.UsageCount = 0
		sd.LastUsedAt = nil
		f.Seeds[i] = sd
	}
	f.Description = fmt.Sprintf("Session export: %d turns, %d seeds", len(f.Turns), len(f.Seeds))
	return f, nil
}

// WriteFixture writes f as indented JSON.
func WriteFixture(f Fixture, path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// #endregion export
