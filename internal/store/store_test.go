package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielpatrickdp/neurosym-core/internal/logging"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := NewStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSeed(id string) seed.Seed {
	conf := 0.6
	return seed.Seed{
		ID:         id,
		Emotion:    "verdriet",
		Triggers:   []string{"verdrietig", "huilen"},
		Response:   "Het is oké om verdrietig te zijn.",
		Label:      seed.LabelValidate,
		Severity:   seed.SeverityNone,
		Weight:     1.5,
		Confidence: &conf,
		IsActive:   true,
	}
}

func TestUpsertAndGetSeed(t *testing.T) {
	s := tempDB(t)

	saved, err := s.UpsertSeed(testSeed("s1"))
	if err != nil {
		t.Fatalf("UpsertSeed: %v", err)
	}
	got, err := s.GetSeed(saved.ID)
	if err != nil {
		t.Fatalf("GetSeed: %v", err)
	}
	if got.Emotion != "verdriet" || len(got.Triggers) != 2 || got.Triggers[1] != "huilen" {
		t.Fatalf("unexpected seed %+v", got)
	}
	if got.Confidence == nil || *got.Confidence != 0.6 {
		t.Fatalf("expected confidence 0.6, got %v", got.Confidence)
	}
	if got.LastUsedAt != nil {
		t.Fatal("expected no last_used_at")
	}
}

func TestUpsertAssignsULID(t *testing.T) {
	s := tempDB(t)
	saved, err := s.UpsertSeed(testSeed(""))
	if err != nil {
		t.Fatalf("UpsertSeed: %v", err)
	}
	if len(saved.ID) != 26 {
		t.Fatalf("expected 26-char ULID, got %q", saved.ID)
	}
}

func TestGetSeedNotFound(t *testing.T) {
	s := tempDB(t)
	_, err := s.GetSeed("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIncrementUsageAndUpsertPreservesCounters(t *testing.T) {
	s := tempDB(t)
	if _, err := s.UpsertSeed(testSeed("s1")); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.IncrementUsage("s1", at); err != nil {
			t.Fatalf("IncrementUsage: %v", err)
		}
	}

	updated := testSeed("s1")
	updated.Response = "Nieuwe tekst."
	if _, err := s.UpsertSeed(updated); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetSeed("s1")
	if err != nil {
		t.Fatal(err)
	}
	if got.UsageCount != 3 {
		t.Fatalf("expected usage 3, got %d", got.UsageCount)
	}
	if got.LastUsedAt == nil || !got.LastUsedAt.Equal(at) {
		t.Fatalf("expected last used %v, got %v", at, got.LastUsedAt)
	}
	if got.Response != "Nieuwe tekst." {
		t.Fatalf("expected updated response, got %q", got.Response)
	}

	if err := s.IncrementUsage("missing", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveSeedsAndDeactivate(t *testing.T) {
	s := tempDB(t)
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.UpsertSeed(testSeed(id)); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Deactivate("b"); err != nil {
		t.Fatalf("Deactivate: %v", err)
	}

	seeds, err := s.ActiveSeeds()
	if err != nil {
		t.Fatalf("ActiveSeeds: %v", err)
	}
	if len(seeds) != 2 || seeds[0].ID != "a" || seeds[1].ID != "c" {
		t.Fatalf("expected [a c], got %+v", seeds)
	}

	if err := s.Deactivate("zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFindSimilar(t *testing.T) {
	s := tempDB(t)
	records := []ContentRecord{
		{ID: "same", ContentType: "seed", Text: "exact", Vector: []float32{1, 0, 0}, Metadata: map[string]any{"label": "Validate"}},
		{ID: "close", ContentType: "seed", Text: "close", Vector: []float32{1, 1, 0}},
		{ID: "far", ContentType: "seed", Text: "far", Vector: []float32{0, 0, 1}},
		{ID: "dim", ContentType: "seed", Text: "wrong dims", Vector: []float32{1, 0}},
	}
	for _, r := range records {
		if err := s.IndexContent(r); err != nil {
			t.Fatalf("IndexContent: %v", err)
		}
	}

	got, err := s.FindSimilar(context.Background(), []float32{1, 0, 0}, 0.5, 5)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].ContentID != "same" || got[1].ContentID != "close" {
		t.Fatalf("unexpected order %s, %s", got[0].ContentID, got[1].ContentID)
	}
	if got[0].Label() != "Validate" {
		t.Fatalf("expected metadata label, got %q", got[0].Label())
	}

	limited, err := s.FindSimilar(context.Background(), []float32{1, 0, 0}, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected maxResults to cap at 1, got %d", len(limited))
	}
}

func TestFindSimilar_SkipsBadMetadata(t *testing.T) {
	s := tempDB(t)
	if err := s.IndexContent(ContentRecord{ID: "good", ContentType: "seed", Text: "good", Vector: []float32{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if err := s.IndexContent(ContentRecord{ID: "bad", ContentType: "seed", Text: "bad", Vector: []float32{1, 0}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DB().Exec(`UPDATE content_vectors SET metadata_json = '{broken' WHERE id = 'bad'`); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindSimilar(context.Background(), []float32{1, 0}, 0.5, 5)
	if err != nil {
		t.Fatalf("FindSimilar: %v", err)
	}
	if len(got) != 1 || got[0].ContentID != "good" {
		t.Fatalf("expected only the good row, got %+v", got)
	}
}

func TestMemoryStore(t *testing.T) {
	s, err := NewStore(":memory:")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer s.Close()
	if _, err := s.UpsertSeed(testSeed("m1")); err != nil {
		t.Fatal(err)
	}
	seeds, err := s.ActiveSeeds()
	if err != nil || len(seeds) != 1 {
		t.Fatalf("expected 1 seed, got %d (%v)", len(seeds), err)
	}
}

func TestRecentProvenance(t *testing.T) {
	s := tempDB(t)
	for i, d := range []string{"approved", "fallback"} {
		err := logging.LogDecision(s.DB(), logging.ProvenanceEntry{
			RunID:       []string{"r1", "r2"}[i],
			TriggerType: "chat",
			Decision:    d,
		})
		if err != nil {
			t.Fatalf("LogDecision: %v", err)
		}
	}
	rows, err := s.RecentProvenance(10)
	if err != nil {
		t.Fatalf("RecentProvenance: %v", err)
	}
	if len(rows) != 2 || rows[0].RunID != "r2" || rows[0].Decision != "fallback" {
		t.Fatalf("unexpected rows %+v", rows)
	}
}
