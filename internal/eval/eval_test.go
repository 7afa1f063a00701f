package eval

import (
	"math"
	"testing"
)

func TestEvalPassesOnVerbatimSeed(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	text := "Dat klinkt zwaar. Wat zou je nu helpen?"

	result := h.Run(Input{SymbolicText: text, FusedText: text, FusedConfidence: 0.8, ConstraintOK: true})

	if !result.Passed {
		t.Fatalf("expected pass, got fail: %s", result.Reason)
	}
	if len(result.Metrics) != 4 {
		t.Fatalf("expected 4 metrics, got %d", len(result.Metrics))
	}
	want := 0.4*1 + 0.3*0.8 + 0.3*1
	if math.Abs(result.Quality-want) > 1e-9 {
		t.Fatalf("expected quality %.4f, got %.4f", want, result.Quality)
	}
}

func TestEvalFlagsLostIntent(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())

	result := h.Run(Input{
		SymbolicText:    "Dat klinkt zwaar. Wat zou je nu helpen?",
		FusedText:       "Dat klinkt zwaar.",
		FusedConfidence: 0.8,
		ConstraintOK:    true,
	})

	if result.Passed {
		t.Fatal("expected lost reflective question to be flagged")
	}
	if len(result.LostIntents) != 1 || result.LostIntents[0] != "reflective_question" {
		t.Fatalf("expected reflective_question lost, got %v", result.LostIntents)
	}
	if result.Quality >= 0.9 {
		t.Fatalf("expected reduced quality, got %.4f", result.Quality)
	}
}

func TestEvalZeroQualityOnConstraintFailure(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result := h.Run(Input{SymbolicText: "Ik ben er.", FusedText: "Ik ben er.", FusedConfidence: 0.9})
	if result.Passed {
		t.Fatal("expected fail on constraint failure")
	}
	if result.Quality != 0 {
		t.Fatalf("expected zero quality, got %.4f", result.Quality)
	}
}

func TestEvalEmptySymbolicCountsAsPreserved(t *testing.T) {
	h := NewEvalHarness(DefaultEvalConfig())
	result := h.Run(Input{FusedText: "Vertel eens.", FusedConfidence: 0.3, ConstraintOK: true})
	for _, m := range result.Metrics {
		if m.Name == "preservation" && m.Value != 1 {
			t.Fatalf("expected preservation 1, got %.2f", m.Value)
		}
	}
	if result.Passed {
		t.Fatal("low confidence should be flagged")
	}
}
