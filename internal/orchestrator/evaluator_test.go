package orchestrator

import (
	"strings"
	"testing"
)

func TestEvaluateVariant_FailureDetection(t *testing.T) {
	seed := "Het klinkt alsof je veel spanning voelt. Wat helpt je meestal om tot rust te komen?"
	user := "ik heb zoveel stress van mijn werk"

	tests := []struct {
		name     string
		variant  string
		wantFail FailureType
	}{
		{"empty", "   ", FailureEmpty},
		{"overlong", strings.Repeat("woord ", 200), FailureOverlong},
		{"assistant-voice", "Als AI kan ik je niet echt begrijpen, maar spanning is lastig.", FailureAssistant},
		{"deflection-short", "Hoe kan ik je helpen vandaag?", FailureDeflection},
		{"echo", "Ik heb zoveel stress van mijn werk.", FailureEcho},
		{"repetition", "Ik hoor je echt goed. Ik hoor je echt goed. Ik hoor je echt goed.", FailureRepetition},
		{"good-variant", "Het klinkt alsof je werk je veel spanning geeft. Wat helpt je meestal om tot rust te komen na zo'n dag?", FailureNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := EvaluateVariant(user, seed, tt.variant, 600)
			if ev.FailureType != tt.wantFail {
				t.Errorf("failure: got %q, want %q (quality=%.2f)", ev.FailureType, tt.wantFail, ev.Quality)
			}
			if ev.Usable() != (tt.wantFail == FailureNone) {
				t.Errorf("usable: got %v", ev.Usable())
			}
		})
	}
}

func TestEvaluateVariant_QualityRange(t *testing.T) {
	seed := "Het klinkt alsof je veel spanning voelt. Wat helpt je meestal om tot rust te komen?"
	user := "ik heb zoveel stress van mijn werk"

	good := EvaluateVariant(user, seed, "Het klinkt alsof je werk je veel spanning geeft. Wat helpt je meestal om tot rust te komen?", 600)
	unrelated := EvaluateVariant(user, seed, "Morgen wordt het zonnig met een lichte bries uit het westen.", 600)
	failed := EvaluateVariant(user, seed, "", 600)

	if good.Quality <= unrelated.Quality {
		t.Errorf("faithful variant should score higher: good=%.2f unrelated=%.2f", good.Quality, unrelated.Quality)
	}
	if failed.Quality > 0.35 {
		t.Errorf("failed variant quality should be capped, got %.2f", failed.Quality)
	}
	for _, ev := range []VariantEvaluation{good, unrelated, failed} {
		if ev.Quality < 0 || ev.Quality > 1 {
			t.Errorf("quality out of range: %.2f", ev.Quality)
		}
	}
}
