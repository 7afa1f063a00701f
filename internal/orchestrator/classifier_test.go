package orchestrator

import (
	"testing"
)

func TestClassifyTurn(t *testing.T) {
	tests := []struct {
		name        string
		prompt      string
		wantType    TurnType
		wantEmotion string
	}{
		{"greeting", "Hoi!", TurnGreeting, "neutral"},
		{"greeting-name", "hallo Sam", TurnGreeting, "neutral"},
		{"crisis", "Ik wil niet meer leven", TurnCrisis, "neutral"},
		{"crisis-beats-greeting", "hoi, ik denk aan zelfmoord", TurnCrisis, "neutral"},
		{"pushback", "Dat helpt niet echt", TurnPushback, "neutral"},
		{"emotional-sad", "Ik ben zo verdrietig vandaag", TurnEmotional, "sad"},
		{"emotional-stress", "Ik voel me overweldigende stress", TurnEmotional, "stressed"},
		{"emotional-english", "I feel so lonely", TurnEmotional, "lonely"},
		{"question", "Wat kan ik hieraan doen?", TurnQuestion, "neutral"},
		{"conversational", "Ik heb vandaag gewerkt", TurnConversational, "neutral"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTurn(tt.prompt)
			if got.Type != tt.wantType {
				t.Errorf("type: got %q, want %q", got.Type, tt.wantType)
			}
			if got.Emotion != tt.wantEmotion {
				t.Errorf("emotion: got %q, want %q", got.Emotion, tt.wantEmotion)
			}
		})
	}
}

func TestClassifyTurn_FollowUpInheritsEmotion(t *testing.T) {
	prev := TurnClassification{Type: TurnEmotional, Emotion: "anxious"}

	got := ClassifyTurn("waarom?", prev)
	if got.Type != TurnEmotional {
		t.Errorf("type: got %q, want %q", got.Type, TurnEmotional)
	}
	if got.Emotion != "anxious" {
		t.Errorf("emotion: got %q, want anxious", got.Emotion)
	}

	// A long message does not inherit.
	got = ClassifyTurn("waarom is het zo dat ik elke dag naar mijn werk moet fietsen?", prev)
	if got.Type != TurnQuestion {
		t.Errorf("long follow-up type: got %q, want %q", got.Type, TurnQuestion)
	}
}

func TestIsPushback(t *testing.T) {
	if !IsPushback("Stop met vragen stellen") {
		t.Error("expected pushback")
	}
	if IsPushback("Dank je, dit helpt") {
		t.Error("unexpected pushback")
	}
}
