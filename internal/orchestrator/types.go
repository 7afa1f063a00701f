package orchestrator

// #region imports
import (
	"context"
	"time"

	"github.com/danielpatrickdp/neurosym-core/internal/codec"
	"github.com/danielpatrickdp/neurosym-core/internal/decision"
	"github.com/danielpatrickdp/neurosym-core/internal/eval"
	"github.com/danielpatrickdp/neurosym-core/internal/fusion"
	"github.com/danielpatrickdp/neurosym-core/internal/gate"
	"github.com/danielpatrickdp/neurosym-core/internal/neural"
	"github.com/danielpatrickdp/neurosym-core/internal/retrieval"
	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
	"github.com/danielpatrickdp/neurosym-core/internal/symbolic"
)

// #endregion

// #region turn-type

// TurnType classifies what the user is doing this turn.
type TurnType string

const (
	TurnGreeting       TurnType = "greeting"
	TurnCrisis         TurnType = "crisis"
	TurnPushback       TurnType = "pushback"
	TurnEmotional      TurnType = "emotional"
	TurnQuestion       TurnType = "question"
	TurnConversational TurnType = "conversational"
)

// #endregion

// #region classification

// TurnClassification is the keyword classification of one message.
type TurnClassification struct {
	Type    TurnType
	Emotion string // "neutral" for greetings and unrecognized text
}

// #endregion

// #region failure-type

// FailureType categorizes why a generated variant was rejected.
type FailureType string

const (
	FailureNone       FailureType = "none"
	FailureEmpty      FailureType = "empty"
	FailureRepetition FailureType = "repetition"
	FailureAssistant  FailureType = "assistant_voice"
	FailureDeflection FailureType = "deflection"
	FailureEcho       FailureType = "echo"
	FailureOverlong   FailureType = "overlong"
)

// VariantEvaluation is the outcome of checking a generated variant before
// it is offered to fusion.
type VariantEvaluation struct {
	Quality     float64
	FailureType FailureType
}

// Usable reports whether the variant may be fused.
func (v VariantEvaluation) Usable() bool {
	return v.FailureType == FailureNone
}

// #endregion

// #region config

// Config tunes the pipeline.
type Config struct {
	GenerateTimeout time.Duration
	Language        string
	Trigger         string // provenance trigger type: "chat" | "api" | "replay"
	MaxVariantRunes int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GenerateTimeout: 3 * time.Second,
		Language:        "nl",
		Trigger:         "api",
		MaxVariantRunes: 600,
	}
}

// #endregion

// #region collaborators

// Generator produces a neural variant of a seed response.
type Generator interface {
	Generate(ctx context.Context, req codec.GenerateRequest) (codec.GenerateResult, error)
}

// Retriever finds similar content for the neural branch.
type Retriever interface {
	Retrieve(ctx context.Context, text string) retrieval.GateResult
}

// #endregion

// #region request

// Request is one user turn. Seeds and Similarities override the catalogue
// and the retriever when non-nil.
type Request struct {
	Text         string
	Seeds        []seed.Seed
	Similarities []neural.Similarity
	Conversation *Conversation
}

// #endregion

// #region result

// Result is the outcome of Process. Text is either the verified fused
// response or a fixed safe fallback, never anything else.
type Result struct {
	RunID      string             `json:"run_id"`
	Text       string             `json:"text"`
	Decision   decision.Decision  `json:"decision"`
	Fusion     fusion.Result      `json:"fusion"`
	Constraint gate.Result        `json:"constraint"`
	Fallback   bool               `json:"fallback"`
	Eval       *eval.EvalResult   `json:"eval,omitempty"`
	Turn       TurnClassification `json:"turn"`
	Profile    rubric.Profile     `json:"profile"`
	Strictness rubric.Level       `json:"strictness"`
	Elapsed    time.Duration      `json:"elapsed"`
}

// Diagnostics are the intermediate lists of a run, without side effects.
type Diagnostics struct {
	Assessments     []rubric.Assessment `json:"assessments"`
	Profile         rubric.Profile      `json:"profile"`
	SymbolicMatches []symbolic.Match    `json:"symbolic_matches"`
	NeuralMatches   []neural.Match      `json:"neural_matches"`
	Turn            TurnClassification  `json:"turn"`
}

// #endregion
