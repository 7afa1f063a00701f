package logging

import "time"

// #region provenance-entry
// ProvenanceEntry is a single row in the provenance_log table.
type ProvenanceEntry struct {
	RunID       string
	ContextHash string
	TriggerType string // "chat" | "api" | "replay"
	SignalsJSON string
	Decision    string // "approved" | "fallback"
	Reason      string
	CreatedAt   time.Time
}

// #endregion provenance-entry

// #region decision-record
// DecisionRecord captures the complete inputs and outputs of one pipeline run.
// Serialized as JSON into provenance_log.signals_json for offline replay.
type DecisionRecord struct {
	RunID      string `json:"run_id"`
	Input      string `json:"input"`
	Response   string `json:"response"`
	Strictness string `json:"strictness"`

	// Rubric snapshot as seen by the verifier
	Crisis   int `json:"crisis"`
	Distress int `json:"distress"`
	Support  int `json:"support"`
	Coping   int `json:"coping"`

	// Hybrid decision
	ResponseType string  `json:"response_type"`
	SeedID       string  `json:"seed_id,omitempty"`
	Label        string  `json:"label,omitempty"`
	Confidence   float64 `json:"confidence"`

	// Fusion
	ContextType    string  `json:"context_type"`
	FusionStrategy string  `json:"fusion_strategy"`
	SymbolicWeight float64 `json:"symbolic_weight"`
	Preservation   float64 `json:"preservation"`

	// Verifier output
	PlanStrategy     string   `json:"plan_strategy"`
	ConstraintOK     bool     `json:"constraint_ok"`
	ConstraintReason string   `json:"constraint_reason"`
	Violations       []string `json:"violations,omitempty"`
}

// #endregion decision-record
