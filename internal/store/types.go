package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a seed id does not exist.
var ErrNotFound = errors.New("store: not found")

// #region content-record
// ContentRecord is one indexed piece of content with its embedding.
type ContentRecord struct {
	ID          string
	ContentType string
	Text        string
	Vector      []float32
	Metadata    map[string]any
	CreatedAt   time.Time
}

// #endregion content-record

// #region provenance-row
// ProvenanceRow is one provenance_log row as read back for inspection.
type ProvenanceRow struct {
	RunID       string
	ContextHash string
	TriggerType string
	SignalsJSON string
	Decision    string
	Reason      string
	CreatedAt   time.Time
}

// #endregion provenance-row
