package retrieval

import (
	"context"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
)

// #region config
// RetrievalConfig holds thresholds and limits for the 3-gate retrieval pipeline.
type RetrievalConfig struct {
	MinContentTokens    int     // Gate 1: min non-stopword tokens to trigger retrieval
	SimilarityThreshold float64 // Gate 2: min cosine similarity
	TopK                int     // Max results from vector search
	MaxEvidenceLen      int     // Max runes per content text
}

// DefaultConfig returns sensible defaults for retrieval gating.
func DefaultConfig() RetrievalConfig {
	return RetrievalConfig{
		MinContentTokens:    1,
		SimilarityThreshold: 0.3,
		TopK:                5,
		MaxEvidenceLen:      2000,
	}
}

// #endregion config

// #region collaborators
// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SimilarityStore searches indexed content by vector.
type SimilarityStore interface {
	FindSimilar(ctx context.Context, vector []float32, threshold float64, maxResults int) ([]neural.Similarity, error)
}

// #endregion collaborators

// #region gate-result
// GateResult captures the outcome of the 3-gate retrieval pipeline.
type GateResult struct {
	Gate1Passed bool                // input worth embedding
	Gate2Count  int                 // results above similarity threshold
	Gate3Count  int                 // results passing consistency check
	Retrieved   []neural.Similarity // final similarities after all gates
	Degraded    bool                // a collaborator failed; Retrieved is empty
	Reason      string              // human-readable explanation
}

// #endregion gate-result
