package retrieval

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/danielpatrickdp/neurosym-core/internal/neural"
)

// #region retriever
// Retriever orchestrates triple-gated similarity retrieval.
type Retriever struct {
	embedder Embedder
	store    SimilarityStore
	config   RetrievalConfig
	logger   *zap.Logger
}

// NewRetriever creates a Retriever. A nil embedder or store makes every
// retrieval degrade to an empty result.
func NewRetriever(embedder Embedder, store SimilarityStore, config RetrievalConfig, logger *zap.Logger) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{embedder: embedder, store: store, config: config, logger: logger.Named("retrieval")}
}

// #endregion retriever

// #region retrieve
// Retrieve runs the 3-gate retrieval pipeline:
//  1. Gate 1, content: skip phatic or contentless input
//  2. Gate 2, similarity: embed and search above the threshold
//  3. Gate 3, consistency: drop empty, overlong, unscored and duplicate results
//
// Collaborator failures never surface as errors; the result is empty and
// marked Degraded.
func (r *Retriever) Retrieve(ctx context.Context, text string) GateResult {
	result := GateResult{}

	// Gate 1: content check
	if IsPhatic(text) {
		result.Reason = "gate1: phatic input"
		return result
	}
	if n := len(contentTokens(text)); n < r.config.MinContentTokens {
		result.Reason = fmt.Sprintf("gate1: %d content tokens < %d", n, r.config.MinContentTokens)
		return result
	}
	result.Gate1Passed = true

	if r.embedder == nil || r.store == nil {
		result.Degraded = true
		result.Reason = "gate2: no embedder or similarity store configured"
		return result
	}

	// Gate 2: similarity search
	vec, err := r.embedder.Embed(ctx, text)
	if err != nil {
		r.logger.Warn("embedding failed, continuing without similarities", zap.Error(err))
		result.Degraded = true
		result.Reason = "gate2: embedding unavailable"
		return result
	}
	found, err := r.store.FindSimilar(ctx, vec, r.config.SimilarityThreshold, r.config.TopK)
	if err != nil {
		r.logger.Warn("similarity search failed, continuing without similarities", zap.Error(err))
		result.Degraded = true
		result.Reason = "gate2: similarity store unavailable"
		return result
	}
	result.Gate2Count = len(found)

	if result.Gate2Count == 0 {
		result.Reason = "gate2: no results above similarity threshold"
		return result
	}

	// Gate 3: consistency check
	kept := r.consistencyCheck(found)
	result.Gate3Count = len(kept)
	result.Retrieved = kept

	if result.Gate3Count == 0 {
		result.Reason = "gate3: all results failed consistency check"
	} else {
		result.Reason = fmt.Sprintf("retrieved %d similarities (gate2=%d, gate3=%d)",
			result.Gate3Count, result.Gate2Count, result.Gate3Count)
	}
	return result
}

// #endregion retrieve

// #region consistency-check
// consistencyCheck validates search results against basic constraints:
//   - Non-empty text
//   - Text within MaxEvidenceLen
//   - A usable similarity score
//   - No duplicate IDs
func (r *Retriever) consistencyCheck(results []neural.Similarity) []neural.Similarity {
	seen := make(map[string]bool)
	var valid []neural.Similarity

	for _, rec := range results {
		if rec.ContentText == "" {
			continue
		}
		if r.config.MaxEvidenceLen > 0 && utf8.RuneCountInString(rec.ContentText) > r.config.MaxEvidenceLen {
			continue
		}
		if _, ok := rec.Score(); !ok {
			continue
		}
		if seen[rec.ContentID] {
			continue
		}
		seen[rec.ContentID] = true
		valid = append(valid, rec)
	}

	return valid
}

// #endregion consistency-check
