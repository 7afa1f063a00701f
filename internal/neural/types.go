package neural

import "encoding/json"

// #region similarity

// Similarity is one externally supplied embedding-search hit.
// SimilarityScore is nil when the upstream entry had no usable score.
type Similarity struct {
	ContentID       string         `json:"content_id"`
	ContentType     string         `json:"content_type"`
	ContentText     string         `json:"content_text"`
	SimilarityScore *float64       `json:"similarity_score"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// Score returns the similarity score, or false when it is missing or not a number.
func (s Similarity) Score() (float64, bool) {
	if s.SimilarityScore == nil {
		return 0, false
	}
	v := *s.SimilarityScore
	if v != v { // NaN
		return 0, false
	}
	return v, true
}

// UnmarshalJSON decodes field by field so one bad value does not reject the
// whole request. A missing or non-numeric score leaves SimilarityScore nil and
// Evaluate skips the entry; other mistyped fields are left empty.
func (s *Similarity) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		// not an object: keep the zero value, which has no score
		*s = Similarity{}
		return nil
	}
	var out Similarity
	_ = json.Unmarshal(raw["content_id"], &out.ContentID)
	_ = json.Unmarshal(raw["content_type"], &out.ContentType)
	_ = json.Unmarshal(raw["content_text"], &out.ContentText)
	_ = json.Unmarshal(raw["metadata"], &out.Metadata)
	var score float64
	if v, ok := raw["similarity_score"]; ok && string(v) != "null" && json.Unmarshal(v, &score) == nil {
		out.SimilarityScore = &score
	}
	*s = out
	return nil
}

// Label returns the metadata "label" entry when the content carries one.
func (s Similarity) Label() string {
	if s.Metadata == nil {
		return ""
	}
	if v, ok := s.Metadata["label"].(string); ok {
		return v
	}
	return ""
}

// #endregion

// #region match

// Match is a rescored similarity hit.
type Match struct {
	Similarity     Similarity
	RelevanceScore float64
	ContextualFit  float64
}

// #endregion
