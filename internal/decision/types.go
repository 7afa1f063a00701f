package decision

import (
	"fmt"

	"github.com/danielpatrickdp/neurosym-core/internal/rubric"
	"github.com/danielpatrickdp/neurosym-core/internal/seed"
)

// #region response-type

// ResponseType names the branch a decision was taken from.
type ResponseType int

const (
	ResponseSymbolic ResponseType = iota
	ResponseNeural
	ResponseHybrid
	ResponseGenerated
)

func (t ResponseType) String() string {
	switch t {
	case ResponseSymbolic:
		return "symbolic"
	case ResponseNeural:
		return "neural"
	case ResponseHybrid:
		return "hybrid"
	case ResponseGenerated:
		return "generated"
	}
	return fmt.Sprintf("response_type(%d)", int(t))
}

// MarshalText implements encoding.TextMarshaler.
func (t ResponseType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ParseResponseType is the inverse of String.
func ParseResponseType(s string) (ResponseType, error) {
	for _, t := range []ResponseType{ResponseSymbolic, ResponseNeural, ResponseHybrid, ResponseGenerated} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown response type %q", s)
}

// #endregion response-type

// #region context

// Context carries per-conversation inputs to Decide.
type Context struct {
	// DislikedLabel is the label the user pushed back on last turn, if any.
	DislikedLabel seed.Label
	// Risk is the rubric profile of the current message. Nil disables the
	// risk adjustment.
	Risk *rubric.Profile
}

// #endregion context

// #region decision

// Decision is the outcome of one Decide call.
type Decision struct {
	ResponseText         string       `json:"response_text"`
	ResponseType         ResponseType `json:"response_type"`
	Confidence           float64      `json:"confidence"`
	Reasoning            string       `json:"reasoning"`
	SymbolicContribution float64      `json:"symbolic_contribution"`
	NeuralContribution   float64      `json:"neural_contribution"`
	Seed                 *seed.Seed   `json:"seed,omitempty"`
	Label                seed.Label   `json:"label,omitempty"`
}

// #endregion decision
