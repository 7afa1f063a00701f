package weights

import (
	"context"
	"errors"
)

// #region context-type

// ContextType classifies a fusion request for weight learning.
type ContextType int

const (
	ContextNormal ContextType = iota
	ContextGreeting
	ContextCrisis
	ContextLowConfidence
	ContextHighConfidence
	ContextUserAgencyHigh
)

var contextTypeNames = [...]string{
	ContextNormal:         "normal",
	ContextGreeting:       "greeting",
	ContextCrisis:         "crisis",
	ContextLowConfidence:  "low_confidence",
	ContextHighConfidence: "high_confidence",
	ContextUserAgencyHigh: "user_agency_high",
}

func (c ContextType) String() string {
	if c < 0 || int(c) >= len(contextTypeNames) {
		return "unknown"
	}
	return contextTypeNames[c]
}

// MarshalText serializes context types by name.
func (c ContextType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// ParseContextType is the inverse of String.
func ParseContextType(s string) (ContextType, bool) {
	for i, name := range contextTypeNames {
		if name == s {
			return ContextType(i), true
		}
	}
	return ContextNormal, false
}

// AllContextTypes lists every context type in declaration order.
func AllContextTypes() []ContextType {
	out := make([]ContextType, len(contextTypeNames))
	for i := range contextTypeNames {
		out[i] = ContextType(i)
	}
	return out
}

// #endregion

// #region weights

// Weights is a symbolic/neural blend ratio. Symbolic+Neural is always 1.
type Weights struct {
	Symbolic float64
	Neural   float64
}

// Default is used when nothing has been learned for a context type. It is
// built through FromSymbolic so caching it is a no-op.
var Default = FromSymbolic(0.7)

// FromSymbolic builds a normalized pair from the symbolic share, clamped to [0,1].
func FromSymbolic(symbolic float64) Weights {
	if symbolic != symbolic || symbolic < 0 {
		symbolic = 0
	}
	if symbolic > 1 {
		symbolic = 1
	}
	return Weights{Symbolic: symbolic, Neural: 1 - symbolic}
}

// #endregion

// #region store

// ErrNoData is returned by a Store that has too little evidence for a context type.
var ErrNoData = errors.New("weights: no learned data")

// Store is the learning backend the cache reads from.
type Store interface {
	GetWeights(ctx context.Context, ct ContextType) (Weights, error)
}

// Recorder accepts fusion outcomes for later learning.
type Recorder interface {
	RecordOutcome(ctx context.Context, o Outcome) error
}

// #endregion
