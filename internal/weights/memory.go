package weights

import (
	"context"
	"sync"
)

// #region memory-store

// MemoryStore is an in-process Store with explicitly set weights.
type MemoryStore struct {
	mu      sync.RWMutex
	weights map[ContextType]Weights
}

// NewMemoryStore creates an empty store; every lookup returns ErrNoData until Set.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{weights: make(map[ContextType]Weights)}
}

// Set stores the symbolic share for ct.
func (m *MemoryStore) Set(ct ContextType, symbolic float64) {
	m.mu.Lock()
	m.weights[ct] = FromSymbolic(symbolic)
	m.mu.Unlock()
}

// GetWeights implements Store.
func (m *MemoryStore) GetWeights(_ context.Context, ct ContextType) (Weights, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.weights[ct]
	if !ok {
		return Weights{}, ErrNoData
	}
	return w, nil
}

// #endregion
