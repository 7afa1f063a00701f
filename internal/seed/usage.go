package seed

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// #region sink

// UsageSink persists a seed selection. Implementations may be called more
// than once for the same selection.
type UsageSink interface {
	IncrementUsage(id string, at time.Time) error
}

// #endregion

// #region tracker

type usage struct {
	count    int
	lastUsed time.Time
}

// UsageTracker keeps in-process usage counters on top of the catalogue values
// and forwards each selection to an optional sink.
type UsageTracker struct {
	mu      sync.Mutex
	counts  map[string]usage
	pending map[string][]time.Time // selections the sink has not accepted yet
	sink    UsageSink
	logger  *zap.Logger
}

// NewUsageTracker creates a tracker. sink and logger may be nil.
func NewUsageTracker(sink UsageSink, logger *zap.Logger) *UsageTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsageTracker{
		counts:  make(map[string]usage),
		pending: make(map[string][]time.Time),
		sink:    sink,
		logger:  logger.Named("usage"),
	}
}

// RecordUse registers one selection of id at the given time. Sink failures are
// logged and the selection is retried on the next call for the same seed.
func (t *UsageTracker) RecordUse(id string, at time.Time) {
	t.mu.Lock()
	u := t.counts[id]
	u.count++
	if at.After(u.lastUsed) {
		u.lastUsed = at
	}
	t.counts[id] = u
	queue := append(t.pending[id], at)
	delete(t.pending, id)
	t.mu.Unlock()

	if t.sink == nil {
		return
	}
	for i, ts := range queue {
		if err := t.sink.IncrementUsage(id, ts); err != nil {
			t.logger.Warn("usage sink failed", zap.String("seed", id), zap.Error(err))
			t.mu.Lock()
			t.pending[id] = append(queue[i:], t.pending[id]...)
			t.mu.Unlock()
			return
		}
	}
}

// Apply overlays tracked usage onto seeds, returning updated copies.
func (t *UsageTracker) Apply(seeds []Seed) []Seed {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Seed, len(seeds))
	for i, s := range seeds {
		if u, ok := t.counts[s.ID]; ok {
			s.UsageCount += u.count
			if s.LastUsedAt == nil || u.lastUsed.After(*s.LastUsedAt) {
				last := u.lastUsed
				s.LastUsedAt = &last
			}
		}
		out[i] = s
	}
	return out
}

// Reset drops in-process counters, used after the catalogue is reloaded from
// the persisted store that already includes them.
func (t *UsageTracker) Reset() {
	t.mu.Lock()
	t.counts = make(map[string]usage)
	t.mu.Unlock()
}

// Pending returns how many selections of id still wait for the sink.
func (t *UsageTracker) Pending(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending[id])
}

// #endregion
