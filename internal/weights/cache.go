package weights

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// #region config

// CacheConfig tunes how long the response path waits on the store.
type CacheConfig struct {
	LookupTimeout   time.Duration // max wait inside Lookup before falling back
	RefreshInterval time.Duration // entries younger than this are served without a store call
	FetchTimeout    time.Duration // deadline for the background store call
}

// DefaultCacheConfig returns defaults that keep fusion off the store's latency path.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		LookupTimeout:   25 * time.Millisecond,
		RefreshInterval: 5 * time.Minute,
		FetchTimeout:    2 * time.Second,
	}
}

// #endregion

// #region cache

type entry struct {
	weights Weights
	fetched time.Time
}

// Cache is the process-wide, read-mostly view of learned weights.
type Cache struct {
	store  Store
	config CacheConfig
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[ContextType]entry

	group singleflight.Group
	wg    sync.WaitGroup
}

// NewCache wraps store. A nil store serves Default for every context type.
func NewCache(store Store, config CacheConfig, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		store:   store,
		config:  config,
		logger:  logger.Named("weights"),
		now:     time.Now,
		entries: make(map[ContextType]entry),
	}
}

// #endregion

// #region lookup

// Lookup returns the weights for ct. A fresh cached value is returned at once;
// otherwise the store is asked and awaited for at most LookupTimeout, after
// which the last-known value (or Default) is returned while the fetch keeps
// running in the background.
func (c *Cache) Lookup(ctx context.Context, ct ContextType) Weights {
	c.mu.RLock()
	e, ok := c.entries[ct]
	c.mu.RUnlock()

	fallback := Default
	if ok {
		if c.now().Sub(e.fetched) < c.config.RefreshInterval {
			return e.weights
		}
		fallback = e.weights
	}
	if c.store == nil {
		return fallback
	}

	ch := c.refresh(ct)
	timer := time.NewTimer(c.config.LookupTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			return fallback
		}
		return res.Val.(Weights)
	case <-timer.C:
		c.logger.Debug("weight lookup timed out, serving fallback",
			zap.Stringer("context_type", ct))
		return fallback
	case <-ctx.Done():
		return fallback
	}
}

// refresh starts (or joins) a store fetch for ct. The returned channel is buffered
// so an abandoned lookup never blocks the fetch goroutine.
func (c *Cache) refresh(ct ContextType) <-chan singleflight.Result {
	ch := make(chan singleflight.Result, 1)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		v, err, shared := c.group.Do(ct.String(), func() (any, error) {
			return c.fetch(ct)
		})
		ch <- singleflight.Result{Val: v, Err: err, Shared: shared}
	}()
	return ch
}

func (c *Cache) fetch(ct ContextType) (Weights, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.config.FetchTimeout)
	defer cancel()

	w, err := c.store.GetWeights(ctx, ct)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			c.Put(ct, Default)
		} else {
			c.logger.Warn("weight store unavailable",
				zap.Stringer("context_type", ct), zap.Error(err))
		}
		return Weights{}, err
	}
	w = FromSymbolic(w.Symbolic)
	c.Put(ct, w)
	return w, nil
}

// #endregion

// #region accessors

// Put sets the cached weights for ct, normalized.
func (c *Cache) Put(ct ContextType, w Weights) {
	w = FromSymbolic(w.Symbolic)
	c.mu.Lock()
	c.entries[ct] = entry{weights: w, fetched: c.now()}
	c.mu.Unlock()
}

// Snapshot returns the currently cached weights.
func (c *Cache) Snapshot() map[ContextType]Weights {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[ContextType]Weights, len(c.entries))
	for ct, e := range c.entries {
		out[ct] = e.weights
	}
	return out
}

// Wait blocks until every background fetch has finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

// #endregion
