package services

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/metrics"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
)

// CachedFetcher is a PredictionFetcher whose stored ranges can be dropped.
type CachedFetcher interface {
	PredictionFetcher
	Invalidate(r models.DateRange)
}

type cacheEntry struct {
	preds     []models.Prediction
	expiresAt time.Time
}

// PredictionCache keeps fetched predictions per date range so that every
// session looking at the same window sees the same records. Concurrent
// misses for one range share a single upstream fetch.
type PredictionCache struct {
	fetcher PredictionFetcher
	ttl     time.Duration
	metrics *metrics.Recorder
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
	// gens is bumped by Invalidate. A fetch stores its result only if the
	// generation it started under is still current.
	gens  map[string]uint64
	group singleflight.Group
}

// NewPredictionCache wraps fetcher. A zero ttl disables caching but keeps
// the in-flight deduplication.
func NewPredictionCache(fetcher PredictionFetcher, ttl time.Duration, rec *metrics.Recorder) *PredictionCache {
	return &PredictionCache{
		fetcher: fetcher,
		ttl:     ttl,
		metrics: rec,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
		gens:    make(map[string]uint64),
	}
}

// FetchPredictions returns the cached predictions for r or fetches them.
func (c *PredictionCache) FetchPredictions(ctx context.Context, r models.DateRange) ([]models.Prediction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	key := r.Key()

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Before(entry.expiresAt) {
		c.mu.Unlock()
		c.metrics.CacheHit()
		return slices.Clone(entry.preds), nil
	}
	c.mu.Unlock()
	c.metrics.CacheMiss()

	return c.load(ctx, "fetch|"+key, r)
}

// Reload bypasses the cache, fetches r and stores the result.
func (c *PredictionCache) Reload(ctx context.Context, r models.DateRange) ([]models.Prediction, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return c.load(ctx, "reload|"+r.Key(), r)
}

// Invalidate drops the entry for r. A fetch already in flight for r is
// detached: its callers still get its result but it is not stored, and
// later callers start a new fetch.
func (c *PredictionCache) Invalidate(r models.DateRange) {
	key := r.Key()
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	n := len(c.entries)
	c.mu.Unlock()
	c.group.Forget("fetch|" + key)
	c.group.Forget("reload|" + key)
	c.metrics.SetCacheEntries(n)
}

// Len returns the number of cached ranges, expired ones included.
func (c *PredictionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *PredictionCache) load(ctx context.Context, flightKey string, r models.DateRange) ([]models.Prediction, error) {
	// The shared fetch must not die with whichever caller started it.
	fetchCtx := context.WithoutCancel(ctx)
	key := r.Key()
	ch := c.group.DoChan(flightKey, func() (any, error) {
		c.mu.Lock()
		gen := c.gens[key]
		c.mu.Unlock()

		preds, err := c.fetcher.FetchPredictions(fetchCtx, r)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			c.mu.Lock()
			stored := gen == c.gens[key]
			if stored {
				c.entries[key] = cacheEntry{preds: preds, expiresAt: c.now().Add(c.ttl)}
			}
			n := len(c.entries)
			c.mu.Unlock()
			if stored {
				c.metrics.SetCacheEntries(n)
			}
		}
		return preds, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Prediction)), nil
	}
}

// Sweep removes expired entries.
func (c *PredictionCache) Sweep() int {
	c.mu.Lock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			removed++
		}
	}
	n := len(c.entries)
	c.mu.Unlock()
	c.metrics.SetCacheEntries(n)
	return removed
}
