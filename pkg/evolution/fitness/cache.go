package fitness

import (
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

// CachedEvaluator memoizes scores by candidate. Tournament selection and
// breeding revisit the same genomes many times within a run, and the
// scoring function is pure, so cached values never go stale.
type CachedEvaluator struct {
	inner Func
	cache *gocache.Cache

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedEvaluator wraps inner. A ttl of zero keeps entries for the
// lifetime of the evaluator.
func NewCachedEvaluator(inner Func, ttl time.Duration) *CachedEvaluator {
	expiration, cleanup := gocache.NoExpiration, time.Duration(0)
	if ttl > 0 {
		expiration, cleanup = ttl, 2*ttl
	}
	return &CachedEvaluator{
		inner: inner,
		cache: gocache.New(expiration, cleanup),
	}
}

// Evaluate returns the cached score of c, computing it on a miss.
func (e *CachedEvaluator) Evaluate(c framework.Candidate) float64 {
	key := c.Key()
	if v, ok := e.cache.Get(key); ok {
		e.hits.Add(1)
		return v.(float64)
	}
	e.misses.Add(1)
	score := e.inner.Evaluate(c)
	e.cache.SetDefault(key, score)
	return score
}

// Stats returns the number of cache hits and misses so far.
func (e *CachedEvaluator) Stats() (hits, misses int64) {
	return e.hits.Load(), e.misses.Load()
}

// Len returns the number of memoized candidates.
func (e *CachedEvaluator) Len() int {
	return e.cache.ItemCount()
}
