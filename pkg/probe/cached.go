package probe

import (
	"context"
	"encoding/json"
	"time"

	"github.com/myrho/hovercard/pkg/cache"
	"github.com/myrho/hovercard/pkg/measure"
	"github.com/myrho/hovercard/pkg/observability"
)

// DefaultProbeTTL bounds how long a cached probe result stays fresh. Element
// geometry changes with every reflow, so the TTL is short.
const DefaultProbeTTL = 30 * time.Second

// Cached wraps a prober with a probe-result cache. Lookup errors are never
// cached; only successful probes are stored.
type Cached struct {
	inner measure.Prober
	cache cache.Cache
	url   string
	ttl   time.Duration
}

// NewCached wraps inner with c. url namespaces the keys (one page may be
// probed by several processes sharing a redis cache). A zero ttl uses
// DefaultProbeTTL.
func NewCached(inner measure.Prober, c cache.Cache, url string, ttl time.Duration) *Cached {
	if ttl == 0 {
		ttl = DefaultProbeTTL
	}
	return &Cached{inner: inner, cache: c, url: url, ttl: ttl}
}

// Probe serves from the cache when possible, otherwise probes and stores.
func (c *Cached) Probe(ctx context.Context, id string) (measure.Probe, error) {
	key := cache.ProbeKey(c.url, id)

	if data, hit, err := c.cache.Get(ctx, key); err == nil && hit {
		var p measure.Probe
		if json.Unmarshal(data, &p) == nil {
			observability.Cache().OnCacheHit(ctx, "probe")
			return p, nil
		}
		// Corrupt entry: fall through to a fresh probe.
		_ = c.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "probe")

	p, err := c.inner.Probe(ctx, id)
	if err != nil {
		return p, err
	}

	if data, err := json.Marshal(p); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			observability.Cache().OnCacheSet(ctx, "probe", len(data))
		}
	}
	return p, nil
}

// Ensure Cached implements measure.Prober.
var _ measure.Prober = (*Cached)(nil)
