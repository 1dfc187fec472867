package cache

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackfold/pkg/layout"
)

// keyVersion is bumped when the cached result format changes.
const keyVersion = "v1"

// LayoutKey returns the cache key for req. Animate is only a hint to
// interactive hosts and does not take part in the key.
func LayoutKey(req layout.Request) string {
	req.Options.Animate = 0
	return hashKey("layout", keyVersion, req)
}

// Capability caches the results of an inner layout capability. Failed
// layouts are not cached.
type Capability struct {
	inner  layout.Capability
	cache  Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewCapability wraps inner with c. A ttl of zero uses DefaultTTL; a nil
// logger discards.
func NewCapability(inner layout.Capability, c Cache, ttl time.Duration, logger *log.Logger) *Capability {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Capability{inner: inner, cache: c, ttl: ttl, logger: logger}
}

// Run serves req from the cache or runs the inner capability and stores
// its result.
func (c *Capability) Run(ctx context.Context, req layout.Request, done func(layout.Result, error)) {
	key := LayoutKey(req)
	if data, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read failed", "err", err)
	} else if ok {
		var res layout.Result
		if err := json.Unmarshal(data, &res); err == nil {
			c.logger.Debug("layout cache hit", "nodes", len(req.Nodes))
			done(res, nil)
			return
		}
		_ = c.cache.Delete(ctx, key)
	}

	c.inner.Run(ctx, req, func(res layout.Result, err error) {
		if err == nil {
			if data, merr := json.Marshal(res); merr == nil {
				if serr := c.cache.Set(ctx, key, data, c.ttl); serr != nil {
					c.logger.Warn("cache write failed", "err", serr)
				}
			}
		}
		done(res, err)
	})
}

var _ layout.Capability = (*Capability)(nil)
