package server

import (
	"context"
	"sync"
	"time"
)

const (
	// livenessRefreshInterval bounds how often the generator backend is
	// actually probed; health checks in between reuse the cached answer.
	livenessRefreshInterval = 30 * time.Second

	// livenessProbeTimeout caps a single probe so a hung backend can't
	// stall the health endpoint.
	livenessProbeTimeout = 3 * time.Second
)

// livenessCache memoizes a boolean availability probe. Health endpoints
// get hit on every bot heartbeat; probing the generator each time would
// be slower than the check is worth.
type livenessCache struct {
	mu              sync.Mutex
	value           bool
	lastChecked     time.Time
	refreshInterval time.Duration
	probeTimeout    time.Duration
}

func newLivenessCache() *livenessCache {
	return &livenessCache{
		refreshInterval: livenessRefreshInterval,
		probeTimeout:    livenessProbeTimeout,
	}
}

// shouldRefresh reports whether the cached value is stale at now.
func (c *livenessCache) shouldRefresh(now time.Time) bool {
	return c.lastChecked.IsZero() || now.Sub(c.lastChecked) > c.refreshInterval
}

// get returns the cached availability, refreshing via probe when stale.
// A probe that fails or times out reports false; it never propagates.
func (c *livenessCache) get(ctx context.Context, probe func(context.Context) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if !c.shouldRefresh(now) {
		return c.value
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	c.value = probe(probeCtx)
	c.lastChecked = now
	return c.value
}
