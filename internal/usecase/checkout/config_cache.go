package checkout

import (
	"sync"
	"time"
)

// GatewayConfig is the public half of the gateway credentials: what the SPA
// needs to initialize the hosted checkout UI. The server key never appears
// here.
type GatewayConfig struct {
	ClientKey   string `json:"clientKey"`
	Environment string `json:"environment"`
}

// ConfigCache holds a (value, fetchedAt) pair behind a getOrRefresh accessor.
// The clock is injected so expiry is testable.
type ConfigCache struct {
	mu        sync.Mutex
	value     GatewayConfig
	fetchedAt time.Time
	ttl       time.Duration
	now       func() time.Time
	fetch     func() (GatewayConfig, error)
}

func NewConfigCache(fetch func() (GatewayConfig, error), ttl time.Duration, now func() time.Time) *ConfigCache {
	if now == nil {
		now = time.Now
	}
	return &ConfigCache{
		ttl:   ttl,
		now:   now,
		fetch: fetch,
	}
}

// GetOrRefresh returns the cached value, refreshing it once the TTL has
// elapsed. A failed refresh falls back to the last good value if one exists.
func (c *ConfigCache) GetOrRefresh() (GatewayConfig, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetchedAt.IsZero() && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	v, err := c.fetch()
	if err != nil {
		if !c.fetchedAt.IsZero() {
			return c.value, nil
		}
		return GatewayConfig{}, err
	}

	c.value = v
	c.fetchedAt = c.now()
	return c.value, nil
}
