// Package cache implements the two-tier extraction/transformation cache: a
// bounded in-process map plus an optional shared Redis tier. Caching is an
// optimization only; every stage must produce identical output with or
// without it, so tier failures are swallowed here and never reach callers.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// DefaultMaxEntries bounds the in-process tier when no capacity is configured.
const DefaultMaxEntries = 1000

// DefaultTTL is the remote-tier time-to-live.
const DefaultTTL = 7 * 24 * time.Hour

// Layered is the two-tier key/value store. The remote tier is authoritative
// when reachable; the in-process tier answers when the remote tier is
// disabled, misses, or fails.
type Layered struct {
	mem    *memoryTier
	remote Remote // nil when the startup probe failed or Redis is not configured
	ttl    time.Duration
	log    *slog.Logger
}

// Options configures a Layered cache.
type Options struct {
	MaxEntries int
	TTL        time.Duration
}

// NewLayered builds a layered cache. remote may be nil, in which case only
// the in-process tier is used.
func NewLayered(opts Options, remote Remote, logger *slog.Logger) *Layered {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	return &Layered{
		mem:    newMemoryTier(opts.MaxEntries),
		remote: remote,
		ttl:    opts.TTL,
		log:    logger,
	}
}

// Get looks the key up in the remote tier first, then the in-process tier.
// A remote failure is treated identically to a remote miss.
func (c *Layered) Get(ctx context.Context, key string) ([]byte, bool) {
	if c.remote != nil {
		res := c.remote.Get(ctx, key)
		switch res.State {
		case Hit:
			return res.Value, true
		case Failed:
			c.log.Debug("cache.remote.get_failed", "key", key, "error", res.Err)
		}
	}
	return c.mem.get(key)
}

// Set writes to the remote tier best-effort and to the in-process tier
// unconditionally.
func (c *Layered) Set(ctx context.Context, key string, value []byte) {
	if c.remote != nil {
		if err := c.remote.Set(ctx, key, value, c.ttl); err != nil {
			c.log.Debug("cache.remote.set_failed", "key", key, "error", err)
		}
	}
	c.mem.set(key, value)
}

// Stats reports cache occupancy for monitoring.
type Stats struct {
	InMemoryEntries int   `json:"inMemoryEntries"`
	RemoteEnabled   bool  `json:"remoteEnabled"`
	RemoteAvailable bool  `json:"remoteAvailable"`
	RemoteKeys      int64 `json:"remoteKeys"`
}

func (c *Layered) Stats(ctx context.Context) Stats {
	s := Stats{
		InMemoryEntries: c.mem.len(),
		RemoteKeys:      -1,
	}
	if c.remote != nil {
		s.RemoteEnabled = true
		rs := c.remote.Stats(ctx)
		s.RemoteAvailable = rs.Available
		s.RemoteKeys = rs.Keys
	}
	return s
}

// Clear empties the in-process tier and best-effort flushes the remote tier.
func (c *Layered) Clear(ctx context.Context) {
	c.mem.clear()
	if c.remote != nil {
		if err := c.remote.Clear(ctx); err != nil {
			c.log.Warn("cache.remote.clear_failed", "error", err)
		}
	}
}
