package resultcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cyrizon/tollroute/internal/config"
	"github.com/cyrizon/tollroute/internal/domain"
)

// SelectionCache wraps a byte Cache with Selection-specific (de)serialization
// and query fingerprinting.
type SelectionCache struct {
	backend Cache
	ttl     time.Duration
}

// New builds a SelectionCache backed by Redis when cfg.Addr is set, or an
// in-process map otherwise.
func New(cfg config.ResultCacheConfig, logger *zap.Logger) (*SelectionCache, error) {
	if cfg.Addr == "" {
		logger.Info("result cache using in-process map (no redis address configured)")
		return &SelectionCache{backend: newMemoryCache(), ttl: cfg.TTL}, nil
	}

	backend, err := newRedisCache(cfg.Addr, logger)
	if err != nil {
		return nil, err
	}
	return &SelectionCache{backend: backend, ttl: cfg.TTL}, nil
}

// Key deterministically fingerprints one query so identical requests hit
// the same cache entry.
func Key(origin, dest domain.Point, vehicle domain.VehicleClass, mode string, target int, budget float64) string {
	return fmt.Sprintf("tollroute:sel:%.6f,%.6f-%.6f,%.6f:%s:%s:%d:%.2f",
		origin.Lon, origin.Lat, dest.Lon, dest.Lat, vehicle, mode, target, budget)
}

// Entry is the unit this cache stores: the priced Selection together with
// the route it was priced against, so a hit short-circuits every step of
// the pipeline, not just the pricing arithmetic.
type Entry struct {
	Route     domain.RouteProbe
	Selection domain.Selection
}

func (c *SelectionCache) Get(ctx context.Context, key string) (Entry, bool, error) {
	raw, ok, err := c.backend.Get(ctx, key)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false, fmt.Errorf("resultcache: decode %q: %w", key, err)
	}
	return entry, true, nil
}

func (c *SelectionCache) Set(ctx context.Context, key string, entry Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("resultcache: encode %q: %w", key, err)
	}
	return c.backend.Set(ctx, key, raw, c.ttl)
}

func (c *SelectionCache) Close() error { return c.backend.Close() }
