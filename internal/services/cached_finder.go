package services

import (
	"context"
	"crypto/sha256"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
	"time"

	"go.uber.org/zap"
)

const routeCacheTimeout = 2 * time.Second

// CachedFinder consults a persistent route cache before searching and stores
// every route it finds. Cache failures are logged and never fail a search.
// Failed searches are not cached.
type CachedFinder struct {
	next  PathFinder
	cache ports.RouteCache
	cfg   geo.Config
	log   *zap.Logger
}

// NewCachedFinder wraps next with cache. Keys are derived from cfg.
func NewCachedFinder(next PathFinder, cache ports.RouteCache, cfg geo.Config, log *zap.Logger) *CachedFinder {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedFinder{next: next, cache: cache, cfg: cfg, log: log}
}

// FindPath returns the cached route for the leg, or searches and caches it.
func (c *CachedFinder) FindPath(start, goal domain.Position, zones []domain.Polygon) (domain.Route, error) {
	key := RouteKey(c.cfg, start, goal, zones)

	route, found, err := c.get(key)
	switch {
	case err != nil:
		c.log.Warn("route cache read failed", zap.Error(err))
	case found:
		return route, nil
	}

	route, err = c.next.FindPath(start, goal, zones)
	if err != nil {
		return nil, err
	}

	if err := c.put(key, route); err != nil {
		c.log.Warn("route cache write failed", zap.Error(err))
	}
	return route, nil
}

func (c *CachedFinder) get(key string) (domain.Route, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), routeCacheTimeout)
	defer cancel()
	return c.cache.GetRoute(ctx, key)
}

func (c *CachedFinder) put(key string, route domain.Route) error {
	ctx, cancel := context.WithTimeout(context.Background(), routeCacheTimeout)
	defer cancel()
	return c.cache.PutRoute(ctx, key, route)
}

// RouteKey identifies a leg by its endpoints, the obstacles in force, and the
// flight model scale. Equal inputs always yield the same key.
func RouteKey(cfg geo.Config, start, goal domain.Position, zones []domain.Polygon) string {
	h := sha256.New()

	writeFloats(h, cfg.MoveDistance, cfg.CloseDistance, float64(cfg.MaxExpansions))
	writeFloats(h, cfg.Headings...)
	writeFloats(h, start.Lng, start.Lat, goal.Lng, goal.Lat)

	writeFloats(h, float64(len(zones)))
	for _, z := range zones {
		writeFloats(h, float64(len(z)))
		for _, v := range z {
			writeFloats(h, v.Lng, v.Lat)
		}
	}

	return hex.EncodeToString(h.Sum(nil))
}

func writeFloats(h hash.Hash, vals ...float64) {
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
}
