package cache

import (
	"context"
	"database/sql"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/platform/db"
	"encoding/json"
	"errors"
	"fmt"
)

// SQLRouteCache is a SQL-backed cache of computed flight legs.
// Paths are stored as JSON arrays of [lng, lat] pairs.
type SQLRouteCache struct {
	DB     *sql.DB
	Driver string
}

func NewSQLRouteCache(conn *sql.DB, driver string) *SQLRouteCache {
	return &SQLRouteCache{DB: conn, Driver: driver}
}

// Fetch the cached route for one leg key.
func (s *SQLRouteCache) GetRoute(ctx context.Context, key string) (domain.Route, bool, error) {
	if s.DB == nil {
		return nil, false, errors.New("route cache: db is nil")
	}
	if key == "" {
		return nil, false, errors.New("get route cache: key must not be empty")
	}

	q := db.Rebind(s.Driver, `
	SELECT path
	FROM route_cache
	WHERE leg_key = ?;
	`)

	var raw string
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var coords [][2]float64
	if err := json.Unmarshal([]byte(raw), &coords); err != nil {
		return nil, false, fmt.Errorf("get route cache: decode path: %w", err)
	}
	if len(coords) == 0 {
		return nil, false, fmt.Errorf("get route cache: empty path for key %q", key)
	}

	route := make(domain.Route, len(coords))
	for i, c := range coords {
		route[i] = domain.Position{Lng: c[0], Lat: c[1]}
	}
	return route, true, nil
}

// Store one route, replacing an existing entry for the same key.
func (s *SQLRouteCache) PutRoute(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	if key == "" {
		return errors.New("insert route cache: key must not be empty")
	}
	if len(route) == 0 {
		return errors.New("insert route cache: route must not be empty")
	}

	coords := make([][2]float64, len(route))
	for i, p := range route {
		coords[i] = [2]float64{p.Lng, p.Lat}
	}
	raw, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("insert route cache: encode path: %w", err)
	}

	q := db.Rebind(s.Driver, `
	INSERT INTO route_cache (leg_key, path)
	VALUES (?, ?)
	ON CONFLICT (leg_key) DO UPDATE
	SET path = excluded.path;
	`)
	if _, err := s.DB.ExecContext(ctx, q, key, string(raw)); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}
