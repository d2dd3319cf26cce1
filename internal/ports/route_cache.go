package ports

import (
	"context"
	"drone-dispatch-service/internal/domain"
)

// Port: persistent store of flight legs already found by the pathfinder.
// Keys are opaque and must capture everything the route depends on.
type RouteCache interface {
	// Return the route stored under key; found is false on a miss.
	GetRoute(ctx context.Context, key string) (route domain.Route, found bool, err error)
	// Store route under key, replacing any previous entry.
	PutRoute(ctx context.Context, key string, route domain.Route) error
}
