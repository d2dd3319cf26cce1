package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"sync"
)

// PathFinder is the search the planner flies legs with.
type PathFinder interface {
	FindPath(start, goal domain.Position, zones []domain.Polygon) (domain.Route, error)
}

// Represents a drone sortie laid out on the map but not yet assigned to a drone.
type Flight struct {
	Deliveries []domain.DeliveryRequest
	Legs       []domain.Route
	Return     domain.Route
}

// Plan the legs of a sortie from home.
//
// Deliveries are visited in nearest-neighbor order. Each leg starts where the
// previous one ended (close to, not exactly at, the previous destination), and
// the return leg flies back to home.
func PlanFlight(
	ctx context.Context,
	finder PathFinder,
	home domain.Position,
	deliveries []domain.DeliveryRequest,
	zones []domain.Polygon,
) (*Flight, error) {
	if finder == nil {
		return nil, errors.New("plan flight: finder must be non-nil")
	}

	if len(deliveries) == 0 {
		return &Flight{Deliveries: []domain.DeliveryRequest{}, Legs: []domain.Route{}}, nil
	}

	ordered := NearestNeighborOrder(home, deliveries)
	legs := make([]domain.Route, 0, len(ordered))

	current := home
	for _, d := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("plan flight: %w", err)
		}

		leg, err := finder.FindPath(current, d.Destination, zones)
		if err != nil {
			return nil, fmt.Errorf("plan flight: leg to delivery %d: %w", d.ID, err)
		}

		legs = append(legs, leg)
		current = leg.Last()
	}

	back, err := finder.FindPath(current, home, zones)
	if err != nil {
		return nil, fmt.Errorf("plan flight: return leg: %w", err)
	}

	return &Flight{Deliveries: ordered, Legs: legs, Return: back}, nil
}

type legKey struct {
	from domain.Position
	to   domain.Position
}

type legResult struct {
	route domain.Route
	err   error
}

// memoFinder caches leg searches for the lifetime of one planning call.
// Zones are fixed for that lifetime, so they are not part of the key.
type memoFinder struct {
	next PathFinder

	mu   sync.Mutex
	legs map[legKey]legResult
}

func newMemoFinder(next PathFinder) *memoFinder {
	return &memoFinder{next: next, legs: make(map[legKey]legResult)}
}

func (m *memoFinder) FindPath(start, goal domain.Position, zones []domain.Polygon) (domain.Route, error) {
	k := legKey{from: start, to: goal}

	m.mu.Lock()
	res, ok := m.legs[k]
	m.mu.Unlock()
	if ok {
		return res.route, res.err
	}

	route, err := m.next.FindPath(start, goal, zones)

	m.mu.Lock()
	m.legs[k] = legResult{route: route, err: err}
	m.mu.Unlock()

	return route, err
}
