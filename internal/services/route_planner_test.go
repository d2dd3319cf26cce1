package services

import (
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straightFinder flies directly to a point just short of the goal.
type straightFinder struct {
	mu    sync.Mutex
	calls int
}

func (f *straightFinder) FindPath(start, goal domain.Position, _ []domain.Polygon) (domain.Route, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	near := domain.Position{Lng: goal.Lng + 0.5, Lat: goal.Lat}
	return domain.Route{start, near}, nil
}

type failingFinder struct{}

func (failingFinder) FindPath(domain.Position, domain.Position, []domain.Polygon) (domain.Route, error) {
	return nil, geo.ErrNoPathFound
}

func TestPlanFlightChainsLegs(t *testing.T) {
	home := domain.Position{}
	deliveries := []domain.DeliveryRequest{deliveryAt(1, 10, 0), deliveryAt(2, 3, 0)}

	flight, err := PlanFlight(context.Background(), &straightFinder{}, home, deliveries, nil)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, deliveryIDs(flight.Deliveries))
	require.Len(t, flight.Legs, 2)

	assert.Equal(t, home, flight.Legs[0][0])
	// Each leg starts where the previous one ended.
	assert.Equal(t, flight.Legs[0].Last(), flight.Legs[1][0])
	assert.Equal(t, flight.Legs[1].Last(), flight.Return[0])
}

func TestPlanFlightPropagatesNoPath(t *testing.T) {
	_, err := PlanFlight(context.Background(), failingFinder{}, domain.Position{}, []domain.DeliveryRequest{deliveryAt(1, 1, 1)}, nil)
	require.ErrorIs(t, err, geo.ErrNoPathFound)
}

func TestPlanFlightHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := PlanFlight(ctx, &straightFinder{}, domain.Position{}, []domain.DeliveryRequest{deliveryAt(1, 1, 1)}, nil)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoFinderCachesLegs(t *testing.T) {
	inner := &straightFinder{}
	memo := newMemoFinder(inner)

	a := domain.Position{Lng: 1}
	b := domain.Position{Lng: 2}

	first, err := memo.FindPath(a, b, nil)
	require.NoError(t, err)
	second, err := memo.FindPath(a, b, nil)
	require.NoError(t, err)
	_, err = memo.FindPath(b, a, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, inner.calls)
}
