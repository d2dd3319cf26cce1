package services

import (
	"drone-dispatch-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
)

func deliveryAt(id int, lng, lat float64) domain.DeliveryRequest {
	return domain.DeliveryRequest{ID: id, Destination: domain.Position{Lng: lng, Lat: lat}}
}

func TestNearestNeighborOrder(t *testing.T) {
	deliveries := []domain.DeliveryRequest{
		deliveryAt(1, 10, 0),
		deliveryAt(2, 1, 0),
		deliveryAt(3, 3, 0),
	}

	ordered := NearestNeighborOrder(domain.Position{}, deliveries)
	assert.Equal(t, []int{2, 3, 1}, deliveryIDs(ordered))

	// Input order is untouched.
	assert.Equal(t, []int{1, 2, 3}, deliveryIDs(deliveries))
}

func TestNearestNeighborOrderBreaksTiesByID(t *testing.T) {
	deliveries := []domain.DeliveryRequest{
		deliveryAt(9, 0, 1),
		deliveryAt(4, 1, 0),
		deliveryAt(7, -1, 0),
	}

	ordered := NearestNeighborOrder(domain.Position{}, deliveries)
	assert.Equal(t, 4, ordered[0].ID)
}

func TestStraightLineTour(t *testing.T) {
	ordered := []domain.DeliveryRequest{deliveryAt(1, 3, 0), deliveryAt(2, 3, 4)}

	assert.InDelta(t, 3+4+5, StraightLineTour(domain.Position{}, ordered), 1e-12)
	assert.Equal(t, 0.0, StraightLineTour(domain.Position{}, nil))
}
