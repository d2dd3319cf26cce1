package services

import (
	"drone-dispatch-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBisectByLocationSplitsAlongWiderAxis(t *testing.T) {
	// Spread mostly east-west, so the split is by longitude.
	deliveries := []domain.DeliveryRequest{
		deliveryAt(1, 5, 0.1),
		deliveryAt(2, 0, 0.2),
		deliveryAt(3, 4, 0),
		deliveryAt(4, 1, 0.3),
		deliveryAt(5, 2, 0.1),
	}

	left, right, err := BisectByLocation(deliveries)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, deliveryIDs(left))
	assert.Equal(t, []int{3, 1}, deliveryIDs(right))
}

func TestBisectByLocationNorthSouth(t *testing.T) {
	deliveries := []domain.DeliveryRequest{
		deliveryAt(1, 0, 3),
		deliveryAt(2, 0.1, -3),
	}

	left, right, err := BisectByLocation(deliveries)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, deliveryIDs(left))
	assert.Equal(t, []int{1}, deliveryIDs(right))
}

func TestBisectByLocationSamePlace(t *testing.T) {
	deliveries := []domain.DeliveryRequest{deliveryAt(3, 1, 1), deliveryAt(1, 1, 1), deliveryAt(2, 1, 1)}

	left, right, err := BisectByLocation(deliveries)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, deliveryIDs(left))
	assert.Equal(t, []int{3}, deliveryIDs(right))
}

func TestBisectByLocationRejectsSingleton(t *testing.T) {
	_, _, err := BisectByLocation([]domain.DeliveryRequest{deliveryAt(1, 0, 0)})
	require.Error(t, err)
}

func TestChunkByLocation(t *testing.T) {
	deliveries := []domain.DeliveryRequest{
		deliveryAt(1, 0, 0), deliveryAt(2, 1, 0), deliveryAt(3, 2, 0),
		deliveryAt(4, 3, 0), deliveryAt(5, 4, 0),
	}

	chunks, err := ChunkByLocation(deliveries, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, []int{1, 2}, deliveryIDs(chunks[0]))
	assert.Equal(t, []int{3, 4}, deliveryIDs(chunks[1]))
	assert.Equal(t, []int{5}, deliveryIDs(chunks[2]))

	_, err = ChunkByLocation(deliveries, 0)
	require.Error(t, err)
}
