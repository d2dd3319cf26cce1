package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validRequest(id int) DeliveryRequest {
	return DeliveryRequest{
		ID:           ptr(id),
		Requirements: &RequirementsRequest{Capacity: ptr(1.5), Cooling: true, MaxCost: ptr(20.0)},
		Delivery:     &LngLat{Lng: ptr(-3.18), Lat: ptr(55.94)},
	}
}

func TestDeliveryRequestToDomain(t *testing.T) {
	in := validRequest(3)
	in.Date = ptr("2025-12-22")
	in.Time = ptr("14:30")

	out, err := in.ToDomain()
	require.NoError(t, err)

	assert.Equal(t, 3, out.ID)
	assert.Equal(t, -3.18, out.Destination.Lng)
	assert.Equal(t, 1.5, out.Requirements.Capacity)
	assert.True(t, out.Requirements.Cooling)
	require.NotNil(t, out.Date)
	assert.Equal(t, time.Monday, out.Date.Weekday())
	require.NotNil(t, out.Time)
	assert.Equal(t, "14:30:00", out.Time.String())
}

func TestDeliveryRequestToDomainRejects(t *testing.T) {
	badDate := validRequest(1)
	badDate.Date = ptr("22/12/2025")

	timeOnly := validRequest(2)
	timeOnly.Time = ptr("10:00")

	badTime := validRequest(3)
	badTime.Date = ptr("2025-12-22")
	badTime.Time = ptr("25:00")

	for _, in := range []DeliveryRequest{badDate, timeOnly, badTime} {
		_, err := in.ToDomain()
		assert.Error(t, err, "delivery %d", *in.ID)
	}

	_, err := DeliveriesToDomain([]DeliveryRequest{validRequest(1), validRequest(1)})
	assert.ErrorContains(t, err, "duplicate")
}
