package services

import (
	"cmp"
	"drone-dispatch-service/internal/domain"
	"errors"
	"slices"
)

// ChunkByLocation splits deliveries into at most parts spatial bands.
//
// Destinations are sorted along the wider axis of their bounding box and
// chunked so each band covers a contiguous strip of the map. Ties are broken
// by delivery id to keep splits deterministic.
func ChunkByLocation(deliveries []domain.DeliveryRequest, parts int) ([][]domain.DeliveryRequest, error) {
	if parts <= 0 {
		return nil, errors.New("chunk deliveries: parts must be positive")
	}
	if len(deliveries) == 0 {
		return [][]domain.DeliveryRequest{}, nil
	}

	sorted := slices.Clone(deliveries)
	byLng := spansWiderInLng(sorted)

	slices.SortFunc(sorted, func(a, b domain.DeliveryRequest) int {
		ka, kb := a.Destination.Lat, b.Destination.Lat
		if byLng {
			ka, kb = a.Destination.Lng, b.Destination.Lng
		}
		if c := cmp.Compare(ka, kb); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	n := len(sorted)
	// Ceiling division: distribute deliveries as evenly as possible across bands.
	chunkSize := (n + parts - 1) / parts

	chunks := make([][]domain.DeliveryRequest, 0, parts)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		chunks = append(chunks, sorted[start:end:end])
	}

	return chunks, nil
}

// BisectByLocation splits a group of at least two deliveries into two
// non-empty spatial halves.
func BisectByLocation(deliveries []domain.DeliveryRequest) ([]domain.DeliveryRequest, []domain.DeliveryRequest, error) {
	if len(deliveries) < 2 {
		return nil, nil, errors.New("bisect deliveries: need at least two deliveries")
	}

	chunks, err := ChunkByLocation(deliveries, 2)
	if err != nil {
		return nil, nil, err
	}
	return chunks[0], chunks[1], nil
}

func spansWiderInLng(deliveries []domain.DeliveryRequest) bool {
	first := deliveries[0].Destination
	minLng, maxLng := first.Lng, first.Lng
	minLat, maxLat := first.Lat, first.Lat
	for _, d := range deliveries[1:] {
		p := d.Destination
		minLng, maxLng = min(minLng, p.Lng), max(maxLng, p.Lng)
		minLat, maxLat = min(minLat, p.Lat), max(maxLat, p.Lat)
	}
	return maxLng-minLng >= maxLat-minLat
}
