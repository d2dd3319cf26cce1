package services

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"math"
)

// Order deliveries for a sortie using a greedy nearest-neighbor walk from start.
//
// The algorithm minimizes the straight-line hop at each step.
// It does not attempt global tour optimization.
// The input slice is not modified.
func NearestNeighborOrder(start domain.Position, deliveries []domain.DeliveryRequest) []domain.DeliveryRequest {
	remaining := make([]domain.DeliveryRequest, len(deliveries))
	copy(remaining, deliveries)

	ordered := make([]domain.DeliveryRequest, 0, len(deliveries))
	current := start

	for len(remaining) > 0 {
		best := -1
		minDist := math.Inf(1)

		for i, d := range remaining {
			dist := geo.Distance(current, d.Destination)
			// Tie-breaker ensures deterministic ordering when distances are equal.
			if dist < minDist || (dist == minDist && d.ID < remaining[best].ID) {
				minDist = dist
				best = i
			}
		}

		next := remaining[best]
		ordered = append(ordered, next)
		current = next.Destination

		remaining = append(remaining[:best], remaining[best+1:]...)
	}

	return ordered
}

// StraightLineTour is the length of the closed tour start -> ordered... -> start
// ignoring obstacles.
func StraightLineTour(start domain.Position, ordered []domain.DeliveryRequest) float64 {
	total := 0.0
	current := start
	for _, d := range ordered {
		total += geo.Distance(current, d.Destination)
		current = d.Destination
	}
	return total + geo.Distance(current, start)
}
