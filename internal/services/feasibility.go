package services

import (
	"drone-dispatch-service/internal/domain"
)

// Feasibility is the move and cost total of an accepted drone/route pairing.
type Feasibility struct {
	TotalMoves int
	TotalCost  float64
}

// GroupRequirements folds the requirements of every delivery carried on one sortie:
// capacities add up, cooling and heating are a union, and the tightest
// maxCost wins.
func GroupRequirements(deliveries []domain.DeliveryRequest) domain.Requirements {
	var agg domain.Requirements
	for _, d := range deliveries {
		r := d.Requirements
		agg.Capacity += r.Capacity
		agg.Cooling = agg.Cooling || r.Cooling
		agg.Heating = agg.Heating || r.Heating
		if r.MaxCost != nil && (agg.MaxCost == nil || *r.MaxCost < *agg.MaxCost) {
			limit := *r.MaxCost
			agg.MaxCost = &limit
		}
	}
	return agg
}

// CheckCapability requires the drone to carry req's capacity with the
// cooling and heating it needs.
func CheckCapability(drone domain.Drone, req domain.Requirements) error {
	c := drone.Capability
	if c.Capacity < req.Capacity {
		return infeasible(drone.ID, ReasonCapability, "capacity %.2f < required %.2f", c.Capacity, req.Capacity)
	}
	if req.Cooling && !c.Cooling {
		return infeasible(drone.ID, ReasonCapability, "cooling required")
	}
	if req.Heating && !c.Heating {
		return infeasible(drone.ID, ReasonCapability, "heating required")
	}
	return nil
}

// CheckAvailability requires every dated delivery to fall inside one of the
// drone's windows held at service point spID.
func CheckAvailability(drone domain.Drone, spID int, deliveries []domain.DeliveryRequest) error {
	for _, d := range deliveries {
		if !drone.AvailableAt(spID, d.Date, d.Time) {
			return infeasible(drone.ID, ReasonAvailability, "not available at service point %d for delivery %d", spID, d.ID)
		}
	}
	return nil
}

// CountMoves returns the moves flown over the outbound legs plus the return leg.
// Consecutive legs share an endpoint, so each outbound leg contributes its
// length minus one while the return leg counts in full.
func CountMoves(legs []domain.Route, returnLeg domain.Route) int {
	moves := 0
	for _, leg := range legs {
		moves += leg.Moves()
	}
	return moves + len(returnLeg)
}

// Cost prices a sortie of the given number of moves.
func Cost(c domain.Capability, moves int) float64 {
	return c.CostInitial + c.CostFinal + float64(moves)*c.CostPerMove
}

// Evaluate checks one drone dispatched from service point spID flying the
// given legs for deliveries. Constraints are checked in order: capability, availability, battery, cost.
// A failure is returned as *InfeasibleError.
func Evaluate(
	drone domain.Drone,
	spID int,
	deliveries []domain.DeliveryRequest,
	legs []domain.Route,
	returnLeg domain.Route,
) (Feasibility, error) {
	req := GroupRequirements(deliveries)
	if err := CheckCapability(drone, req); err != nil {
		return Feasibility{}, err
	}
	if err := CheckAvailability(drone, spID, deliveries); err != nil {
		return Feasibility{}, err
	}

	moves := CountMoves(legs, returnLeg)
	if moves > drone.Capability.MaxMoves {
		return Feasibility{}, infeasible(drone.ID, ReasonBattery, "%d moves > max %d", moves, drone.Capability.MaxMoves)
	}

	cost := Cost(drone.Capability, moves)
	if req.MaxCost != nil && cost > *req.MaxCost {
		return Feasibility{}, infeasible(drone.ID, ReasonCost, "cost %.2f > max %.2f", cost, *req.MaxCost)
	}

	return Feasibility{TotalMoves: moves, TotalCost: cost}, nil
}
