package domain

// Route is one flight leg: the start position followed by every position
// reached by a move, ending close to (not exactly at) the leg target.
type Route []Position

// Moves is the number of steps flown along the route.
func (r Route) Moves() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

// Last returns the final position of a non-empty route.
func (r Route) Last() Position { return r[len(r)-1] }

// Represents the outbound leg flown to serve one delivery.
type DeliveryLeg struct {
	DeliveryID int
	Path       Route
}

// Represents a single drone sortie: the deliveries flown in order from the
// home service point, followed by the return-to-base leg.
// A DronePlan is immutable planning data.
type DronePlan struct {
	DroneID        string
	ServicePointID int
	Deliveries     []DeliveryLeg
	ReturnPath     Route
	TotalMoves     int
	TotalCost      float64
}

// DeliveryIDs returns the delivery ids in flight order.
func (p DronePlan) DeliveryIDs() []int {
	ids := make([]int, 0, len(p.Deliveries))
	for _, d := range p.Deliveries {
		ids = append(ids, d.DeliveryID)
	}
	return ids
}

// Terminal output of one planning invocation.
type PlanResult struct {
	TotalCost  float64
	TotalMoves int
	DronePaths []DronePlan
}
