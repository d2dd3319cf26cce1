package domain

import "time"

// What a single delivery needs from the drone carrying it.
type Requirements struct {
	Capacity float64
	Cooling  bool
	Heating  bool
	MaxCost  *float64
}

// Represents one medical delivery in a planning batch.
// A DeliveryRequest is created per planning call and never mutated afterwards.
// Date and Time are optional; when Date is nil the request places no
// availability constraint on the drone.
type DeliveryRequest struct {
	ID           int
	Date         *time.Time
	Time         *TimeOfDay
	Destination  Position
	Requirements Requirements
}
