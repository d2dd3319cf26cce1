package dto

import (
	"drone-dispatch-service/internal/domain"
	"strings"
)

type CapabilityResponse struct {
	Cooling     bool    `json:"cooling"`
	Heating     bool    `json:"heating"`
	Capacity    float64 `json:"capacity"`
	MaxMoves    int     `json:"maxMoves"`
	CostPerMove float64 `json:"costPerMove"`
	CostInitial float64 `json:"costInitial"`
	CostFinal   float64 `json:"costFinal"`
}

type AvailabilityResponse struct {
	ServicePointID int    `json:"servicePointId"`
	DayOfWeek      string `json:"dayOfWeek"`
	From           string `json:"from"`
	Until          string `json:"until"`
}

type DroneResponse struct {
	ID             string                 `json:"id"`
	Name           string                 `json:"name"`
	ServicePointID *int                   `json:"servicePointId"`
	Capability     CapabilityResponse     `json:"capability"`
	Availability   []AvailabilityResponse `json:"availability"`
}

func FromDrone(d domain.Drone) DroneResponse {
	c := d.Capability
	out := DroneResponse{
		ID:   d.ID,
		Name: d.Name,
		Capability: CapabilityResponse{
			Cooling:     c.Cooling,
			Heating:     c.Heating,
			Capacity:    c.Capacity,
			MaxMoves:    c.MaxMoves,
			CostPerMove: c.CostPerMove,
			CostInitial: c.CostInitial,
			CostFinal:   c.CostFinal,
		},
		Availability: make([]AvailabilityResponse, 0, len(d.Availability)),
	}
	if d.ServicePointID != 0 {
		id := d.ServicePointID
		out.ServicePointID = &id
	}
	for _, w := range d.Availability {
		out.Availability = append(out.Availability, AvailabilityResponse{
			ServicePointID: d.WindowServicePoint(w),
			DayOfWeek:      strings.ToUpper(w.DayOfWeek.String()),
			From:           w.From.String(),
			Until:          w.Until.String(),
		})
	}
	return out
}

type QueryCondition struct {
	Attribute string `json:"attribute" validate:"required"`
	Operator  string `json:"operator" validate:"required"`
	Value     string `json:"value"`
}
