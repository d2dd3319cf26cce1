package dto

import (
	"drone-dispatch-service/internal/domain"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

type RequirementsRequest struct {
	Capacity *float64 `json:"capacity" validate:"required,gte=0"`
	Cooling  bool     `json:"cooling"`
	Heating  bool     `json:"heating"`
	MaxCost  *float64 `json:"maxCost" validate:"omitempty,gte=0"`
}

// DeliveryRequest is one medical dispatch record.
// Date is YYYY-MM-DD and Time is HH:MM or HH:MM:SS; both are optional.
type DeliveryRequest struct {
	ID           *int                 `json:"id" validate:"required"`
	Date         *string              `json:"date"`
	Time         *string              `json:"time"`
	Requirements *RequirementsRequest `json:"requirements" validate:"required"`
	Delivery     *LngLat              `json:"delivery" validate:"required"`
}

func (d DeliveryRequest) ToDomain() (domain.DeliveryRequest, error) {
	out := domain.DeliveryRequest{
		ID:          *d.ID,
		Destination: d.Delivery.ToDomain(),
		Requirements: domain.Requirements{
			Capacity: *d.Requirements.Capacity,
			Cooling:  d.Requirements.Cooling,
			Heating:  d.Requirements.Heating,
			MaxCost:  d.Requirements.MaxCost,
		},
	}

	if d.Date != nil {
		date, err := time.Parse(dateLayout, *d.Date)
		if err != nil {
			return domain.DeliveryRequest{}, fmt.Errorf("delivery %d: date must be YYYY-MM-DD", out.ID)
		}
		out.Date = &date
	}

	if d.Time != nil {
		if d.Date == nil {
			return domain.DeliveryRequest{}, fmt.Errorf("delivery %d: time requires a date", out.ID)
		}
		at, err := domain.ParseTimeOfDay(*d.Time)
		if err != nil {
			return domain.DeliveryRequest{}, fmt.Errorf("delivery %d: %w", out.ID, err)
		}
		out.Time = &at
	}

	return out, nil
}

func DeliveriesToDomain(in []DeliveryRequest) ([]domain.DeliveryRequest, error) {
	out := make([]domain.DeliveryRequest, 0, len(in))
	seen := make(map[int]struct{}, len(in))
	for _, d := range in {
		req, err := d.ToDomain()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[req.ID]; dup {
			return nil, fmt.Errorf("delivery %d: duplicate id", req.ID)
		}
		seen[req.ID] = struct{}{}
		out = append(out, req)
	}
	return out, nil
}

type DeliveryLegResponse struct {
	DeliveryID int        `json:"deliveryId"`
	FlightPath []Position `json:"flightPath"`
}

type DronePathResponse struct {
	DroneID        string                `json:"droneId"`
	ServicePointID int                   `json:"servicePointId"`
	Deliveries     []DeliveryLegResponse `json:"deliveries"`
	ReturnPath     []Position            `json:"returnPath"`
	Moves          int                   `json:"moves"`
	Cost           float64               `json:"cost"`
}

type PlanResponse struct {
	TotalCost  float64             `json:"totalCost"`
	TotalMoves int                 `json:"totalMoves"`
	DronePaths []DronePathResponse `json:"dronePaths"`
}

func FromPlanResult(res *domain.PlanResult) PlanResponse {
	out := PlanResponse{
		TotalCost:  res.TotalCost,
		TotalMoves: res.TotalMoves,
		DronePaths: make([]DronePathResponse, 0, len(res.DronePaths)),
	}
	for _, p := range res.DronePaths {
		legs := make([]DeliveryLegResponse, 0, len(p.Deliveries))
		for _, d := range p.Deliveries {
			legs = append(legs, DeliveryLegResponse{DeliveryID: d.DeliveryID, FlightPath: FromRoute(d.Path)})
		}
		out.DronePaths = append(out.DronePaths, DronePathResponse{
			DroneID:        p.DroneID,
			ServicePointID: p.ServicePointID,
			Deliveries:     legs,
			ReturnPath:     FromRoute(p.ReturnPath),
			Moves:          p.TotalMoves,
			Cost:           p.TotalCost,
		})
	}
	return out
}
