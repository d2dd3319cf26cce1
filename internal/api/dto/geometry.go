package dto

import "drone-dispatch-service/internal/domain"

// LngLat is a position in a request body. Fields are pointers so that a
// missing coordinate is rejected instead of read as zero.
type LngLat struct {
	Lng *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Lat *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
}

func (p LngLat) ToDomain() domain.Position {
	return domain.Position{Lng: *p.Lng, Lat: *p.Lat}
}

// Position is a position in a response body.
type Position struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func FromPosition(p domain.Position) Position {
	return Position{Lng: p.Lng, Lat: p.Lat}
}

func FromRoute(r domain.Route) []Position {
	out := make([]Position, len(r))
	for i, p := range r {
		out[i] = FromPosition(p)
	}
	return out
}

type PositionPairRequest struct {
	Position1 *LngLat `json:"position1" validate:"required"`
	Position2 *LngLat `json:"position2" validate:"required"`
}

type NextPositionRequest struct {
	Start *LngLat  `json:"start" validate:"required"`
	Angle *float64 `json:"angle" validate:"required"`
}

type Region struct {
	Name     string   `json:"name"`
	Vertices []LngLat `json:"vertices" validate:"required,min=4,dive"`
}

func (r Region) ToDomain() domain.Polygon {
	poly := make(domain.Polygon, len(r.Vertices))
	for i, v := range r.Vertices {
		poly[i] = v.ToDomain()
	}
	return poly
}

type InRegionRequest struct {
	Position *LngLat `json:"position" validate:"required"`
	Region   *Region `json:"region" validate:"required"`
}

type PathRequest struct {
	Start *LngLat `json:"start" validate:"required"`
	Goal  *LngLat `json:"goal" validate:"required"`
}
