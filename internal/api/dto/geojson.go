package dto

import (
	"drone-dispatch-service/internal/domain"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"
)

// FlightTrack flattens a plan into the positions the drone occupies in order,
// dropping the repeated position where one leg starts at the end of the last.
func FlightTrack(p domain.DronePlan) []domain.Position {
	var track []domain.Position

	add := func(r domain.Route) {
		for _, pos := range r {
			if n := len(track); n > 0 && track[n-1] == pos {
				continue
			}
			track = append(track, pos)
		}
	}

	for _, leg := range p.Deliveries {
		add(leg.Path)
	}
	add(p.ReturnPath)
	return track
}

// PlanFeatureCollection renders each drone plan as one GeoJSON feature.
// A plan that never leaves its position is rendered as a Point.
func PlanFeatureCollection(res *domain.PlanResult) (geom.GeoJSONFeatureCollection, error) {
	fc := make(geom.GeoJSONFeatureCollection, 0, len(res.DronePaths))

	for _, p := range res.DronePaths {
		g, err := trackGeometry(FlightTrack(p))
		if err != nil {
			return nil, fmt.Errorf("render flight track of drone %s: %w", p.DroneID, err)
		}
		fc = append(fc, geom.GeoJSONFeature{
			Geometry: g,
			Properties: map[string]interface{}{
				"droneId":     p.DroneID,
				"deliveryIds": p.DeliveryIDs(),
			},
		})
	}
	return fc, nil
}

func trackGeometry(track []domain.Position) (geom.Geometry, error) {
	if len(track) == 1 {
		pt, err := geom.NewPoint(geom.Coordinates{
			XY:   geom.XY{X: track[0].Lng, Y: track[0].Lat},
			Type: geom.DimXY,
		})
		if err != nil {
			return geom.Geometry{}, err
		}
		return pt.AsGeometry(), nil
	}

	flat := make([]float64, 0, 2*len(track))
	for _, pos := range track {
		flat = append(flat, pos.Lng, pos.Lat)
	}
	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return geom.Geometry{}, err
	}
	return ls.AsGeometry(), nil
}
