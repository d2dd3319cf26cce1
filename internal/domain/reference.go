package domain

import "time"

// ReferenceData is the resolved fleet and obstacle snapshot used by planning.
// It is treated as immutable once published.
type ReferenceData struct {
	Drones          []Drone
	ServicePoints   []ServicePoint
	RestrictedAreas []RestrictedArea
	LoadedAt        time.Time
}

// Drone looks up a drone by id.
func (r *ReferenceData) Drone(id string) (Drone, bool) {
	for _, d := range r.Drones {
		if d.ID == id {
			return d, true
		}
	}
	return Drone{}, false
}

// ServicePoint looks up a service point by id.
func (r *ReferenceData) ServicePoint(id int) (ServicePoint, bool) {
	for _, sp := range r.ServicePoints {
		if sp.ID == id {
			return sp, true
		}
	}
	return ServicePoint{}, false
}

// NoFlyZones returns the vertex rings of every restricted area.
func (r *ReferenceData) NoFlyZones() []Polygon {
	zones := make([]Polygon, 0, len(r.RestrictedAreas))
	for _, a := range r.RestrictedAreas {
		zones = append(zones, a.Vertices)
	}
	return zones
}
