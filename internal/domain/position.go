package domain

// Immutable geographic position (longitude, latitude) in degrees.
type Position struct {
	Lng float64
	Lat float64
}

// Return position as [lng, lat] for GeoJSON compatibility.
func (p Position) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }

// Polygon is a ring of vertices where the first and last vertex coincide.
type Polygon []Position

// Closed reports whether the ring has at least four vertices and ends where it starts.
func (p Polygon) Closed() bool {
	if len(p) < 4 {
		return false
	}
	return p[0] == p[len(p)-1]
}

// Altitude band of a restricted area. Carried through from reference data only.
type Limits struct {
	Lower float64
	Upper float64
}

// Represents a named no-fly zone.
type RestrictedArea struct {
	ID       int
	Name     string
	Limits   *Limits
	Vertices Polygon
}
