package geo

import (
	"drone-dispatch-service/internal/domain"
	"math"
	"slices"
)

// Tolerance used when deciding whether a point lies on a polygon edge.
const edgeTolerance = 1e-12

// Distance is the Euclidean distance in the (lng, lat) plane.
func Distance(a, b domain.Position) float64 {
	return math.Hypot(a.Lng-b.Lng, a.Lat-b.Lat)
}

// IsClose reports whether a and b are strictly nearer than CloseDistance.
func (c Config) IsClose(a, b domain.Position) bool {
	return Distance(a, b) < c.CloseDistance
}

// Step displaces from by one move along heading (degrees, 0 = east, counter-clockwise).
func (c Config) Step(from domain.Position, heading float64) domain.Position {
	rad := heading * math.Pi / 180
	return domain.Position{
		Lng: from.Lng + c.MoveDistance*math.Cos(rad),
		Lat: from.Lat + c.MoveDistance*math.Sin(rad),
	}
}

// PointInPolygon reports whether p is inside poly or on one of its edges.
// The edge from the last vertex back to the first is included.
func PointInPolygon(p domain.Position, poly domain.Polygon) bool {
	n := len(poly)
	if n < 3 {
		return false
	}

	minLng, maxLng := poly[0].Lng, poly[0].Lng
	minLat, maxLat := poly[0].Lat, poly[0].Lat
	for _, v := range poly[1:] {
		minLng = math.Min(minLng, v.Lng)
		maxLng = math.Max(maxLng, v.Lng)
		minLat = math.Min(minLat, v.Lat)
		maxLat = math.Max(maxLat, v.Lat)
	}
	if p.Lng < minLng || p.Lng > maxLng || p.Lat < minLat || p.Lat > maxLat {
		return false
	}

	inside := false
	for i := 0; i < n; i++ {
		a := poly[i]
		b := poly[(i+1)%n]

		if onEdge(p, a, b) {
			return true
		}

		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			x := a.Lng + (p.Lat-a.Lat)*(b.Lng-a.Lng)/(b.Lat-a.Lat)
			if p.Lng < x {
				inside = !inside
			}
		}
	}

	return inside
}

func onEdge(p, a, b domain.Position) bool {
	if math.Abs(orientation(a, b, p)) > edgeTolerance {
		return false
	}
	return p.Lng >= math.Min(a.Lng, b.Lng)-edgeTolerance &&
		p.Lng <= math.Max(a.Lng, b.Lng)+edgeTolerance &&
		p.Lat >= math.Min(a.Lat, b.Lat)-edgeTolerance &&
		p.Lat <= math.Max(a.Lat, b.Lat)+edgeTolerance
}

// orientation is the z component of (b-a) x (c-a).
func orientation(a, b, c domain.Position) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}

// SegmentsIntersect reports a proper crossing of p1p2 and p3p4.
// Touching at endpoints and collinear overlap are not crossings.
func SegmentsIntersect(p1, p2, p3, p4 domain.Position) bool {
	d1 := orientation(p3, p4, p1)
	d2 := orientation(p3, p4, p2)
	d3 := orientation(p1, p2, p3)
	d4 := orientation(p1, p2, p4)

	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// InAnyZone reports whether p lies inside or on any of zones.
func InAnyZone(p domain.Position, zones []domain.Polygon) bool {
	for _, z := range zones {
		if PointInPolygon(p, z) {
			return true
		}
	}
	return false
}

// SegmentClear reports whether a straight move from -> to stays out of every
// zone's interior. Neither endpoint may be inside, no zone edge may be crossed
// (closing edge included), and the move may not slip inside between vertices.
func SegmentClear(from, to domain.Position, zones []domain.Polygon) bool {
	for _, z := range zones {
		if PointInPolygon(to, z) || PointInPolygon(from, z) {
			return false
		}

		n := len(z)
		for i := 0; i < n; i++ {
			if SegmentsIntersect(from, to, z[i], z[(i+1)%n]) {
				return false
			}
		}

		if entersThroughVertices(from, to, z) {
			return false
		}
	}
	return true
}

// entersThroughVertices reports whether the segment reaches the interior of
// poly while touching its boundary only at vertices, as a diagonal through two
// corners of a small square does. The vertices on the segment split it into
// pieces that each lie wholly inside or wholly outside; one interior piece
// midpoint is enough.
func entersThroughVertices(from, to domain.Position, poly domain.Polygon) bool {
	dLng, dLat := to.Lng-from.Lng, to.Lat-from.Lat
	length2 := dLng*dLng + dLat*dLat
	if length2 == 0 {
		return false
	}

	cuts := []float64{0, 1}
	for _, v := range poly {
		if onEdge(v, from, to) {
			cuts = append(cuts, ((v.Lng-from.Lng)*dLng+(v.Lat-from.Lat)*dLat)/length2)
		}
	}
	if len(cuts) == 2 {
		return false
	}
	slices.Sort(cuts)

	for i := 1; i < len(cuts); i++ {
		if cuts[i]-cuts[i-1] <= edgeTolerance {
			continue
		}
		t := (cuts[i-1] + cuts[i]) / 2
		mid := domain.Position{Lng: from.Lng + t*dLng, Lat: from.Lat + t*dLat}
		if PointInPolygon(mid, poly) && !onBoundary(mid, poly) {
			return true
		}
	}
	return false
}

func onBoundary(p domain.Position, poly domain.Polygon) bool {
	n := len(poly)
	for i := 0; i < n; i++ {
		if onEdge(p, poly[i], poly[(i+1)%n]) {
			return true
		}
	}
	return false
}
