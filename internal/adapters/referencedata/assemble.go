package referencedata

import (
	"drone-dispatch-service/internal/domain"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/peterstace/simplefeatures/geom"
)

var weekdays = map[string]time.Weekday{
	"SUNDAY":    time.Sunday,
	"MONDAY":    time.Monday,
	"TUESDAY":   time.Tuesday,
	"WEDNESDAY": time.Wednesday,
	"THURSDAY":  time.Thursday,
	"FRIDAY":    time.Friday,
	"SATURDAY":  time.Saturday,
}

// toDomain resolves and validates a snapshot.
//
// A drone's home is the first service point listing it. Every window keeps the
// service point it was listed under.
func (s snapshot) toDomain() (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{
		ServicePoints:   make([]domain.ServicePoint, 0, len(s.ServicePoints)),
		Drones:          make([]domain.Drone, 0, len(s.Drones)),
		RestrictedAreas: make([]domain.RestrictedArea, 0, len(s.RestrictedAreas)),
	}

	spIDs := make(map[int]struct{}, len(s.ServicePoints))
	for _, sp := range s.ServicePoints {
		if sp.ID == 0 {
			return nil, fmt.Errorf("service point %q: id must be non-zero", sp.Name)
		}
		if _, dup := spIDs[sp.ID]; dup {
			return nil, fmt.Errorf("service point %d: duplicate id", sp.ID)
		}
		spIDs[sp.ID] = struct{}{}

		ref.ServicePoints = append(ref.ServicePoints, domain.ServicePoint{
			ID:       sp.ID,
			Name:     sp.Name,
			Location: domain.Position{Lng: sp.Location.Lng, Lat: sp.Location.Lat},
		})
	}

	droneIdx := make(map[string]int, len(s.Drones))
	for _, d := range s.Drones {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("drone %q: id must be non-empty", d.Name)
		}
		if _, dup := droneIdx[d.ID]; dup {
			return nil, fmt.Errorf("drone %s: duplicate id", d.ID)
		}
		droneIdx[d.ID] = len(ref.Drones)

		c := d.Capability
		ref.Drones = append(ref.Drones, domain.Drone{
			ID:   d.ID,
			Name: d.Name,
			Capability: domain.Capability{
				Cooling:     c.Cooling,
				Heating:     c.Heating,
				Capacity:    c.Capacity,
				MaxMoves:    c.MaxMoves,
				CostPerMove: c.CostPerMove,
				CostInitial: c.CostInitial,
				CostFinal:   c.CostFinal,
			},
		})
	}

	for _, entry := range s.Availability {
		if _, ok := spIDs[entry.ServicePointID]; !ok {
			return nil, fmt.Errorf("availability: unknown service point %d", entry.ServicePointID)
		}
		for _, da := range entry.Drones {
			i, ok := droneIdx[da.ID]
			if !ok {
				return nil, fmt.Errorf("availability: service point %d lists unknown drone %s", entry.ServicePointID, da.ID)
			}

			drone := &ref.Drones[i]
			if drone.ServicePointID == 0 {
				drone.ServicePointID = entry.ServicePointID
			}

			for _, a := range da.Availability {
				w, err := a.toDomain()
				if err != nil {
					return nil, fmt.Errorf("availability: drone %s: %w", da.ID, err)
				}
				w.ServicePointID = entry.ServicePointID
				drone.Availability = append(drone.Availability, w)
			}
		}
	}

	for _, ra := range s.RestrictedAreas {
		area, err := ra.toDomain()
		if err != nil {
			return nil, fmt.Errorf("restricted area %d (%s): %w", ra.ID, ra.Name, err)
		}
		ref.RestrictedAreas = append(ref.RestrictedAreas, area)
	}

	return ref, nil
}

func (a availabilityJSON) toDomain() (domain.AvailabilityWindow, error) {
	day, ok := weekdays[strings.ToUpper(strings.TrimSpace(a.DayOfWeek))]
	if !ok {
		return domain.AvailabilityWindow{}, fmt.Errorf("unknown day of week %q", a.DayOfWeek)
	}
	from, err := domain.ParseTimeOfDay(a.From)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	until, err := domain.ParseTimeOfDay(a.Until)
	if err != nil {
		return domain.AvailabilityWindow{}, err
	}
	if until < from {
		return domain.AvailabilityWindow{}, fmt.Errorf("window %s-%s ends before it starts", a.From, a.Until)
	}
	return domain.AvailabilityWindow{DayOfWeek: day, From: from, Until: until}, nil
}

func (ra restrictedAreaJSON) toDomain() (domain.RestrictedArea, error) {
	vertices := make(domain.Polygon, len(ra.Vertices))
	for i, v := range ra.Vertices {
		vertices[i] = domain.Position{Lng: v.Lng, Lat: v.Lat}
	}
	if err := ValidatePolygon(vertices); err != nil {
		return domain.RestrictedArea{}, err
	}

	area := domain.RestrictedArea{ID: ra.ID, Name: ra.Name, Vertices: vertices}
	if ra.Limits != nil {
		area.Limits = &domain.Limits{Lower: ra.Limits.Lower, Upper: ra.Limits.Upper}
	}
	return area, nil
}

// ValidatePolygon requires a closed ring of at least four vertices that forms
// a valid simple polygon.
func ValidatePolygon(ring domain.Polygon) error {
	if !ring.Closed() {
		return errors.New("polygon must be a closed ring of at least 4 vertices")
	}

	flat := make([]float64, 0, 2*len(ring))
	for _, p := range ring {
		flat = append(flat, p.Lng, p.Lat)
	}

	ls, err := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	if err != nil {
		return fmt.Errorf("invalid polygon ring: %w", err)
	}
	if _, err := geom.NewPolygon([]geom.LineString{ls}); err != nil {
		return fmt.Errorf("invalid polygon: %w", err)
	}
	return nil
}

// fromDomain is the inverse of toDomain, used when writing snapshots.
// Home listings are written before any other listing so that reading the
// snapshot back resolves the same home for every drone.
func fromDomain(ref *domain.ReferenceData) snapshot {
	var s snapshot

	for _, sp := range ref.ServicePoints {
		s.ServicePoints = append(s.ServicePoints, servicePointJSON{
			ID:       sp.ID,
			Name:     sp.Name,
			Location: positionJSON{Lng: sp.Location.Lng, Lat: sp.Location.Lat},
		})
	}

	homes := newListings()
	others := newListings()
	for _, d := range ref.Drones {
		c := d.Capability
		s.Drones = append(s.Drones, droneJSON{
			ID:   d.ID,
			Name: d.Name,
			Capability: capabilityJSON{
				Cooling:     c.Cooling,
				Heating:     c.Heating,
				Capacity:    c.Capacity,
				MaxMoves:    c.MaxMoves,
				CostPerMove: c.CostPerMove,
				CostInitial: c.CostInitial,
				CostFinal:   c.CostFinal,
			},
		})

		for i, spID := range d.ServicePointIDs() {
			windows := []availabilityJSON{}
			for _, w := range d.Availability {
				if d.WindowServicePoint(w) != spID {
					continue
				}
				windows = append(windows, availabilityJSON{
					DayOfWeek: strings.ToUpper(w.DayOfWeek.String()),
					From:      w.From.String(),
					Until:     w.Until.String(),
				})
			}

			entry := droneAvailabilityJSON{ID: d.ID, Availability: windows}
			if i == 0 {
				homes.add(spID, entry)
			} else {
				others.add(spID, entry)
			}
		}
	}
	s.Availability = append(homes.entries(), others.entries()...)

	for _, a := range ref.RestrictedAreas {
		ra := restrictedAreaJSON{ID: a.ID, Name: a.Name}
		if a.Limits != nil {
			ra.Limits = &limitsJSON{Lower: a.Limits.Lower, Upper: a.Limits.Upper}
		}
		for _, v := range a.Vertices {
			ra.Vertices = append(ra.Vertices, positionJSON{Lng: v.Lng, Lat: v.Lat})
		}
		s.RestrictedAreas = append(s.RestrictedAreas, ra)
	}

	return s
}

// listings groups drone listings by service point in first-seen order.
type listings struct {
	order  []int
	drones map[int][]droneAvailabilityJSON
}

func newListings() *listings {
	return &listings{drones: make(map[int][]droneAvailabilityJSON)}
}

func (l *listings) add(spID int, entry droneAvailabilityJSON) {
	if _, ok := l.drones[spID]; !ok {
		l.order = append(l.order, spID)
	}
	l.drones[spID] = append(l.drones[spID], entry)
}

func (l *listings) entries() []servicePointDronesJSON {
	out := make([]servicePointDronesJSON, 0, len(l.order))
	for _, spID := range l.order {
		out = append(out, servicePointDronesJSON{ServicePointID: spID, Drones: l.drones[spID]})
	}
	return out
}
