package domain

import (
	"slices"
	"time"
)

// A fixed base location where drones are stationed and scheduled.
type ServicePoint struct {
	ID       int
	Name     string
	Location Position
}

// Static capability record of a drone.
type Capability struct {
	Cooling     bool
	Heating     bool
	Capacity    float64
	MaxMoves    int
	CostPerMove float64
	CostInitial float64
	CostFinal   float64
}

// A weekly window during which a drone can be dispatched from one service
// point. Both bounds are inclusive. A zero ServicePointID means the drone's home.
type AvailabilityWindow struct {
	ServicePointID int
	DayOfWeek      time.Weekday
	From           TimeOfDay
	Until          TimeOfDay
}

func (w AvailabilityWindow) Contains(day time.Weekday, at TimeOfDay) bool {
	return w.DayOfWeek == day && at >= w.From && at <= w.Until
}

// Drone reference record. ServicePointID is the drone's home and is zero when
// the drone has none.
type Drone struct {
	ID             string
	Name           string
	ServicePointID int
	Capability     Capability
	Availability   []AvailabilityWindow
}

// WindowServicePoint resolves the service point a window is held at.
func (d Drone) WindowServicePoint(w AvailabilityWindow) int {
	if w.ServicePointID != 0 {
		return w.ServicePointID
	}
	return d.ServicePointID
}

// ServicePointIDs lists the service points the drone can be dispatched from:
// its home first, then every other service point holding a window for it.
// A drone without a home has none.
func (d Drone) ServicePointIDs() []int {
	if d.ServicePointID == 0 {
		return nil
	}

	ids := []int{d.ServicePointID}
	for _, w := range d.Availability {
		sp := d.WindowServicePoint(w)
		if !slices.Contains(ids, sp) {
			ids = append(ids, sp)
		}
	}
	return ids
}

// AvailableAt reports whether the drone can be dispatched from service point
// spID on date at the given time. Only windows held at spID count.
// A nil date places no constraint. A date without a time only requires some
// window on that weekday.
func (d Drone) AvailableAt(spID int, date *time.Time, at *TimeOfDay) bool {
	if date == nil {
		return true
	}

	day := date.Weekday()
	for _, w := range d.Availability {
		if d.WindowServicePoint(w) != spID {
			continue
		}
		if at == nil {
			if w.DayOfWeek == day {
				return true
			}
			continue
		}
		if w.Contains(day, *at) {
			return true
		}
	}
	return false
}
