package referencedata

// Wire shapes of the upstream data provider. The same shapes are used for
// snapshot files, which may be YAML or JSON.

type positionJSON struct {
	Lng float64 `json:"lng" yaml:"lng"`
	Lat float64 `json:"lat" yaml:"lat"`
}

type capabilityJSON struct {
	Cooling     bool    `json:"cooling" yaml:"cooling"`
	Heating     bool    `json:"heating" yaml:"heating"`
	Capacity    float64 `json:"capacity" yaml:"capacity"`
	MaxMoves    int     `json:"maxMoves" yaml:"maxMoves"`
	CostPerMove float64 `json:"costPerMove" yaml:"costPerMove"`
	CostInitial float64 `json:"costInitial" yaml:"costInitial"`
	CostFinal   float64 `json:"costFinal" yaml:"costFinal"`
}

type droneJSON struct {
	ID         string         `json:"id" yaml:"id"`
	Name       string         `json:"name" yaml:"name"`
	Capability capabilityJSON `json:"capability" yaml:"capability"`
}

type servicePointJSON struct {
	ID       int          `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Location positionJSON `json:"location" yaml:"location"`
}

type limitsJSON struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

type restrictedAreaJSON struct {
	ID       int            `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	Limits   *limitsJSON    `json:"limits,omitempty" yaml:"limits,omitempty"`
	Vertices []positionJSON `json:"vertices" yaml:"vertices"`
}

type availabilityJSON struct {
	DayOfWeek string `json:"dayOfWeek" yaml:"dayOfWeek"`
	From      string `json:"from" yaml:"from"`
	Until     string `json:"until" yaml:"until"`
}

type droneAvailabilityJSON struct {
	ID           string             `json:"id" yaml:"id"`
	Availability []availabilityJSON `json:"availability" yaml:"availability"`
}

type servicePointDronesJSON struct {
	ServicePointID int                     `json:"servicePointId" yaml:"servicePointId"`
	Drones         []droneAvailabilityJSON `json:"drones" yaml:"drones"`
}

// snapshot is one complete reference data document.
type snapshot struct {
	ServicePoints   []servicePointJSON       `json:"servicePoints" yaml:"servicePoints"`
	Drones          []droneJSON              `json:"drones" yaml:"drones"`
	RestrictedAreas []restrictedAreaJSON     `json:"restrictedAreas" yaml:"restrictedAreas"`
	Availability    []servicePointDronesJSON `json:"dronesForServicePoints" yaml:"dronesForServicePoints"`
}
