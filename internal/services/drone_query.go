package services

import (
	"cmp"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidQuery is returned for unknown attributes, operators, or values
// that do not parse as the attribute's type.
var ErrInvalidQuery = errors.New("invalid query")

// Represents one attribute comparison in a drone query.
type QueryCondition struct {
	Attribute string
	Operator  string
	Value     string
}

// Supported comparison operators.
const (
	OpEqual    = "="
	OpNotEqual = "!="
	OpLess     = "<"
	OpGreater  = ">"
)

// DronesWithCooling returns the ids of drones whose cooling capability equals state.
func DronesWithCooling(ref *domain.ReferenceData, state bool) []string {
	ids := []string{}
	for _, d := range ref.Drones {
		if d.Capability.Cooling == state {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// QueryDrones returns the ids of drones matching every condition.
func QueryDrones(ref *domain.ReferenceData, conds []QueryCondition) ([]string, error) {
	// Reject malformed conditions even when the fleet is empty.
	for _, c := range conds {
		if _, err := matches(domain.Drone{}, c); err != nil {
			return nil, err
		}
	}

	ids := []string{}
	for _, d := range ref.Drones {
		ok := true
		for _, c := range conds {
			match, err := matches(d, c)
			if err != nil {
				return nil, err
			}
			if !match {
				ok = false
				break
			}
		}
		if ok {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

// AvailableDrones returns the ids of drones that could individually serve
// every request from one of their service points: capability, availability
// at that service point, and a straight-line round-trip cost estimate within
// the request's maxCost.
func AvailableDrones(ref *domain.ReferenceData, cfg geo.Config, requests []domain.DeliveryRequest) []string {
	ids := []string{}
	for _, d := range ref.Drones {
		for _, spID := range d.ServicePointIDs() {
			sp, ok := ref.ServicePoint(spID)
			if ok && servesAll(d, sp, cfg, requests) {
				ids = append(ids, d.ID)
				break
			}
		}
	}
	return ids
}

func servesAll(d domain.Drone, sp domain.ServicePoint, cfg geo.Config, requests []domain.DeliveryRequest) bool {
	for _, r := range requests {
		if !canServe(d, sp, cfg, r) {
			return false
		}
	}
	return true
}

func canServe(d domain.Drone, sp domain.ServicePoint, cfg geo.Config, r domain.DeliveryRequest) bool {
	if CheckCapability(d, r.Requirements) != nil {
		return false
	}
	if !d.AvailableAt(sp.ID, r.Date, r.Time) {
		return false
	}
	if r.Requirements.MaxCost == nil {
		return true
	}

	oneWay := math.Ceil(geo.Distance(sp.Location, r.Destination) / cfg.MoveDistance)
	estimate := Cost(d.Capability, 2*int(oneWay))
	return estimate <= *r.Requirements.MaxCost
}

type attrKind int

const (
	attrString attrKind = iota
	attrBool
	attrNumber
)

type attrValue struct {
	kind attrKind
	str  string
	b    bool
	num  float64
}

func attributeOf(d domain.Drone, name string) (attrValue, error) {
	c := d.Capability
	switch name {
	case "id":
		return attrValue{kind: attrString, str: d.ID}, nil
	case "name":
		return attrValue{kind: attrString, str: d.Name}, nil
	case "cooling":
		return attrValue{kind: attrBool, b: c.Cooling}, nil
	case "heating":
		return attrValue{kind: attrBool, b: c.Heating}, nil
	case "capacity":
		return attrValue{kind: attrNumber, num: c.Capacity}, nil
	case "maxMoves":
		return attrValue{kind: attrNumber, num: float64(c.MaxMoves)}, nil
	case "costPerMove":
		return attrValue{kind: attrNumber, num: c.CostPerMove}, nil
	case "costInitial":
		return attrValue{kind: attrNumber, num: c.CostInitial}, nil
	case "costFinal":
		return attrValue{kind: attrNumber, num: c.CostFinal}, nil
	case "servicePointId":
		return attrValue{kind: attrNumber, num: float64(d.ServicePointID)}, nil
	default:
		return attrValue{}, fmt.Errorf("%w: unknown attribute %q", ErrInvalidQuery, name)
	}
}

func matches(d domain.Drone, c QueryCondition) (bool, error) {
	got, err := attributeOf(d, c.Attribute)
	if err != nil {
		return false, err
	}

	var order int
	switch got.kind {
	case attrNumber:
		want, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
		if err != nil {
			return false, fmt.Errorf("%w: %s expects a number, got %q", ErrInvalidQuery, c.Attribute, c.Value)
		}
		order = cmp.Compare(got.num, want)
	case attrBool:
		want, err := strconv.ParseBool(strings.TrimSpace(c.Value))
		if err != nil {
			return false, fmt.Errorf("%w: %s expects true or false, got %q", ErrInvalidQuery, c.Attribute, c.Value)
		}
		if c.Operator == OpLess || c.Operator == OpGreater {
			return false, fmt.Errorf("%w: operator %q not supported for %s", ErrInvalidQuery, c.Operator, c.Attribute)
		}
		if got.b != want {
			order = 1
		}
	default:
		order = strings.Compare(got.str, c.Value)
	}

	switch c.Operator {
	case OpEqual:
		return order == 0, nil
	case OpNotEqual:
		return order != 0, nil
	case OpLess:
		return order < 0, nil
	case OpGreater:
		return order > 0, nil
	default:
		return false, fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, c.Operator)
	}
}
