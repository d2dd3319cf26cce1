package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInfeasible marks a drone/route pairing that fails one constraint.
	ErrInfeasible = errors.New("infeasible")
	// ErrUndeliverable marks deliveries no drone in the fleet can serve.
	ErrUndeliverable = errors.New("undeliverable")
)

// Reason codes carried by InfeasibleError.
const (
	ReasonCapability   = "capability"
	ReasonAvailability = "availability"
	ReasonBattery      = "battery"
	ReasonCost         = "cost"
)

// InfeasibleError names the first constraint a drone failed.
type InfeasibleError struct {
	DroneID string
	Reason  string
	Detail  string
}

func (e *InfeasibleError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("drone %s infeasible: %s", e.DroneID, e.Reason)
	}
	return fmt.Sprintf("drone %s infeasible: %s: %s", e.DroneID, e.Reason, e.Detail)
}

func (e *InfeasibleError) Unwrap() error { return ErrInfeasible }

// UndeliverableError lists every delivery of a batch that could not be planned.
type UndeliverableError struct {
	DeliveryIDs []int
	Reason      string
}

func (e *UndeliverableError) Error() string {
	ids := make([]string, len(e.DeliveryIDs))
	for i, id := range e.DeliveryIDs {
		ids[i] = strconv.Itoa(id)
	}
	return fmt.Sprintf("undeliverable: deliveries [%s]: %s", strings.Join(ids, ", "), e.Reason)
}

func (e *UndeliverableError) Unwrap() error { return ErrUndeliverable }

func infeasible(droneID, reason, format string, args ...any) error {
	return &InfeasibleError{DroneID: droneID, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}
