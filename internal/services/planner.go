package services

import (
	"cmp"
	"context"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/platform/obs"
	"errors"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultPlannerWorkers = 4

// Planner allocates batches of delivery requests to drones.
//
// A group of deliveries (initially the whole batch) is offered to every capable
// drone in order of estimated cost; the first drone that can fly the whole
// group feasibly takes it. Groups nobody can take are bisected and retried.
// Groups of one round are evaluated concurrently; they share no mutable state
// beyond the leg cache of the planning call.
type Planner struct {
	finder  PathFinder
	cfg     geo.Config
	workers int
	log     *zap.Logger
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithWorkers bounds how many groups are evaluated at the same time.
func WithWorkers(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for timing and split decisions.
func WithLogger(log *zap.Logger) PlannerOption {
	return func(p *Planner) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPlanner builds a Planner searching legs with finder.
func NewPlanner(finder PathFinder, cfg geo.Config, opts ...PlannerOption) *Planner {
	p := &Planner{
		finder:  finder,
		cfg:     cfg,
		workers: defaultPlannerWorkers,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan assigns every request to exactly one DronePlan.
//
// A batch with any undeliverable request fails as a whole with
// *UndeliverableError listing all of them; no partial result is returned.
func (p *Planner) Plan(
	ctx context.Context,
	ref *domain.ReferenceData,
	requests []domain.DeliveryRequest,
) (result *domain.PlanResult, err error) {
	defer obs.Time(ctx, p.log, "plan deliveries")(&err)

	if ref == nil {
		return nil, errors.New("plan deliveries: reference data must be non-nil")
	}
	if p.finder == nil {
		return nil, errors.New("plan deliveries: path finder must be non-nil")
	}
	if len(requests) == 0 {
		return &domain.PlanResult{DronePaths: []domain.DronePlan{}}, nil
	}

	seen := make(map[int]struct{}, len(requests))
	for _, r := range requests {
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("plan deliveries: duplicate delivery id %d", r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	zones := ref.NoFlyZones()

	// Destinations inside a no-fly zone cannot be reached by any route.
	var blocked []int
	for _, r := range requests {
		if geo.InAnyZone(r.Destination, zones) {
			blocked = append(blocked, r.ID)
		}
	}
	if len(blocked) > 0 {
		slices.Sort(blocked)
		return nil, &UndeliverableError{DeliveryIDs: blocked, Reason: "destination inside a restricted area"}
	}

	finder := newMemoFinder(p.finder)

	var (
		plans         []domain.DronePlan
		undeliverable []int
	)

	pending := [][]domain.DeliveryRequest{requests}

	// Every split strictly shrinks a group, so no group survives more rounds
	// than there are requests.
	for round := 0; len(pending) > 0; round++ {
		if round > len(requests) {
			return nil, fmt.Errorf("plan deliveries: split rounds exceeded %d", len(requests))
		}

		assigned := make([]*domain.DronePlan, len(pending))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(p.workers)
		for i, group := range pending {
			i, group := i, group
			g.Go(func() error {
				plan, err := p.assignGroup(gctx, finder, ref, zones, group)
				if err != nil {
					return err
				}
				assigned[i] = plan
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("plan deliveries: round %d: %w", round, err)
		}

		var next [][]domain.DeliveryRequest
		for i, group := range pending {
			switch {
			case assigned[i] != nil:
				plans = append(plans, *assigned[i])
			case len(group) > 1:
				left, right, err := BisectByLocation(group)
				if err != nil {
					return nil, fmt.Errorf("plan deliveries: %w", err)
				}
				p.log.Debug("split delivery group",
					zap.Int("round", round),
					zap.Ints("left", deliveryIDs(left)),
					zap.Ints("right", deliveryIDs(right)),
				)
				next = append(next, left, right)
			default:
				p.log.Debug("no feasible drone for delivery", zap.Int("delivery_id", group[0].ID))
				undeliverable = append(undeliverable, group[0].ID)
			}
		}
		pending = next
	}

	if len(undeliverable) > 0 {
		slices.Sort(undeliverable)
		return nil, &UndeliverableError{DeliveryIDs: undeliverable, Reason: "no feasible drone"}
	}

	result = &domain.PlanResult{DronePaths: plans}
	for _, plan := range plans {
		result.TotalCost += plan.TotalCost
		result.TotalMoves += plan.TotalMoves
	}
	return result, nil
}

type candidate struct {
	drone    domain.Drone
	home     domain.ServicePoint
	estimate float64
}

// assignGroup returns the plan of the first feasible drone for group, or nil
// when no drone can fly the whole group.
func (p *Planner) assignGroup(
	ctx context.Context,
	finder PathFinder,
	ref *domain.ReferenceData,
	zones []domain.Polygon,
	group []domain.DeliveryRequest,
) (*domain.DronePlan, error) {
	candidates := p.candidates(ref, group)

	flights := make(map[int]*Flight)
	unreachable := make(map[int]bool)

	for _, c := range candidates {
		spID := c.home.ID
		if unreachable[spID] {
			continue
		}

		flight, ok := flights[spID]
		if !ok {
			var err error
			flight, err = PlanFlight(ctx, finder, c.home.Location, group, zones)
			if errors.Is(err, geo.ErrNoPathFound) {
				unreachable[spID] = true
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("assign group from service point %d: %w", spID, err)
			}
			flights[spID] = flight
		}

		feas, err := Evaluate(c.drone, spID, flight.Deliveries, flight.Legs, flight.Return)
		if errors.Is(err, ErrInfeasible) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("assign group: evaluate drone %s: %w", c.drone.ID, err)
		}

		return newDronePlan(c.drone.ID, spID, flight, feas), nil
	}

	return nil, nil
}

// candidates lists every (drone, service point) pairing that meets the
// group's capability needs and has windows at that service point covering the
// group, cheapest straight-line estimate first. Drones without a home are
// never dispatched.
func (p *Planner) candidates(ref *domain.ReferenceData, group []domain.DeliveryRequest) []candidate {
	req := GroupRequirements(group)

	var out []candidate
	for _, d := range ref.Drones {
		if CheckCapability(d, req) != nil {
			continue
		}
		for _, spID := range d.ServicePointIDs() {
			home, ok := ref.ServicePoint(spID)
			if !ok {
				continue
			}
			if CheckAvailability(d, spID, group) != nil {
				continue
			}

			out = append(out, candidate{
				drone:    d,
				home:     home,
				estimate: Cost(d.Capability, p.estimateMoves(home.Location, group)),
			})
		}
	}

	slices.SortFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(a.estimate, b.estimate); c != 0 {
			return c
		}
		if c := cmp.Compare(a.drone.ID, b.drone.ID); c != 0 {
			return c
		}
		return cmp.Compare(a.home.ID, b.home.ID)
	})
	return out
}

func (p *Planner) estimateMoves(home domain.Position, group []domain.DeliveryRequest) int {
	tour := StraightLineTour(home, NearestNeighborOrder(home, group))
	return int(math.Ceil(tour / p.cfg.MoveDistance))
}

func newDronePlan(droneID string, servicePointID int, f *Flight, feas Feasibility) *domain.DronePlan {
	legs := make([]domain.DeliveryLeg, len(f.Deliveries))
	for i, d := range f.Deliveries {
		legs[i] = domain.DeliveryLeg{DeliveryID: d.ID, Path: f.Legs[i]}
	}
	return &domain.DronePlan{
		DroneID:        droneID,
		ServicePointID: servicePointID,
		Deliveries:     legs,
		ReturnPath:     f.Return,
		TotalMoves:     feas.TotalMoves,
		TotalCost:      feas.TotalCost,
	}
}

func deliveryIDs(group []domain.DeliveryRequest) []int {
	ids := make([]int, len(group))
	for i, d := range group {
		ids[i] = d.ID
	}
	return ids
}
