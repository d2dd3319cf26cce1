package handlers

import (
	"context"
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"net/http"
)

// DeliveryPlanner is the planning use case the handlers depend on.
type DeliveryPlanner interface {
	Plan(ctx context.Context, ref *domain.ReferenceData, requests []domain.DeliveryRequest) (*domain.PlanResult, error)
}

// PlanHandler serves pathfinding and delivery planning.
type PlanHandler struct {
	Ref     ports.ReferenceProvider
	Planner DeliveryPlanner
	Finder  services.PathFinder
}

// CalcPath finds a single route around the current restricted areas.
func (h *PlanHandler) CalcPath(w http.ResponseWriter, r *http.Request) {
	var req dto.PathRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, &req) {
		return
	}

	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return
	}

	start, goal := req.Start.ToDomain(), req.Goal.ToDomain()
	zones := ref.NoFlyZones()
	if geo.InAnyZone(start, zones) || geo.InAnyZone(goal, zones) {
		writeError(w, r, http.StatusUnprocessableEntity, "start or goal inside a restricted area")
		return
	}

	route, err := h.Finder.FindPath(start, goal, zones)
	if err != nil {
		writeServiceError(w, r, "calc path", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoute(route))
}

func (h *PlanHandler) CalcDeliveryPath(w http.ResponseWriter, r *http.Request) {
	res, ok := h.plan(w, r)
	if !ok {
		return
	}
	writeJSON(w, r, http.StatusOK, dto.FromPlanResult(res))
}

func (h *PlanHandler) CalcDeliveryPathAsGeoJSON(w http.ResponseWriter, r *http.Request) {
	res, ok := h.plan(w, r)
	if !ok {
		return
	}
	fc, err := dto.PlanFeatureCollection(res)
	if err != nil {
		writeServiceError(w, r, "render geojson", err)
		return
	}
	writeJSON(w, r, http.StatusOK, fc)
}

// plan decodes a delivery batch and plans it, writing any error response itself.
func (h *PlanHandler) plan(w http.ResponseWriter, r *http.Request) (*domain.PlanResult, bool) {
	var req []dto.DeliveryRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, req) {
		return nil, false
	}

	requests, err := dto.DeliveriesToDomain(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return nil, false
	}

	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return nil, false
	}

	res, err := h.Planner.Plan(r.Context(), ref, requests)
	if err != nil {
		writeServiceError(w, r, "plan deliveries", err)
		return nil, false
	}
	return res, true
}
