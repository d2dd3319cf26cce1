package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// DroneHandler answers fleet lookups against the reference data in force.
type DroneHandler struct {
	Ref ports.ReferenceProvider
	Cfg geo.Config
}

func (h *DroneHandler) DronesWithCooling(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(chi.URLParam(r, "state"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "state must be true or false")
		return
	}

	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, services.DronesWithCooling(ref, state))
}

func (h *DroneHandler) DroneDetails(w http.ResponseWriter, r *http.Request) {
	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return
	}

	d, found := ref.Drone(chi.URLParam(r, "id"))
	if !found {
		writeError(w, r, http.StatusNotFound, "drone not found")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromDrone(d))
}

// QueryAsPath matches a single attribute for equality.
func (h *DroneHandler) QueryAsPath(w http.ResponseWriter, r *http.Request) {
	cond := services.QueryCondition{
		Attribute: chi.URLParam(r, "attribute"),
		Operator:  services.OpEqual,
		Value:     chi.URLParam(r, "value"),
	}
	h.query(w, r, []services.QueryCondition{cond})
}

func (h *DroneHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req []dto.QueryCondition
	if !decodeJSON(w, r, &req) || !validateBody(w, r, req) {
		return
	}

	conds := make([]services.QueryCondition, len(req))
	for i, c := range req {
		conds[i] = services.QueryCondition{Attribute: c.Attribute, Operator: c.Operator, Value: c.Value}
	}
	h.query(w, r, conds)
}

func (h *DroneHandler) query(w http.ResponseWriter, r *http.Request, conds []services.QueryCondition) {
	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return
	}

	ids, err := services.QueryDrones(ref, conds)
	if err != nil {
		writeServiceError(w, r, "query drones", err)
		return
	}
	writeJSON(w, r, http.StatusOK, ids)
}

func (h *DroneHandler) QueryAvailableDrones(w http.ResponseWriter, r *http.Request) {
	var req []dto.DeliveryRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, req) {
		return
	}

	requests, err := dto.DeliveriesToDomain(req)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ref, ok := snapshot(w, r, h.Ref)
	if !ok {
		return
	}

	writeJSON(w, r, http.StatusOK, services.AvailableDrones(ref, h.Cfg, requests))
}
