package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/geo"
	"net/http"
)

// GeometryHandler serves the stateless geometry primitives.
type GeometryHandler struct {
	Cfg geo.Config
}

func (h *GeometryHandler) DistanceTo(w http.ResponseWriter, r *http.Request) {
	var req dto.PositionPairRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, geo.Distance(req.Position1.ToDomain(), req.Position2.ToDomain()))
}

func (h *GeometryHandler) IsCloseTo(w http.ResponseWriter, r *http.Request) {
	var req dto.PositionPairRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, &req) {
		return
	}

	writeJSON(w, r, http.StatusOK, h.Cfg.IsClose(req.Position1.ToDomain(), req.Position2.ToDomain()))
}

func (h *GeometryHandler) NextPosition(w http.ResponseWriter, r *http.Request) {
	var req dto.NextPositionRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, &req) {
		return
	}

	if !h.Cfg.IsHeading(*req.Angle) {
		writeError(w, r, http.StatusBadRequest, "angle must be a multiple of 22.5 in [0, 360)")
		return
	}

	next := h.Cfg.Step(req.Start.ToDomain(), *req.Angle)
	writeJSON(w, r, http.StatusOK, dto.FromPosition(next))
}

func (h *GeometryHandler) IsInRegion(w http.ResponseWriter, r *http.Request) {
	var req dto.InRegionRequest
	if !decodeJSON(w, r, &req) || !validateBody(w, r, &req) {
		return
	}

	region := req.Region.ToDomain()
	if !region.Closed() {
		writeError(w, r, http.StatusBadRequest, "region must be closed: first and last vertex must be equal")
		return
	}

	writeJSON(w, r, http.StatusOK, geo.PointInPolygon(req.Position.ToDomain(), region))
}
