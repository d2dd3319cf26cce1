package handlers

import (
	"drone-dispatch-service/internal/api/dto"
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"drone-dispatch-service/internal/platform/obs"
	"drone-dispatch-service/internal/ports"
	"drone-dispatch-service/internal/services"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON strictly decodes a single JSON value into dst.
// It writes a 400 response and returns false on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON value")
		return false
	}
	return true
}

// validateBody writes a 400 response and returns false when body fails validation.
func validateBody(w http.ResponseWriter, r *http.Request, body any) bool {
	if err := dto.Validate(body); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError maps core errors onto HTTP responses.
// Unexpected errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var undeliverable *services.UndeliverableError

	switch {
	case errors.As(err, &undeliverable):
		writeJSON(w, r, http.StatusUnprocessableEntity, map[string]any{
			"error":       undeliverable.Error(),
			"deliveryIds": undeliverable.DeliveryIDs,
		})
	case errors.Is(err, geo.ErrNoPathFound):
		writeError(w, r, http.StatusUnprocessableEntity, "no path found")
	case errors.Is(err, services.ErrInvalidQuery):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		zap.L().Error(op+" failed",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// snapshot returns the reference data in force, or writes a 503 response.
func snapshot(w http.ResponseWriter, r *http.Request, ref ports.ReferenceProvider) (*domain.ReferenceData, bool) {
	data, err := ref.Snapshot(r.Context())
	if err != nil {
		zap.L().Error("reference data unavailable",
			zap.String("req_id", obs.RequestID(r.Context())),
			zap.Error(err),
		)
		writeError(w, r, http.StatusServiceUnavailable, "reference data unavailable")
		return nil, false
	}
	return data, true
}
