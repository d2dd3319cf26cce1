package handlers

import (
	"drone-dispatch-service/internal/ports"
	"net/http"
	"time"
)

type HealthHandler struct {
	Ref ports.ReferenceProvider
}

// Health reports liveness and, when known, the age of the reference data in force.
// Reference data failures do not fail the check; the server can still answer
// geometry requests without it.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	res := map[string]string{"status": "ok"}

	if h.Ref != nil {
		if ref, err := h.Ref.Snapshot(r.Context()); err == nil {
			res["referenceLoadedAt"] = ref.LoadedAt.UTC().Format(time.RFC3339)
		} else {
			res["reference"] = "unavailable"
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
