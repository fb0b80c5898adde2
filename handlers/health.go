// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status, configured model, and admission pool occupancy

package handlers

import (
	"net/http"
)

// Health returns service status including slot pool occupancy and whether a
// speech backend is configured.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status": "ok",
		"pool": map[string]int{
			"live":     h.pool.Live(),
			"capacity": h.pool.Capacity(),
		},
		"speech": "not_configured",
	}

	if h.cfg != nil {
		resp["model"] = h.cfg.Model
	}
	if h.speech != nil {
		resp["speech"] = "ok"
	}

	h.writeJSON(w, http.StatusOK, resp)
}
