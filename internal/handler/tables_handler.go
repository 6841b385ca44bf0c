package handlers

import (
	"net/http"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := h.TablesService.Health(r.Context())
	if !status.Healthy() {
		writeSuccess(w, status, http.StatusServiceUnavailable)
		return
	}

	writeSuccess(w, status, http.StatusOK)
}
