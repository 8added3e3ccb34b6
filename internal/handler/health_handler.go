package handlers

import (
	"net/http"
)

type HealthResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Sessions int    `json:"sessions"`
	API      string `json:"api"`
}

// HealthCheck reports the state of session persistence. The remote API is
// named but not probed.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Store: h.Health.Kind(), API: h.Cfg.APIBaseURL}

	count, err := h.Health.Count(r.Context())
	if err != nil {
		h.logFailure(r, "session store health check failed", err)
		resp.Status = "degraded"
		writeSuccess(w, resp, http.StatusServiceUnavailable)
		return
	}
	resp.Sessions = count

	writeSuccess(w, resp, http.StatusOK)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, "notfound", Page{Title: "Not found"})
}
