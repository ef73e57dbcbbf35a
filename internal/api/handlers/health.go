package handlers

import (
	"net/http"
)

// HealthHandler reports liveness plus which optional backends are wired.
type HealthHandler struct {
	Provider string
	History  bool
	Sinks    int
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	res := map[string]any{
		"status":   "ok",
		"provider": h.Provider,
		"history":  h.History,
		"sinks":    h.Sinks,
	}
	writeJSON(w, r, http.StatusOK, res)
}
