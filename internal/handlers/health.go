package handlers

import "net/http"

// Healthz reports process liveness for probes.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MessageResponse{Message: "ok"})
}
