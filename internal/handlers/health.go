package handlers

import "net/http"

// HealthResponse is the fixed liveness payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health is the liveness probe. It answers 200 whenever the process is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "API funcionando corretamente",
	})
}
