package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler serves CheckLiveness as JSON.
func (c *Checker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, c.CheckLiveness(r.Context()))
	}
}

// ReadinessHandler serves CheckReadiness as JSON, with 503 when degraded.
//
// Example response (degraded):
//
//	{
//	    "status": "degraded",
//	    "checks": {
//	        "schema": {"status": "ok"},
//	        "compile": {"status": "unhealthy", "message": "schema: required tag \"frame_id\" missing from <laser>"}
//	    },
//	    "timestamp": "2026-10-15T10:30:00Z"
//	}
func (c *Checker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, r, c.CheckReadiness(r.Context()))
	}
}

// Register adds /health and /ready to mux.
func (c *Checker) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", c.LivenessHandler())
	mux.HandleFunc("/ready", c.ReadinessHandler())
}

func writeStatus(w http.ResponseWriter, r *http.Request, status Status) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if status.Status == "degraded" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if r.Method != http.MethodHead {
		_ = json.NewEncoder(w).Encode(status)
	}
}
