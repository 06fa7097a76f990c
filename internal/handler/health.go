package handler

import "net/http"

// GetHealth handles GET /healthz. It reports liveness only and is wired
// outside the authenticated route group.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
