package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// writeJSON sends data as a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.Logger.Error("encode response", zap.Error(err))
	}
}

// writeError surfaces a failure as {"error": message} with a non-200 status.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}
