package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"i4.energy/across/sensorfleet/fleet"
)

// Server exposes the fleet's metrics and latest reports over HTTP
type Server struct {
	Logger   *slog.Logger
	Board    *fleet.Board
	Gatherer prometheus.Gatherer
}

// ServeHTTP implements the http.Handler interface for the Server struct
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.ServeHTTP(w, r)
}

func (s *Server) sendJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Failed to encode response", "error", err)
	}
}

// handleHealth reports the board. The fleet counts as unhealthy until it
// has completed its first pass.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Board.Snapshot()

	statusCode := http.StatusOK
	if snapshot.Passes == 0 {
		statusCode = http.StatusServiceUnavailable
	}

	s.sendJSON(w, snapshot, statusCode)
}
