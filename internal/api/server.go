// Package api exposes the engine's read-only HTTP surface: health, live
// session status, and Prometheus metrics.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anchorwatch/anchor/internal/risk"
	"github.com/anchorwatch/anchor/internal/session"
)

type Server struct {
	router   *chi.Mux
	port     int
	registry *session.Registry
}

// SessionStatus is one session's entry in the status response.
type SessionStatus struct {
	ID             string           `json:"id"`
	StartedAt      time.Time        `json:"started_at"`
	LastSeen       time.Time        `json:"last_seen"`
	BufferedWords  int              `json:"buffered_words"`
	LastAssessment *risk.Assessment `json:"last_assessment,omitempty"`
}

func NewServer(port int, registry *session.Registry) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		registry: registry,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/anchor/status", s.status)
	router.Handle("/metrics", promhttp.Handler())

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	states := s.registry.All()
	sessions := make([]SessionStatus, 0, len(states))
	for _, st := range states {
		st.Mu.Lock()
		sessions = append(sessions, SessionStatus{
			ID:             st.ID,
			StartedAt:      st.StartedAt,
			LastSeen:       st.LastSeen,
			BufferedWords:  st.Window.Words(),
			LastAssessment: st.LastAssessment,
		})
		st.Mu.Unlock()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"service":  "anchor",
		"sessions": sessions,
		"count":    len(sessions),
	})
}
