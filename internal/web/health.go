// Package web serves the liveness endpoint used by the hosting platform.
package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Pinger is anything with a cheap connectivity check, typically *sql.DB.
type Pinger interface {
	Ping() error
}

// Server is the small HTTP surface next to the bot: /health for liveness
// probes and uptime checks.
type Server struct {
	db      Pinger
	started time.Time
}

func NewServer(db Pinger) *Server {
	return &Server{db: db, started: time.Now()}
}

// Start blocks serving HTTP on the given address.
func (s *Server) Start(addr string) error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)

	log.Info().Str("addr", addr).Msg("health server listening")
	return http.ListenAndServe(addr, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.db.Ping(); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
		log.Warn().Err(err).Msg("health check: database ping failed")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"uptime": time.Since(s.started).Round(time.Second).String(),
	})
}
