package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
//
// The /relay route table is the controller's public command grammar, so
// it is flat and explicit rather than generated. Static "all" routes are
// registered alongside the parameterised {id} routes; chi matches static
// segments first, so "all" never reaches the numeric parser.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// Embedded control panel
	r.Get("/", s.handleIndex)

	// Health check
	r.Get("/health", s.handleHealth)

	// Relay commands
	r.Route("/relay", func(r chi.Router) {
		r.Get("/all/status", s.handleAllStatus)
		r.Get("/all/on", s.handleAllOn)
		r.Get("/all/off", s.handleAllOff)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/toggle", s.handleToggle)
			r.Get("/status", s.handleStatus)
			r.Get("/on", s.handleOn)
			r.Get("/off", s.handleOff)
			r.Get("/history", s.handleHistory)
		})
	})

	// WebSocket state stream
	r.Get(s.wsCfg.Path, s.handleWebSocket)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"relays":  s.relays.Count(),
	})
}
