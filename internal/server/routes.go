package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	r := s.router

	// Session lifecycle and edits
	r.Route("/session", func(r chi.Router) {
		r.Post("/", s.openSession)
		r.Get("/", s.getSession)
		r.Post("/navigate", s.navigate)
		r.Post("/preview", s.previewEdit)
		r.Post("/params", s.addParameter)
		r.Delete("/params/{name}", s.deleteParameter)
		r.Post("/commit", s.commitSession)
		r.Post("/cancel", s.cancelSession)
	})

	// Read-only view of the host's parameters
	r.Get("/params", s.listParameters)

	// Event streaming (SSE)
	r.Get("/event", s.events)
}
