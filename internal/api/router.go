package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/canvasservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *canvasservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Traversal session. One session at a time; state lives in the service.
	r.Get("/session", h.Status)
	r.Post("/session/start", h.StartSession)
	r.Post("/session/keep", h.Keep)
	r.Post("/session/discard", h.Discard)
	r.Post("/session/name", h.SubmitName)
	r.Delete("/session", h.CancelSession)

	// Single-note star transform.
	r.Post("/transform", h.Transform)

	// Vault browsing.
	r.Get("/notes", h.ListNotes)
	r.Get("/notes/*", h.GetNote)
	r.Get("/neighbors/*", h.Neighbors)
	r.Get("/canvas/*", h.GetCanvas)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
