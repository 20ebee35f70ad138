package api

import (
	"time"

	"github.com/starford/raido/internal/canvasservice"
	"github.com/starford/raido/internal/traversal"
)

// StartSessionRequest is the request body for starting a traversal session.
type StartSessionRequest struct {
	Seed string `json:"seed"`
}

// SubmitNameRequest is the request body for finalizing a session.
type SubmitNameRequest struct {
	Name string `json:"name"`
}

// TransformRequest is the request body for a single-note star transform.
type TransformRequest struct {
	Path string `json:"path"`
}

// SessionResponse is the session state returned by the session endpoints
// (aliased from the domain layer).
type SessionResponse = traversal.Advance

// CanvasResponse reports the outcome of an operation that produces a canvas.
// Created is false when the canvas already existed and was left untouched.
type CanvasResponse struct {
	Canvas  string `json:"canvas"`
	Created bool   `json:"created"`
}

// NoteDetail is the full note response type (aliased from the domain layer).
type NoteDetail = canvasservice.NoteDetail

// NoteListItem is a lightweight item in a list response.
type NoteListItem struct {
	Path      string    `json:"path"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteListResponse wraps note listings.
type NoteListResponse struct {
	Notes []NoteListItem `json:"notes"`
	Total int            `json:"total"`
}

// NeighborsResponse is the one-hop neighborhood of a note.
type NeighborsResponse struct {
	Path     string   `json:"path"`
	Outbound []string `json:"outbound"`
	Inbound  []string `json:"inbound"`
	Degree   int      `json:"degree"`
}
