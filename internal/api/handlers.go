package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/canvasservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *canvasservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *canvasservice.Service) *Handler {
	return &Handler{svc: svc}
}

// notePath extracts the note path from the URL (everything after the route
// prefix). Supports encoded slashes from OpenAPI clients (e.g. topics%2Fnote.md).
func notePath(r *http.Request) string {
	raw := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// StartSession handles POST /api/session/start.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Seed == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("seed is required"))
		return
	}
	adv, err := h.svc.StartSession(r.Context(), req.Seed)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		case errors.Is(err, apperr.ErrSessionActive):
			writeJSON(w, http.StatusConflict, errorBody("a session is already active"))
		default:
			slog.Error("start session failed", slog.String("seed", req.Seed), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

// Keep handles POST /api/session/keep.
func (h *Handler) Keep(w http.ResponseWriter, r *http.Request) {
	adv, err := h.svc.Keep(r.Context())
	if err != nil {
		h.writeSessionError(w, err, "keep")
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

// Discard handles POST /api/session/discard.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	adv, err := h.svc.Discard(r.Context())
	if err != nil {
		h.writeSessionError(w, err, "discard")
		return
	}
	writeJSON(w, http.StatusOK, adv)
}

// Status handles GET /api/session.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Status(r.Context()))
}

// SubmitName handles POST /api/session/name. An empty trimmed name is a
// validation error and leaves the session waiting at the prompt.
func (h *Handler) SubmitName(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req SubmitNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	canvasPath, err := h.svc.SubmitName(r.Context(), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrEmptyName):
			writeJSON(w, http.StatusBadRequest, errorBody("canvas name must not be empty"))
		case errors.Is(err, apperr.ErrNotAwaiting):
			writeJSON(w, http.StatusConflict, errorBody("session is not awaiting a name"))
		case errors.Is(err, apperr.ErrAlreadyExists):
			writeJSON(w, http.StatusConflict, errorBody("canvas already exists"))
		default:
			slog.Error("submit name failed", slog.String("name", req.Name), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, CanvasResponse{Canvas: canvasPath, Created: true})
}

// CancelSession handles DELETE /api/session.
func (h *Handler) CancelSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.CancelSession(r.Context()); err != nil {
		h.writeSessionError(w, err, "cancel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transform handles POST /api/transform.
func (h *Handler) Transform(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req TransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	canvasPath, created, err := h.svc.Transform(r.Context(), req.Path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("note not found"))
		} else {
			slog.Error("transform failed", slog.String("path", req.Path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, CanvasResponse{Canvas: canvasPath, Created: created})
}

// ListNotes handles GET /api/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListNotes(r.Context())
	if err != nil {
		slog.Error("list notes failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	items := make([]NoteListItem, 0, len(rows))
	for _, n := range rows {
		items = append(items, NoteListItem{
			Path:      n.Path,
			Title:     n.Title,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
		})
	}
	writeJSON(w, http.StatusOK, NoteListResponse{Notes: items, Total: len(items)})
}

// GetNote handles GET /api/notes/*.
func (h *Handler) GetNote(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	note, err := h.svc.GetNote(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get note failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, note)
}

// Neighbors handles GET /api/neighbors/*.
func (h *Handler) Neighbors(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	ns, err := h.svc.Neighbors(r.Context(), path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("neighbors failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	out, in := ns.Outbound, ns.Inbound
	if out == nil {
		out = []string{}
	}
	if in == nil {
		in = []string{}
	}
	writeJSON(w, http.StatusOK, NeighborsResponse{
		Path:     path,
		Outbound: out,
		Inbound:  in,
		Degree:   ns.Degree(),
	})
}

// GetCanvas handles GET /api/canvas/*.
func (h *Handler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	path := notePath(r)
	if path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	c, err := h.svc.ReadCanvas(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// writeSessionError maps session state errors to HTTP responses for the
// body-less session endpoints.
func (h *Handler) writeSessionError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrNotAwaiting), errors.Is(err, apperr.ErrNoSession):
		writeJSON(w, http.StatusConflict, errorBody("session is not in the required state"))
	default:
		slog.Error("session operation failed", slog.String("op", op), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
