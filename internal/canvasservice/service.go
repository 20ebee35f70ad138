// Package canvasservice coordinates traversal sessions, layout, and canvas
// persistence on top of the vault storage and link index.
package canvasservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/canvas"
	"github.com/starford/raido/internal/checksum"
	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/layout"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/resolver"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/traversal"
)

// Notifier receives operator-facing notices. Implemented by the SSE broker;
// NopNotifier serves headless callers.
type Notifier interface {
	CandidatePresented(path string, remaining int)
	AwaitingName(acceptedCount int)
	SessionFinished(canvasPath string)
	CanvasCreated(path string)
}

// NopNotifier discards all notices.
type NopNotifier struct{}

func (NopNotifier) CandidatePresented(string, int) {}
func (NopNotifier) AwaitingName(int)               {}
func (NopNotifier) SessionFinished(string)         {}
func (NopNotifier) CanvasCreated(string)           {}

// Settings carries the canvas generation configuration.
type Settings struct {
	Folder string // vault-relative target folder for new canvases, "" = root
	Layout layout.Settings
}

// Service exposes the traversal and transform operations. Session access is
// serialized internally: there is exactly one traversal session per service.
type Service struct {
	store    storage.Provider
	db       index.NoteIndex
	resolver *resolver.Resolver
	engine   *layout.Engine
	notify   Notifier
	logger   *slog.Logger
	settings Settings

	mu      sync.Mutex
	session *traversal.Session
}

// NewService creates a canvas service.
func NewService(store storage.Provider, db index.NoteIndex, res *resolver.Resolver, engine *layout.Engine, settings Settings, notify Notifier, logger *slog.Logger) *Service {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &Service{
		store:    store,
		db:       db,
		resolver: res,
		engine:   engine,
		notify:   notify,
		logger:   logger,
		settings: settings,
		session:  traversal.NewSession(res, logger),
	}
}

// NoteDetail is the full representation of a note: the parsed note plus the
// resolved paths of every note linking to it.
type NoteDetail struct {
	models.Note
	Backlinks []string `json:"backlinks"`
}

// StartSession begins a traversal seeded at seed (an implicit keep of the
// seed). The seed must exist in the vault.
func (s *Service) StartSession(_ context.Context, seed string) (traversal.Advance, error) {
	if !s.store.Exists(seed) {
		return traversal.Advance{}, apperr.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	adv, err := s.session.Start(seed)
	if err != nil {
		return traversal.Advance{}, err
	}
	s.announce(adv)
	return adv, nil
}

// Keep accepts the current candidate and advances.
func (s *Service) Keep(_ context.Context) (traversal.Advance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adv, err := s.session.Keep()
	if err != nil {
		return traversal.Advance{}, err
	}
	s.announce(adv)
	return adv, nil
}

// Discard drops the current candidate and advances.
func (s *Service) Discard(_ context.Context) (traversal.Advance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	adv, err := s.session.Discard()
	if err != nil {
		return traversal.Advance{}, err
	}
	s.announce(adv)
	return adv, nil
}

// Status returns the session position without mutating it.
func (s *Service) Status(_ context.Context) traversal.Advance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Status()
}

// SubmitName finalizes the session under the given canvas name: the accepted
// set is laid out in grid mode and written to the configured folder. An empty
// trimmed name returns apperr.ErrEmptyName and keeps the session at the
// prompt. Layout or write failures are returned to the caller, but the
// session has already reset by then; finalization is one-shot.
func (s *Service) SubmitName(_ context.Context, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted, err := s.session.Finalize(name)
	if err != nil {
		return "", err
	}

	target := s.canvasPath(name)
	if s.store.Exists(target) {
		s.notify.SessionFinished("")
		return "", apperr.ErrAlreadyExists
	}

	c, err := s.engine.Grid(accepted, s.settings.Layout)
	if err != nil {
		s.notify.SessionFinished("")
		return "", err
	}
	if err := s.writeCanvas(target, c); err != nil {
		s.notify.SessionFinished("")
		return "", err
	}

	s.notify.CanvasCreated(target)
	s.notify.SessionFinished(target)
	s.logger.Info("canvas written",
		slog.String("path", target), slog.Int("notes", len(accepted)))
	return target, nil
}

// CancelSession abandons the session at the name prompt; nothing is written.
func (s *Service) CancelSession(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.session.Cancel(); err != nil {
		return err
	}
	s.notify.SessionFinished("")
	return nil
}

// Transform produces the star-mode canvas for a single note at its canonical
// name "{basename} Canvas". When that canvas already exists it is left
// untouched and reported as such; the operation is idempotent.
func (s *Service) Transform(_ context.Context, notePath string) (string, bool, error) {
	if !s.store.Exists(notePath) {
		return "", false, apperr.ErrNotFound
	}

	target := s.canvasPath(models.BaseName(notePath) + " Canvas")
	if s.store.Exists(target) {
		s.logger.Debug("canvas already exists, opening unchanged", slog.String("path", target))
		return target, false, nil
	}

	c, err := s.engine.Star(notePath, s.settings.Layout)
	if err != nil {
		return "", false, err
	}
	if err := s.writeCanvas(target, c); err != nil {
		return "", false, err
	}

	s.notify.CanvasCreated(target)
	s.logger.Info("canvas written", slog.String("path", target), slog.String("note", notePath))
	return target, true, nil
}

// Neighbors returns the one-hop neighborhood of a note.
func (s *Service) Neighbors(_ context.Context, notePath string) (models.NeighborSet, error) {
	if !s.store.Exists(notePath) {
		return models.NeighborSet{}, apperr.ErrNotFound
	}
	return s.resolver.Neighbors(notePath), nil
}

// GetNote reads a note from storage, parses it, and enriches with backlinks.
func (s *Service) GetNote(_ context.Context, notePath string) (*NoteDetail, error) {
	data, err := s.store.Read(notePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	res, err := parser.Parse(data)
	if err != nil {
		return nil, err
	}
	note := models.Note{
		Path:        notePath,
		Body:        res.Body,
		Frontmatter: res.Frontmatter,
		Title:       res.Title,
		Links:       res.Links,
		Checksum:    checksum.Sum(data),
	}
	if row, err := s.db.GetNote(notePath); err == nil && row != nil {
		note.CreatedAt = row.CreatedAt
		note.UpdatedAt = row.UpdatedAt
	}
	bl := s.resolver.Neighbors(notePath).Inbound
	if bl == nil {
		bl = []string{}
	}
	return &NoteDetail{Note: note, Backlinks: bl}, nil
}

// ListNotes returns every indexed note.
func (s *Service) ListNotes(_ context.Context) ([]index.NoteRow, error) {
	return s.db.ListNotes()
}

// ReadCanvas loads a previously written canvas document.
func (s *Service) ReadCanvas(_ context.Context, canvasPath string) (*canvas.Canvas, error) {
	data, err := s.store.Read(canvasPath)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	return canvas.Decode(data)
}

func (s *Service) announce(adv traversal.Advance) {
	switch adv.State {
	case traversal.StateAwaitingDecision:
		s.notify.CandidatePresented(adv.Candidate, adv.Remaining)
	case traversal.StateAwaitingName:
		s.notify.AwaitingName(len(s.session.Accepted()))
	}
}

// canvasPath joins the configured folder with a canvas name. The folder is
// created on write via the storage layer, so creation is idempotent.
func (s *Service) canvasPath(name string) string {
	return path.Join(s.settings.Folder, name+".canvas")
}

// writeCanvas serializes the fully constructed document and writes it once;
// no partial canvas ever reaches disk.
func (s *Service) writeCanvas(target string, c *canvas.Canvas) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return s.store.Write(target, data)
}
