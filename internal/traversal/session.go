// Package traversal implements the interactive worklist walk over a note's
// link graph: a breadth-first expansion where the operator keeps or discards
// each discovered note until the worklist is exhausted.
package traversal

import (
	"log/slog"
	"strings"

	"github.com/starford/raido/internal/apperr"
	"github.com/starford/raido/internal/models"
)

// State of a traversal session.
type State string

const (
	// StateIdle: no session in progress.
	StateIdle State = "idle"
	// StateAwaitingDecision: a candidate is presented and the operator has
	// not yet kept or discarded it.
	StateAwaitingDecision State = "awaiting_decision"
	// StateAwaitingName: the worklist is exhausted; the session waits for a
	// canvas name (or cancellation) before finalizing.
	StateAwaitingName State = "awaiting_name"
)

// NeighborSource yields one-hop neighborhoods; satisfied by *resolver.Resolver.
type NeighborSource interface {
	Neighbors(docPath string) models.NeighborSet
}

// Advance reports the session position after a decision: the new state, the
// candidate now awaiting a decision (when awaiting one), and how many
// further candidates remain queued behind it.
type Advance struct {
	State     State  `json:"state"`
	Candidate string `json:"candidate,omitempty"`
	Remaining int    `json:"remaining"`
}

// Session is a one-shot traversal over the link graph. It is not safe for
// concurrent use; callers serialize access (there is exactly one operator).
//
// Invariants: a path never appears in both pending and accepted, and never
// twice within pending. Membership is checked at enqueue time, so cycles in
// the link graph cannot re-enqueue a note and the walk always terminates.
type Session struct {
	neighbors NeighborSource
	logger    *slog.Logger

	state     State
	candidate string
	pending   []string // FIFO queue of paths awaiting a decision
	accepted  []string // kept paths in insertion order

	inPending  map[string]struct{}
	inAccepted map[string]struct{}
}

// NewSession creates an idle traversal session.
func NewSession(neighbors NeighborSource, logger *slog.Logger) *Session {
	s := &Session{neighbors: neighbors, logger: logger}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.state = StateIdle
	s.candidate = ""
	s.pending = nil
	s.accepted = nil
	s.inPending = make(map[string]struct{})
	s.inAccepted = make(map[string]struct{})
}

// State returns the current session state.
func (s *Session) State() State { return s.state }

// Status returns the current position without mutating the session.
func (s *Session) Status() Advance {
	return Advance{State: s.state, Candidate: s.candidate, Remaining: len(s.pending)}
}

// Accepted returns the kept paths in insertion order.
func (s *Session) Accepted() []string {
	out := make([]string, len(s.accepted))
	copy(out, s.accepted)
	return out
}

// Start begins a traversal seeded at seed, performing an implicit keep of
// the seed. Only valid while idle.
func (s *Session) Start(seed string) (Advance, error) {
	if s.state != StateIdle {
		return Advance{}, apperr.ErrSessionActive
	}
	s.state = StateAwaitingDecision
	s.candidate = seed
	s.logger.Info("traversal: session started", slog.String("seed", seed))
	return s.keep(), nil
}

// Keep accepts the current candidate, enqueues its not-yet-seen neighbors at
// the tail of the worklist, and advances to the next candidate.
func (s *Session) Keep() (Advance, error) {
	if s.state != StateAwaitingDecision {
		return Advance{}, apperr.ErrNotAwaiting
	}
	return s.keep(), nil
}

// Discard drops the current candidate without expanding its neighbors and
// advances to the next candidate.
func (s *Session) Discard() (Advance, error) {
	if s.state != StateAwaitingDecision {
		return Advance{}, apperr.ErrNotAwaiting
	}
	s.logger.Debug("traversal: discarded", slog.String("path", s.candidate))
	return s.advance(), nil
}

// Finalize ends the session with the supplied canvas name, returning the
// accepted set and resetting to idle. An empty trimmed name is a validation
// error: the session stays at the name prompt. Only valid while awaiting a
// name.
func (s *Session) Finalize(name string) ([]string, error) {
	if s.state != StateAwaitingName {
		return nil, apperr.ErrNotAwaiting
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.ErrEmptyName
	}
	accepted := s.Accepted()
	s.logger.Info("traversal: session finalized",
		slog.String("name", name), slog.Int("accepted", len(accepted)))
	s.reset()
	return accepted, nil
}

// Cancel abandons the session at the name prompt: nothing is produced and
// the session resets to idle.
func (s *Session) Cancel() error {
	if s.state != StateAwaitingName {
		return apperr.ErrNotAwaiting
	}
	s.logger.Info("traversal: session cancelled", slog.Int("accepted", len(s.accepted)))
	s.reset()
	return nil
}

func (s *Session) keep() Advance {
	doc := s.candidate
	if _, dup := s.inAccepted[doc]; !dup {
		s.inAccepted[doc] = struct{}{}
		s.accepted = append(s.accepted, doc)

		// Breadth-first expansion: newly discovered neighbors go to the
		// tail, duplicates suppressed at enqueue time.
		for _, n := range s.neighbors.Neighbors(doc).All() {
			if _, ok := s.inAccepted[n]; ok {
				continue
			}
			if _, ok := s.inPending[n]; ok {
				continue
			}
			s.inPending[n] = struct{}{}
			s.pending = append(s.pending, n)
		}
	}
	s.logger.Debug("traversal: kept",
		slog.String("path", doc), slog.Int("pending", len(s.pending)))
	return s.advance()
}

func (s *Session) advance() Advance {
	if len(s.pending) == 0 {
		s.state = StateAwaitingName
		s.candidate = ""
		return s.Status()
	}
	next := s.pending[0]
	s.pending = s.pending[1:]
	delete(s.inPending, next)
	s.candidate = next
	return s.Status()
}
