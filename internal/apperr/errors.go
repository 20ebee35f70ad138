// Package apperr defines sentinel errors shared across service layers.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Traversal session preconditions.
	ErrSessionActive = errors.New("traversal session already active")
	ErrNoSession     = errors.New("no traversal session active")
	ErrNotAwaiting   = errors.New("session is not awaiting this operation")
	ErrEmptyName     = errors.New("canvas name cannot be empty")
)
