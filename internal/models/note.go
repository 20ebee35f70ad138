// Package models defines the domain types for Raido.
package models

import (
	"path"
	"strings"
	"time"
)

// Note represents a parsed Markdown file in the vault.
type Note struct {
	Path        string                 `json:"path"`
	Body        string                 `json:"body"`
	Frontmatter map[string]interface{} `json:"frontmatter,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Links       []string               `json:"links,omitempty"`
	Checksum    string                 `json:"checksum"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// Name returns the display name of the note: its file basename
// without the .md extension.
func (n Note) Name() string {
	return BaseName(n.Path)
}

// BaseName strips the directory and the .md extension from a vault path.
func BaseName(p string) string {
	return strings.TrimSuffix(path.Base(p), ".md")
}

// NoteMetadata is a lightweight representation returned by list operations.
type NoteMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Link represents a directed reference between two notes. Target holds the
// raw wikilink text as written in the source note; it is resolved to a
// concrete vault path lazily (see the resolver package).
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// NeighborSet is the one-hop neighborhood of a note: the notes it links to
// (outbound) and the notes that link to it (inbound). Both slices hold vault
// paths, are deduplicated internally, and preserve the resolver's emission
// order. A path may appear in both slices when two notes link each other.
type NeighborSet struct {
	Outbound []string `json:"outbound"`
	Inbound  []string `json:"inbound"`
}

// Degree returns the connectivity degree of the note: outbound count plus
// inbound count. A mutually-linked pair contributes on both sides; the sum is
// deliberately not deduplicated.
func (ns NeighborSet) Degree() int {
	return len(ns.Outbound) + len(ns.Inbound)
}

// All returns outbound followed by inbound neighbors, in emission order.
func (ns NeighborSet) All() []string {
	out := make([]string, 0, len(ns.Outbound)+len(ns.Inbound))
	out = append(out, ns.Outbound...)
	out = append(out, ns.Inbound...)
	return out
}
