// Package resolver resolves wikilink targets to vault paths and computes
// one-hop note neighborhoods (outbound links and backlinks).
package resolver

import (
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/models"
)

// Resolver resolves raw link text against the indexed vault. Resolution
// failures are silent: an unresolvable target is simply dropped, and a note
// with no links yields empty neighbor sets rather than an error.
type Resolver struct {
	db     index.NoteIndex
	logger *slog.Logger
}

// New creates a Resolver over the given index.
func New(db index.NoteIndex, logger *slog.Logger) *Resolver {
	return &Resolver{db: db, logger: logger}
}

// Resolve maps a raw wikilink target (as written in sourcePath's content) to
// an existing vault path. Resolution order mirrors the usual editor rules:
//
//  1. the target as a path relative to the source note's directory
//  2. the target as a vault-absolute path
//  3. shortest-unique-name: any note whose basename matches the target's
//     basename, preferring the shortest path (ties broken lexically)
//
// The second return is false when no existing note matches.
func (r *Resolver) Resolve(target, sourcePath string) (string, bool) {
	paths, err := r.db.AllPaths()
	if err != nil {
		r.logger.Debug("resolver: all paths failed", slog.String("error", err.Error()))
		return "", false
	}
	return resolveAgainst(target, sourcePath, paths)
}

// Neighbors returns the one-hop neighborhood of the note at docPath:
// outbound targets resolved in document order, and inbound sources whose own
// links resolve back to docPath, in path order. Both sides are internally
// deduplicated; a mutually-linked pair appears on both sides.
func (r *Resolver) Neighbors(docPath string) models.NeighborSet {
	paths, err := r.db.AllPaths()
	if err != nil {
		r.logger.Debug("resolver: all paths failed", slog.String("error", err.Error()))
		return models.NeighborSet{}
	}

	ns := models.NeighborSet{}

	// Outbound: every raw target of docPath that resolves to an existing note.
	targets, err := r.db.LinksFrom(docPath)
	if err != nil {
		r.logger.Debug("resolver: links from failed",
			slog.String("path", docPath), slog.String("error", err.Error()))
		targets = nil
	}
	seenOut := make(map[string]struct{}, len(targets))
	for _, t := range targets {
		resolved, ok := resolveAgainst(t, docPath, paths)
		if !ok {
			continue
		}
		if _, dup := seenOut[resolved]; dup {
			continue
		}
		seenOut[resolved] = struct{}{}
		ns.Outbound = append(ns.Outbound, resolved)
	}

	// Inbound: candidate link rows are prefiltered by the note's basename,
	// which every resolvable raw form preserves (relative subpaths
	// included), then verified with a full resolution from the candidate's
	// point of view (duplicate basenames elsewhere in the vault may capture
	// the short spelling).
	rows, err := r.db.LinksTo(models.BaseName(docPath))
	if err != nil {
		r.logger.Debug("resolver: links to failed",
			slog.String("path", docPath), slog.String("error", err.Error()))
		rows = nil
	}
	seenIn := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		resolved, ok := resolveAgainst(row.Target, row.Source, paths)
		if !ok || resolved != docPath {
			continue
		}
		if _, dup := seenIn[row.Source]; dup {
			continue
		}
		seenIn[row.Source] = struct{}{}
		ns.Inbound = append(ns.Inbound, row.Source)
	}

	return ns
}

func resolveAgainst(target, sourcePath string, paths map[string]struct{}) (string, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", false
	}
	withExt := target
	if !strings.HasSuffix(withExt, ".md") {
		withExt += ".md"
	}

	// Relative to the source note's directory.
	if dir := path.Dir(sourcePath); dir != "." {
		rel := path.Clean(path.Join(dir, withExt))
		if _, ok := paths[rel]; ok {
			return rel, true
		}
	}

	// Vault-absolute.
	if _, ok := paths[path.Clean(withExt)]; ok {
		return path.Clean(withExt), true
	}

	// Shortest-unique-name fallback on the basename.
	base := strings.TrimSuffix(path.Base(withExt), ".md")
	var matches []string
	for p := range paths {
		if models.BaseName(p) == base {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Slice(matches, func(i, j int) bool {
		if len(matches[i]) != len(matches[j]) {
			return len(matches[i]) < len(matches[j])
		}
		return matches[i] < matches[j]
	})
	return matches[0], true
}
