// Package layout turns sets of vault notes into positioned canvas diagrams.
//
// Two modes exist: grid mode arranges an accepted set of notes on a
// square-ish grid with connectivity-based coloring and a synthesized
// aggregate text node, and star mode arranges a single note between its
// backlink and forward-link neighbors with connecting edges.
package layout

import (
	"fmt"
	"log/slog"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/starford/raido/internal/index"
	"github.com/starford/raido/internal/models"
	"github.com/starford/raido/internal/storage"
)

// Grid spacing between adjacent nodes, in canvas units.
const spacing = 40

// Horizontal gap between the star-mode center column and its neighbor columns.
const starGap = 100

// Height of one text line in star-mode node sizing.
const lineHeight = 50

// Connectivity color palette, highest-degree band first.
var palette = [5]string{"#FF0000", "#FFA500", "#FFFF00", "#8A2BE2", "#0000FF"}

// Color of the synthesized aggregate node.
const aggregateColor = "#00FF00"

// Settings carries the layout-relevant configuration.
type Settings struct {
	NodeWidth        int
	NodeHeight       int
	SortProperty     string
	ExcludedSections []string
}

// NeighborSource yields one-hop neighborhoods; satisfied by *resolver.Resolver.
type NeighborSource interface {
	Neighbors(docPath string) models.NeighborSet
}

// NoteSource provides indexed note rows; satisfied by *index.DB.
type NoteSource interface {
	GetNote(path string) (*index.NoteRow, error)
}

// Engine computes canvas layouts over the vault.
type Engine struct {
	store     storage.Provider
	db        NoteSource
	neighbors NeighborSource
	logger    *slog.Logger
}

// NewEngine creates a layout engine.
func NewEngine(store storage.Provider, db NoteSource, neighbors NeighborSource, logger *slog.Logger) *Engine {
	return &Engine{store: store, db: db, neighbors: neighbors, logger: logger}
}

// document is the per-note working record assembled before placement.
type document struct {
	path    string
	content string
	sortKey sortKey
	degree  int
}

// readContent returns the note's raw content, treating read failures as
// empty content so one unreadable note does not abort a whole layout.
func (e *Engine) readContent(docPath string) string {
	data, err := e.store.Read(docPath)
	if err != nil {
		e.logger.Warn("layout: read failed, using empty content",
			slog.String("path", docPath), slog.String("error", err.Error()))
		return ""
	}
	return string(data)
}

// sortKey is the comparable form of a note's sort value. Two numeric keys
// compare numerically, anything else compares lexically.
type sortKey struct {
	num   float64
	isNum bool
	str   string
}

func (a sortKey) less(b sortKey) bool {
	if a.isNum && b.isNum {
		return a.num < b.num
	}
	return a.str < b.str
}

// makeSortKey derives the sort key for a note: the configured frontmatter
// property when present, otherwise the note's creation timestamp.
func makeSortKey(fm map[string]interface{}, property string, created time.Time) sortKey {
	if fm != nil && property != "" {
		if raw, ok := fm[property]; ok {
			return valueKey(raw)
		}
	}
	return sortKey{num: float64(created.UnixNano()), isNum: true, str: created.UTC().Format(time.RFC3339)}
}

func valueKey(raw interface{}) sortKey {
	switch v := raw.(type) {
	case int:
		return sortKey{num: float64(v), isNum: true, str: fmt.Sprint(v)}
	case int64:
		return sortKey{num: float64(v), isNum: true, str: fmt.Sprint(v)}
	case uint64:
		return sortKey{num: float64(v), isNum: true, str: fmt.Sprint(v)}
	case float64:
		return sortKey{num: v, isNum: true, str: fmt.Sprint(v)}
	case time.Time:
		return sortKey{num: float64(v.UnixNano()), isNum: true, str: v.UTC().Format(time.RFC3339)}
	default:
		return sortKey{str: fmt.Sprint(v)}
	}
}

// sortDocuments orders documents ascending by sort key. The sort is stable:
// ties keep the accepted-set insertion order.
func sortDocuments(docs []*document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].sortKey.less(docs[j].sortKey)
	})
}

// bandColors ranks documents by descending degree and assigns each a palette
// color from its percentile band (band 0 = highest degree). The returned map
// is keyed by note path.
func bandColors(docs []*document) map[string]string {
	ranked := make([]*document, len(docs))
	copy(ranked, docs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].degree > ranked[j].degree
	})

	colors := make(map[string]string, len(ranked))
	total := len(ranked)
	for i, d := range ranked {
		band := i * len(palette) / total
		if band > len(palette)-1 {
			band = len(palette) - 1
		}
		colors[d.path] = palette[band]
	}
	return colors
}

var headingLineRe = regexp.MustCompile(`(?m)^#{1,6} `)

// truncateAtSecondHeading returns content up to, not including, the second
// line that begins a heading, trimmed.
func truncateAtSecondHeading(content string) string {
	locs := headingLineRe.FindAllStringIndex(content, 2)
	if len(locs) < 2 {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(content[:locs[1][0]])
}

// textHeight sizes a star-mode node from its truncated content: one line
// unit per line of text.
func textHeight(content string) int {
	lines := strings.Count(content, "\n") + 1
	return lines * lineHeight
}

// displayName is the label used in the aggregate text: the file basename
// including its extension.
func displayName(docPath string) string {
	return path.Base(docPath)
}
