package layout

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/starford/raido/internal/canvas"
	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/sectionfilter"
)

// Grid lays an accepted set of notes on a square-ish grid, colored by
// connectivity band, and appends one aggregate text node holding the
// concatenated, section-filtered content of every note in sort order.
//
// Zero accepted notes is a valid degenerate case: the canvas holds only the
// (empty-content) aggregate node.
func (e *Engine) Grid(accepted []string, s Settings) (*canvas.Canvas, error) {
	docs := make([]*document, 0, len(accepted))
	for _, p := range accepted {
		content := e.readContent(p)

		var fm map[string]interface{}
		if res, err := parser.Parse([]byte(content)); err == nil {
			fm = res.Frontmatter
		}

		created := time.Time{}
		if row, err := e.db.GetNote(p); err == nil && row != nil {
			created = row.CreatedAt
		}

		docs = append(docs, &document{
			path:    p,
			content: content,
			sortKey: makeSortKey(fm, s.SortProperty, created),
			degree:  e.neighbors.Neighbors(p).Degree(),
		})
	}

	sortDocuments(docs)
	colors := bandColors(docs)

	columns := int(math.Ceil(math.Sqrt(float64(len(docs)))))

	var c canvas.Canvas
	var aggregate strings.Builder
	for i, d := range docs {
		n := canvas.FileNode(
			fmt.Sprintf("node-%d", i),
			d.path,
			(i%columns)*(s.NodeWidth+spacing),
			(i/columns)*(s.NodeHeight+spacing),
			s.NodeWidth,
			s.NodeHeight,
		)
		n.Color = colors[d.path]
		c.AddNode(n)

		filtered := sectionfilter.Strip(d.content, s.ExcludedSections)
		fmt.Fprintf(&aggregate, "--- %s ---\n%s\n\n", displayName(d.path), filtered)
	}

	agg := canvas.TextNode(
		"node-aggregate",
		aggregate.String(),
		(columns+1)*(s.NodeWidth+spacing),
		0,
		2*s.NodeWidth+spacing,
		2*s.NodeHeight+spacing,
	)
	agg.Color = aggregateColor
	c.AddNode(agg)

	return &c, nil
}
