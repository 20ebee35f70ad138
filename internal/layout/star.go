package layout

import (
	"fmt"

	"github.com/starford/raido/internal/canvas"
)

// Star lays a single note between its neighbors: backlinks in a column left
// of the center, forward links in a column to the right, one edge per
// neighbor. Backlink edges run from the neighbor's right side into the
// center's left side; forward-link edges run from the center's right side
// into the neighbor's left side.
//
// Node heights derive from content truncated at the second heading, one line
// unit per line; widths come from the configured node width.
func (e *Engine) Star(docPath string, s Settings) (*canvas.Canvas, error) {
	center := truncateAtSecondHeading(e.readContent(docPath))
	centerHeight := textHeight(center)

	ns := e.neighbors.Neighbors(docPath)

	var c canvas.Canvas
	centerNode := canvas.FileNode("center", docPath, 0, -centerHeight/2, s.NodeWidth, centerHeight)
	c.AddNode(centerNode)

	e.placeColumn(&c, ns.Inbound, s, -(s.NodeWidth + starGap), "back", func(id string, i int) canvas.Edge {
		return canvas.Edge{
			ID:       fmt.Sprintf("edge-back-%d", i),
			FromNode: id,
			FromSide: canvas.SideRight,
			ToNode:   centerNode.ID,
			ToSide:   canvas.SideLeft,
		}
	})

	e.placeColumn(&c, ns.Outbound, s, s.NodeWidth+starGap, "fwd", func(id string, i int) canvas.Edge {
		return canvas.Edge{
			ID:       fmt.Sprintf("edge-fwd-%d", i),
			FromNode: centerNode.ID,
			FromSide: canvas.SideRight,
			ToNode:   id,
			ToSide:   canvas.SideLeft,
		}
	})

	return &c, nil
}

// placeColumn stacks neighbor nodes vertically at the given x, centered on
// the column's accumulated height, and emits one edge per node.
func (e *Engine) placeColumn(c *canvas.Canvas, paths []string, s Settings, x int, idPrefix string, edge func(id string, i int) canvas.Edge) {
	if len(paths) == 0 {
		return
	}

	heights := make([]int, len(paths))
	total := 0
	for i, p := range paths {
		heights[i] = textHeight(truncateAtSecondHeading(e.readContent(p)))
		total += heights[i]
	}
	total += spacing * (len(paths) - 1)

	y := -total / 2
	for i, p := range paths {
		id := fmt.Sprintf("%s-%d", idPrefix, i)
		c.AddNode(canvas.FileNode(id, p, x, y, s.NodeWidth, heights[i]))
		c.AddEdge(edge(id, i))
		y += heights[i] + spacing
	}
}
