package layout

import (
	"testing"

	"github.com/starford/raido/internal/canvas"
	"github.com/starford/raido/internal/models"
)

func TestTruncateAtSecondHeading(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"two headings", "# One\nbody\n## Two\nrest", "# One\nbody"},
		{"one heading", "# Only\nbody\n", "# Only\nbody"},
		{"no headings", "plain\ntext", "plain\ntext"},
		{"heading mid-line ignored", "text # not heading\n# Real\nbody\n## Second\nx", "text # not heading\n# Real\nbody"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateAtSecondHeading(tc.in); got != tc.want {
				t.Errorf("truncate(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestStar_Layout(t *testing.T) {
	files := map[string]string{
		"center.md": "# Title\nline2\nline3\n## Second\nhidden",
		"b1.md":     "one line",
		"f1.md":     "one line",
		"f2.md":     "one line",
	}
	sets := map[string]models.NeighborSet{
		"center.md": {
			Inbound:  []string{"b1.md"},
			Outbound: []string{"f1.md", "f2.md"},
		},
	}

	e := testEngine(files, nil, sets)
	c, err := e.Star("center.md", defaultSettings())
	if err != nil {
		t.Fatalf("Star: %v", err)
	}

	if len(c.Nodes) != 4 {
		t.Fatalf("len(nodes) = %d, want 4", len(c.Nodes))
	}
	if len(c.Edges) != 3 {
		t.Fatalf("len(edges) = %d, want 3", len(c.Edges))
	}

	byID := map[string]canvas.Node{}
	for _, n := range c.Nodes {
		byID[n.ID] = n
	}

	// Center: 3 lines of truncated content, one line unit each.
	center := byID["center"]
	if center.Height != 150 || center.Y != -75 || center.X != 0 {
		t.Errorf("center = %+v", center)
	}

	// Backlink column sits left of the center, forward column to the right.
	back := byID["back-0"]
	if back.X >= 0 {
		t.Errorf("backlink node at x=%d, want negative", back.X)
	}
	if back.File != "b1.md" || back.Height != 50 {
		t.Errorf("back-0 = %+v", back)
	}

	fwd0, fwd1 := byID["fwd-0"], byID["fwd-1"]
	if fwd0.X <= 0 || fwd1.X != fwd0.X {
		t.Errorf("forward column x = %d, %d", fwd0.X, fwd1.X)
	}
	if fwd1.Y <= fwd0.Y {
		t.Errorf("forward nodes not stacked downward: %d then %d", fwd0.Y, fwd1.Y)
	}
}

func TestStar_EdgeOrientation(t *testing.T) {
	files := map[string]string{
		"c.md": "x",
		"b.md": "x",
		"f.md": "x",
	}
	sets := map[string]models.NeighborSet{
		"c.md": {Inbound: []string{"b.md"}, Outbound: []string{"f.md"}},
	}

	e := testEngine(files, nil, sets)
	c, err := e.Star("c.md", defaultSettings())
	if err != nil {
		t.Fatalf("Star: %v", err)
	}

	var backEdge, fwdEdge *canvas.Edge
	for i := range c.Edges {
		switch c.Edges[i].ID {
		case "edge-back-0":
			backEdge = &c.Edges[i]
		case "edge-fwd-0":
			fwdEdge = &c.Edges[i]
		}
	}
	if backEdge == nil || fwdEdge == nil {
		t.Fatalf("edges missing: %+v", c.Edges)
	}

	// Backlink: neighbor right side → center left side.
	if backEdge.FromNode != "back-0" || backEdge.FromSide != canvas.SideRight ||
		backEdge.ToNode != "center" || backEdge.ToSide != canvas.SideLeft {
		t.Errorf("back edge = %+v", backEdge)
	}
	// Forward link: center right side → neighbor left side.
	if fwdEdge.FromNode != "center" || fwdEdge.FromSide != canvas.SideRight ||
		fwdEdge.ToNode != "fwd-0" || fwdEdge.ToSide != canvas.SideLeft {
		t.Errorf("fwd edge = %+v", fwdEdge)
	}
}

func TestStar_NoNeighbors(t *testing.T) {
	e := testEngine(map[string]string{"solo.md": "alone"}, nil, nil)
	c, err := e.Star("solo.md", defaultSettings())
	if err != nil {
		t.Fatalf("Star: %v", err)
	}
	if len(c.Nodes) != 1 || len(c.Edges) != 0 {
		t.Errorf("nodes=%d edges=%d, want 1/0", len(c.Nodes), len(c.Edges))
	}
}
