package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/raido/internal/canvasservice"
	"github.com/starford/raido/internal/layout"
	"github.com/starford/raido/internal/resolver"
	"github.com/starford/raido/internal/testutil"
)

func testServer(t *testing.T, notes map[string]string) *Server {
	t.Helper()

	_, store := testutil.TestVault(t)
	db := testutil.TestDB(t)
	testutil.SeedVault(t, store, db, notes)

	logger := testutil.TestLogger(t)
	res := resolver.New(db, logger)
	engine := layout.NewEngine(store, db, res, logger)
	settings := canvasservice.Settings{
		Layout: layout.Settings{NodeWidth: 400, NodeHeight: 600, SortProperty: "created_at"},
	}
	svc := canvasservice.NewService(store, db, res, engine, settings, nil, logger)
	return New(svc, store)
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we invoke
	// the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "start_traversal":
		result, err = srv.startTraversal(ctx, req)
	case "add_note":
		result, err = srv.addNote(ctx, req)
	case "ignore_note":
		result, err = srv.ignoreNote(ctx, req)
	case "traversal_status":
		result, err = srv.traversalStatus(ctx, req)
	case "submit_canvas_name":
		result, err = srv.submitCanvasName(ctx, req)
	case "cancel_traversal":
		result, err = srv.cancelTraversal(ctx, req)
	case "transform_note_to_canvas":
		result, err = srv.transformNote(ctx, req)
	case "get_neighbors":
		result, err = srv.getNeighbors(ctx, req)
	case "read_note":
		result, err = srv.readNote(ctx, req)
	case "list_notes":
		result, err = srv.listNotes(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestTraversalTools(t *testing.T) {
	srv := testServer(t, map[string]string{
		"Home.md": "# Home\n\n[[A]]\n",
		"A.md":    "# A\n",
	})

	r := callTool(t, srv, "start_traversal", map[string]interface{}{"seed": "Home.md"})
	text := resultText(r)
	if !strings.Contains(text, "A.md") {
		t.Fatalf("start result = %q, want candidate A.md", text)
	}

	r = callTool(t, srv, "add_note", map[string]interface{}{})
	if !strings.Contains(resultText(r), "submit_canvas_name") {
		t.Fatalf("add result = %q, want name prompt", resultText(r))
	}

	r = callTool(t, srv, "submit_canvas_name", map[string]interface{}{"name": "Map"})
	if resultText(r) != "created: Map.canvas" {
		t.Errorf("submit result = %q", resultText(r))
	}

	// Canvas file is readable back through the store.
	r = callTool(t, srv, "read_note", map[string]interface{}{"path": "Map.canvas"})
	if r.IsError {
		t.Error("canvas file should exist after submit")
	}
}

func TestIgnoreNote(t *testing.T) {
	srv := testServer(t, map[string]string{
		"Home.md": "# Home\n\n[[A]]\n",
		"A.md":    "# A\n\n[[B]]\n",
		"B.md":    "# B\n",
	})

	_ = callTool(t, srv, "start_traversal", map[string]interface{}{"seed": "Home.md"})

	// Ignoring A must not queue B.
	r := callTool(t, srv, "ignore_note", map[string]interface{}{})
	if !strings.Contains(resultText(r), "submit_canvas_name") {
		t.Errorf("ignore result = %q, want name prompt", resultText(r))
	}
}

func TestTraversalStatus_Idle(t *testing.T) {
	srv := testServer(t, map[string]string{"a.md": "# A\n"})

	r := callTool(t, srv, "traversal_status", map[string]interface{}{})
	if resultText(r) != "no traversal in progress" {
		t.Errorf("status = %q", resultText(r))
	}
}

func TestStartTraversal_MissingSeed(t *testing.T) {
	srv := testServer(t, map[string]string{"a.md": "# A\n"})

	r := callTool(t, srv, "start_traversal", map[string]interface{}{"seed": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing seed")
	}
}

func TestCancelTraversal(t *testing.T) {
	srv := testServer(t, map[string]string{"Solo.md": "# Solo\n"})

	_ = callTool(t, srv, "start_traversal", map[string]interface{}{"seed": "Solo.md"})
	r := callTool(t, srv, "cancel_traversal", map[string]interface{}{})
	if resultText(r) != "traversal cancelled" {
		t.Errorf("cancel result = %q", resultText(r))
	}
	r = callTool(t, srv, "traversal_status", map[string]interface{}{})
	if resultText(r) != "no traversal in progress" {
		t.Errorf("status after cancel = %q", resultText(r))
	}
}

func TestTransformTool(t *testing.T) {
	srv := testServer(t, map[string]string{
		"Hub.md":   "# Hub\n\n[[Spoke]]\n",
		"Spoke.md": "# Spoke\n\n[[Hub]]\n",
	})

	r := callTool(t, srv, "transform_note_to_canvas", map[string]interface{}{"path": "Hub.md"})
	if resultText(r) != "created: Hub Canvas.canvas" {
		t.Errorf("transform result = %q", resultText(r))
	}

	r = callTool(t, srv, "transform_note_to_canvas", map[string]interface{}{"path": "Hub.md"})
	if resultText(r) != "already exists: Hub Canvas.canvas" {
		t.Errorf("repeat transform result = %q", resultText(r))
	}
}

func TestGetNeighbors(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md": "links to [[b]]",
		"b.md": "# B\n",
	})

	r := callTool(t, srv, "get_neighbors", map[string]interface{}{"path": "b.md"})
	text := resultText(r)
	if !strings.Contains(text, "a.md") {
		t.Errorf("neighbors of b.md = %q, want inbound a.md", text)
	}
}

func TestReadNoteMissing(t *testing.T) {
	srv := testServer(t, map[string]string{"a.md": "# A\n"})
	r := callTool(t, srv, "read_note", map[string]interface{}{"path": "nope.md"})
	if !r.IsError {
		t.Error("expected error for missing note")
	}
}

func TestListNotes(t *testing.T) {
	srv := testServer(t, map[string]string{
		"a.md":     "# A\n",
		"sub/b.md": "# B\n",
		"sub/c.md": "# C\n",
	})

	// The folder argument is optional; omitting it lists the whole vault.
	r := callTool(t, srv, "list_notes", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "a.md") || !strings.Contains(text, "sub/b.md") {
		t.Errorf("list = %q", text)
	}

	r = callTool(t, srv, "list_notes", map[string]interface{}{"folder": "sub"})
	text = resultText(r)
	if strings.Contains(text, "a.md") || !strings.Contains(text, "sub/b.md") || !strings.Contains(text, "sub/c.md") {
		t.Errorf("folder list = %q", text)
	}
}
