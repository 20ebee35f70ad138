// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/canvasservice"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/traversal"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp   *server.MCPServer
	svc   *canvasservice.Service
	store storage.Provider
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *canvasservice.Service, store storage.Provider) *Server {
	s := &Server{svc: svc, store: store}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("start_traversal",
		mcp.WithDescription("Start an interactive traversal of the link graph seeded at a note. "+
			"The seed is kept automatically; each linked note is then presented one at a time "+
			"for add_note or ignore_note decisions."),
		mcp.WithString("seed", mcp.Required(), mcp.Description("Relative path of the seed note (e.g. folder/note.md)")),
	), s.startTraversal)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Keep the currently presented note: it joins the canvas set and its "+
			"own linked notes are queued for later decisions."),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("ignore_note",
		mcp.WithDescription("Discard the currently presented note without following its links."),
	), s.ignoreNote)

	s.mcp.AddTool(mcp.NewTool("traversal_status",
		mcp.WithDescription("Report the traversal state: the pending candidate and how many notes remain queued."),
	), s.traversalStatus)

	s.mcp.AddTool(mcp.NewTool("submit_canvas_name",
		mcp.WithDescription("Finalize the traversal under the given canvas name. The kept notes are "+
			"laid out on a grid and written as a .canvas file. Rejected if the name is blank."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Canvas file name without the .canvas extension")),
	), s.submitCanvasName)

	s.mcp.AddTool(mcp.NewTool("cancel_traversal",
		mcp.WithDescription("Abandon the traversal at the name prompt. Nothing is written."),
	), s.cancelTraversal)

	s.mcp.AddTool(mcp.NewTool("transform_note_to_canvas",
		mcp.WithDescription("Generate a star-layout canvas for a single note: the note in the center, "+
			"backlinks on the left, outgoing links on the right. Idempotent: an existing canvas is left untouched."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the note to transform")),
	), s.transformNote)

	s.mcp.AddTool(mcp.NewTool("get_neighbors",
		mcp.WithDescription("List the one-hop neighborhood of a note: outgoing links and backlinks."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path of the note")),
	), s.getNeighbors)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read the full content of a Markdown note."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the note (e.g. folder/note.md)")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all notes or notes in a specific folder."),
		mcp.WithString("folder", mcp.Description("Optional folder to list (empty for all)")),
	), s.listNotes)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// advanceText renders a session position as operator-readable text.
func advanceText(adv traversal.Advance) string {
	switch adv.State {
	case traversal.StateAwaitingDecision:
		return fmt.Sprintf("candidate: %s (%d more queued); add_note or ignore_note", adv.Candidate, adv.Remaining)
	case traversal.StateAwaitingName:
		return "all candidates decided; submit_canvas_name to finish, cancel_traversal to abandon"
	default:
		return "no traversal in progress"
	}
}

func (s *Server) startTraversal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	seed, err := req.RequireString("seed")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	adv, err := s.svc.StartSession(ctx, seed)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(advanceText(adv)), nil
}

func (s *Server) addNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	adv, err := s.svc.Keep(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(advanceText(adv)), nil
}

func (s *Server) ignoreNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	adv, err := s.svc.Discard(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(advanceText(adv)), nil
}

func (s *Server) traversalStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(advanceText(s.svc.Status(ctx))), nil
}

func (s *Server) submitCanvasName(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	canvasPath, err := s.svc.SubmitName(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", canvasPath)), nil
}

func (s *Server) cancelTraversal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.svc.CancelSession(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("traversal cancelled"), nil
}

func (s *Server) transformNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	canvasPath, created, err := s.svc.Transform(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !created {
		return mcp.NewToolResultText(fmt.Sprintf("already exists: %s", canvasPath)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", canvasPath)), nil
}

func (s *Server) getNeighbors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ns, err := s.svc.Neighbors(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(map[string]any{
		"outbound": ns.Outbound,
		"inbound":  ns.Inbound,
		"degree":   ns.Degree(),
	}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	folder := req.GetString("folder", "")

	metas, err := s.store.List(folder)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var paths []string
	for _, m := range metas {
		paths = append(paths, m.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}
