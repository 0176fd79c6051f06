// Package mcp exposes the signed-in user's notes as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/inkwell/pkg/core"
	"github.com/aretw0/inkwell/pkg/notes"
)

// Session is what the tools need from the session manager.
type Session interface {
	IsAuthenticated() bool
	Current() (core.Session, bool)
	OnChange(fn func(core.Session))
}

// NewServer creates an MCP server with tools for note operations.
func NewServer(sess Session, store *notes.Store, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Inkwell",
		strings.TrimSpace(version),
		server.WithToolCapabilities(true),
	)
	h := newHandlers(sess, store)

	s.AddTool(
		mcp.NewTool("whoami",
			mcp.WithDescription("Show the signed-in user and when the session expires."),
		),
		h.whoami,
	)

	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List every note of the signed-in user, as returned by the server. Use this to get an overview."),
			mcp.WithString("tag",
				mcp.Description("Optional: glob over tags, e.g. 'work/*' or '**/draft'"),
			),
		),
		h.listNotes,
	)

	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Case-insensitive substring search over title, content and tag. An empty query returns every note."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to look for"),
			),
		),
		h.searchNotes,
	)

	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		h.getNote,
	)

	s.AddTool(
		mcp.NewTool("create_note",
			mcp.WithDescription("Create a note. A title or content is required."),
			mcp.WithString("title", mcp.Description("Note title")),
			mcp.WithString("content", mcp.Description("Note body, markdown")),
			mcp.WithString("color", mcp.Description("One of orange, yellow, green, red, purple, teal (default: orange)")),
			mcp.WithString("tag", mcp.Description("Optional tag")),
		),
		h.createNote,
	)

	s.AddTool(
		mcp.NewTool("update_note",
			mcp.WithDescription("Update a note. Omitted fields keep their current value."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("content", mcp.Description("New body")),
			mcp.WithString("color", mcp.Description("New color")),
			mcp.WithString("tag", mcp.Description("New tag")),
		),
		h.updateNote,
	)

	s.AddTool(
		mcp.NewTool("delete_note",
			mcp.WithDescription("Delete a note. Nothing is deleted unless confirm is true."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID"),
			),
			mcp.WithBoolean("confirm",
				mcp.Required(),
				mcp.Description("Must be true to delete"),
			),
		),
		h.deleteNote,
	)

	return s
}

// NoteResult represents a note in tool responses.
type NoteResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Color     string `json:"color"`
	Tag       string `json:"tag,omitempty"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type handlers struct {
	sess  Session
	store *notes.Store
}

// newHandlers binds the tools to the session. The cached list belongs to
// one user, so it is dropped whenever the identity changes.
func newHandlers(sess Session, store *notes.Store) *handlers {
	sess.OnChange(func(core.Session) {
		store.Reset()
	})
	return &handlers{sess: sess, store: store}
}

func (h *handlers) whoami(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cur, ok := h.sess.Current()
	if !ok {
		return mcp.NewToolResultError("not logged in: run `inkwell login` first"), nil
	}
	out := map[string]any{
		"username": cur.User.Username,
		"email":    cur.User.Email,
	}
	if cur.ExpiresAt != nil {
		out["expiresAt"] = cur.ExpiresAt.Format(time.RFC3339)
	}
	return jsonResult(out), nil
}

func (h *handlers) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	if _, err := h.store.List(ctx); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
	}

	list, err := h.store.FilterTag(req.GetString("tag", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(toResults(list)), nil
}

func (h *handlers) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	query := req.GetString("query", "")

	if !h.store.Loaded() {
		if _, err := h.store.List(ctx); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to list notes: %v", err)), nil
		}
	}
	return jsonResult(toResults(h.store.Search(query))), nil
}

func (h *handlers) getNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	n, err := h.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
	}
	return jsonResult(toResult(n)), nil
}

func (h *handlers) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	color, err := core.ParseColor(req.GetString("color", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	n, err := h.store.Create(ctx, core.Draft{
		Title:   req.GetString("title", ""),
		Content: req.GetString("content", ""),
		Color:   color,
		Tag:     req.GetString("tag", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create note: %v", err)), nil
	}
	return jsonResult(toResult(n)), nil
}

func (h *handlers) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	current, err := h.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get note: %v", err)), nil
	}

	d := core.DraftOf(current)
	d.Title = req.GetString("title", d.Title)
	d.Content = req.GetString("content", d.Content)
	d.Tag = req.GetString("tag", d.Tag)
	if c := req.GetString("color", ""); c != "" {
		if d.Color, err = core.ParseColor(c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	n, err := h.store.Update(ctx, id, d)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update note: %v", err)), nil
	}
	return jsonResult(toResult(n)), nil
}

func (h *handlers) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if res := h.requireAuth(); res != nil {
		return res, nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id is required"), nil
	}

	confirmed := req.GetBool("confirm", false)
	err = h.store.Remove(ctx, id, core.ConfirmFunc(func(context.Context, string) (bool, error) {
		return confirmed, nil
	}))
	if errors.Is(err, core.ErrNotConfirmed) {
		return mcp.NewToolResultError("not deleted: pass confirm=true to delete this note"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete note: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted note %s", id)), nil
}

func (h *handlers) requireAuth() *mcp.CallToolResult {
	if h.sess.IsAuthenticated() {
		return nil
	}
	return mcp.NewToolResultError("not logged in: run `inkwell login` first")
}

// Helper functions

func toResult(n core.Note) NoteResult {
	r := NoteResult{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Color:     string(n.Color),
		Tag:       n.Tag,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.UpdatedAt != nil {
		r.UpdatedAt = n.UpdatedAt.Format(time.RFC3339)
	}
	return r
}

func toResults(list []core.Note) []NoteResult {
	results := make([]NoteResult, len(list))
	for i, n := range list {
		results[i] = toResult(n)
	}
	return results
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}
