package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// ShowRequest represents the arguments for todo_show and todo_render.
type ShowRequest struct {
	Path string `json:"path,omitempty"`
}

// ListRequest represents the arguments for todo_list.
type ListRequest struct {
	Path    string `json:"path,omitempty"`
	Tag     string `json:"tag,omitempty"`
	Status  string `json:"status,omitempty"`
	Overdue bool   `json:"overdue,omitempty"`
}

// MutateRequest represents the arguments for todo_toggle, todo_due_today,
// and todo_fold.
type MutateRequest struct {
	Path string `json:"path,omitempty"`
	ID   string `json:"id,omitempty"`
	Line int    `json:"line,omitempty"`
}

// HistoryRequest represents the arguments for todo_history.
type HistoryRequest struct {
	Path   string `json:"path,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// RestoreRequest represents the arguments for todo_restore.
type RestoreRequest struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
}

// resolvePath applies the configured default file when the request does
// not name one.
func (h *Handlers) resolvePath(path string) string {
	if path != "" {
		return path
	}
	return h.cfg.TodoFile
}

// load reads and parses the addressed todo file.
func (h *Handlers) load(path string) (*ops.Document, error) {
	return ops.LoadFromFile(h.cfg, h.resolvePath(path))
}

// mutate runs fn against a freshly loaded document and saves the file.
// Every call is a whole-file load-mutate-save cycle; concurrent surfaces
// are not coordinated, the last writer wins.
func (h *Handlers) mutate(path string, fn func(*ops.Document) (any, error)) (any, error) {
	doc, err := h.load(path)
	if err != nil {
		return nil, err
	}
	result, err := fn(doc)
	if err != nil {
		return nil, err
	}
	if err := ops.SaveToFile(doc, ""); err != nil {
		return nil, err
	}
	if h.cfg.SnapshotOnSave && h.db != nil {
		if _, err := ops.Snapshot(h.db, doc, h.cfg.KeepSnapshots); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Handler implementations

// HandleShow handles the todo_show tool call.
func (h *Handlers) HandleShow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	doc, err := h.load(input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(ops.Show(doc))
}

// HandleList handles the todo_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	doc, err := h.load(input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.List(doc, ops.ListInput{
		Tag:     input.Tag,
		Status:  input.Status,
		Overdue: input.Overdue,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleToggle handles the todo_toggle tool call.
func (h *Handlers) HandleToggle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MutateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ref, err := ops.ValidateRef(input.ID, input.Line)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := h.mutate(input.Path, func(doc *ops.Document) (any, error) {
		return ops.ToggleTask(doc, ref)
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDueToday handles the todo_due_today tool call.
func (h *Handlers) HandleDueToday(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MutateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ref, err := ops.ValidateRef(input.ID, input.Line)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := h.mutate(input.Path, func(doc *ops.Document) (any, error) {
		return ops.StampDueToday(doc, ref)
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFold handles the todo_fold tool call.
func (h *Handlers) HandleFold(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MutateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	ref, err := ops.ValidateRef(input.ID, input.Line)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := h.mutate(input.Path, func(doc *ops.Document) (any, error) {
		return ops.ToggleFold(doc, ref)
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRender handles the todo_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ShowRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	doc, err := h.load(input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(map[string]any{
		"path":    doc.Path,
		"content": ops.Render(doc),
	})
}

// HandleHistory handles the todo_history tool call.
func (h *Handlers) HandleHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[HistoryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.History(h.db, ops.HistoryInput{
		Path:   input.Path,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRestore handles the todo_restore tool call.
func (h *Handlers) HandleRestore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RestoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Restore(h.db, ops.RestoreInput{
		ID:   input.ID,
		Path: input.Path,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to avoid leaking paths.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tErr, ok := err.(*errors.TodoError); ok {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
			"status":  tErr.Status,
		}
		if tErr.Code != errors.ErrInternal && tErr.Code != errors.ErrIO && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
