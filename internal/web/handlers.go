package web

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// resolvePath returns the todo file path for a request. An explicit
// ?path= value is untrusted and goes through ValidatePath; the
// configured default does not.
func (h *Handlers) resolvePath(r *http.Request) (string, error) {
	path := r.URL.Query().Get("path")
	if path == "" {
		return h.cfg.TodoFile, nil
	}
	if err := ops.ValidatePath(path, h.cfg); err != nil {
		return "", err
	}
	return path, nil
}

// save writes the document back and records a snapshot when configured.
func (h *Handlers) save(doc *ops.Document) error {
	if err := ops.SaveToFile(doc, ""); err != nil {
		return err
	}
	if h.cfg.SnapshotOnSave && h.db != nil {
		if _, err := ops.Snapshot(h.db, doc, h.cfg.KeepSnapshots); err != nil {
			return err
		}
	}
	return nil
}

// HandleTodo handles GET /todo — the tree page, with optional filters.
func (h *Handlers) HandleTodo(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolvePath(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	doc, err := ops.LoadFromFile(h.cfg, path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	q := r.URL.Query()
	tag := q.Get("tag")
	status := q.Get("status")
	overdue := parseBoolParam(r, "overdue")
	filtered := tag != "" || status != "" || overdue

	tree := ops.Show(doc)
	data := TodoPageData{
		PageData: PageData{
			Title:   "Todo",
			Version: h.renderer.version,
			Nav:     "todo",
		},
		Path:     path,
		Groups:   tree.Groups,
		Orphans:  tree.Orphans,
		Total:    tree.Total,
		Tag:      tag,
		Status:   status,
		Overdue:  overdue,
		Filtered: filtered,
	}

	if filtered {
		result, err := ops.List(doc, ops.ListInput{Tag: tag, Status: status, Overdue: overdue})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Tasks = result.Tasks
	}

	h.renderer.renderPage(w, "todo", data)
}

// HandleToggle handles POST /api/tasks/{line}/toggle.
func (h *Handlers) HandleToggle(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, func(doc *ops.Document, ref ops.Ref) (any, error) {
		return ops.ToggleTask(doc, ref)
	})
}

// HandleDueToday handles POST /api/tasks/{line}/due-today.
func (h *Handlers) HandleDueToday(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, func(doc *ops.Document, ref ops.Ref) (any, error) {
		return ops.StampDueToday(doc, ref)
	})
}

// HandleFold handles POST /api/groups/{line}/fold.
func (h *Handlers) HandleFold(w http.ResponseWriter, r *http.Request) {
	h.mutateTask(w, r, func(doc *ops.Document, ref ops.Ref) (any, error) {
		return ops.ToggleFold(doc, ref)
	})
}

// mutateTask runs a line-addressed mutation: load, mutate, save, JSON out.
func (h *Handlers) mutateTask(w http.ResponseWriter, r *http.Request, fn func(*ops.Document, ops.Ref) (any, error)) {
	line, err := strconv.Atoi(r.PathValue("line"))
	if err != nil || line < 1 {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("line must be a positive integer"))
		return
	}

	path, err := h.resolvePath(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	doc, err := ops.LoadFromFile(h.cfg, path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := fn(doc, ops.Ref{Line: line})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := h.save(doc); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	renderJSON(w, http.StatusOK, result)
}

// HandlePreview handles GET /preview — goldmark-rendered HTML of the raw file.
func (h *Handlers) HandlePreview(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolvePath(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	content, err := readRaw(h.cfg, path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, "preview", PreviewPageData{
		PageData: PageData{
			Title:   "Preview",
			Version: h.renderer.version,
			Nav:     "preview",
		},
		Path:         path,
		RenderedHTML: renderMarkdown(content),
	})
}

// HandleFile handles GET /file — the raw content editor page, or the raw
// content as JSON for Accept: application/json.
func (h *Handlers) HandleFile(w http.ResponseWriter, r *http.Request) {
	path, err := h.resolvePath(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	content, err := readRaw(h.cfg, path)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"path": path, "content": content})
		return
	}

	h.renderer.renderPage(w, "file", FilePageData{
		PageData: PageData{
			Title:   "Edit",
			Version: h.renderer.version,
			Nav:     "file",
		},
		Path:    path,
		Content: content,
	})
}

// HandleSaveFile handles POST /file — write raw content back. The content
// is checked for UTF-8 but deliberately NOT forced through the model, so
// hand-written layouts survive a raw save.
func (h *Handlers) HandleSaveFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	path, err := h.resolvePath(r)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	content := r.FormValue("content")
	if !utf8.ValidString(content) {
		h.renderer.renderError(w, r, errors.NewEncoding("content is not valid UTF-8 text"))
		return
	}
	if h.cfg.MaxFileBytes > 0 && int64(len(content)) > h.cfg.MaxFileBytes {
		h.renderer.renderError(w, r, errors.NewFileTooLarge(h.cfg.MaxFileBytes, int64(len(content))))
		return
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		h.renderer.renderError(w, r, errors.NewIO("write todo file", err))
		return
	}

	if h.cfg.SnapshotOnSave && h.db != nil {
		if doc, err := ops.LoadFromFile(h.cfg, path); err == nil {
			_, _ = ops.Snapshot(h.db, doc, h.cfg.KeepSnapshots)
		}
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"path": path, "saved": true})
		return
	}
	http.Redirect(w, r, "/todo", http.StatusFound)
}

// HandleHistory handles GET /api/history — snapshot listing as JSON.
func (h *Handlers) HandleHistory(w http.ResponseWriter, r *http.Request) {
	result, err := ops.History(h.db, ops.HistoryInput{
		Path:   r.URL.Query().Get("path"),
		Limit:  parseIntParam(r, "limit", ops.DefaultHistoryLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleRestore handles POST /api/snapshots/{id}/restore.
func (h *Handlers) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("snapshot ID is required"))
		return
	}

	result, err := ops.Restore(h.db, ops.RestoreInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// readRaw reads the file's raw content with the same size and encoding
// checks the model load applies.
func readRaw(cfg *config.Config, path string) (string, error) {
	if cfg != nil && cfg.MaxFileBytes > 0 {
		if info, err := os.Stat(path); err == nil && info.Size() > cfg.MaxFileBytes {
			return "", errors.NewFileTooLarge(cfg.MaxFileBytes, info.Size())
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIO("read todo file", err)
	}
	if !utf8.Valid(data) {
		return "", errors.NewEncoding("file is not valid UTF-8 text")
	}
	return string(data), nil
}

// wantsJSON reports whether the client asked for a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
