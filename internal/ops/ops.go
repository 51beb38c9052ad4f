// Package ops implements the operations consumed by every surface (CLI,
// web, MCP): load, render, save, in-place mutations, filters, and
// snapshot history. All of them go through the shared in-memory model in
// internal/todo; there is no coordination between concurrent surfaces,
// the last writer wins.
package ops

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/todo"
)

// Pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Document is a parsed todo file: the forest of groups plus the flat task
// index. The flat list and the tree share the same Task pointers, so
// mutating through either view is visible through the other.
type Document struct {
	Path  string
	Roots []*todo.TaskGroup
	Tasks []*todo.Task

	tasksByID    map[string]*todo.Task
	tasksByLine  map[int]*todo.Task
	groupsByID   map[string]*todo.TaskGroup
	groupsByLine map[int]*todo.TaskGroup
	groupOfTask  map[*todo.Task]*todo.TaskGroup
}

// newDocument indexes a parse result by ULID and by line number.
func newDocument(path string, roots []*todo.TaskGroup, tasks []*todo.Task) *Document {
	doc := &Document{
		Path:         path,
		Roots:        roots,
		Tasks:        tasks,
		tasksByID:    make(map[string]*todo.Task, len(tasks)),
		tasksByLine:  make(map[int]*todo.Task, len(tasks)),
		groupsByID:   make(map[string]*todo.TaskGroup),
		groupsByLine: make(map[int]*todo.TaskGroup),
		groupOfTask:  make(map[*todo.Task]*todo.TaskGroup),
	}
	for _, t := range tasks {
		doc.tasksByID[t.ID] = t
		doc.tasksByLine[t.LineNumber] = t
	}
	var walk func(gs []*todo.TaskGroup)
	walk = func(gs []*todo.TaskGroup) {
		for _, g := range gs {
			doc.groupsByID[g.ID] = g
			doc.groupsByLine[g.LineNumber] = g
			for _, t := range g.Tasks {
				doc.groupOfTask[t] = g
			}
			walk(g.Children)
		}
	}
	walk(roots)
	return doc
}

// Groups returns every group in depth-first pre-order.
func (d *Document) Groups() []*todo.TaskGroup {
	var out []*todo.TaskGroup
	var walk func(gs []*todo.TaskGroup)
	walk = func(gs []*todo.TaskGroup) {
		for _, g := range gs {
			out = append(out, g)
			walk(g.Children)
		}
	}
	walk(d.Roots)
	return out
}

// GroupOf returns the group owning the task, or nil for orphan tasks.
func (d *Document) GroupOf(t *todo.Task) *todo.TaskGroup {
	return d.groupOfTask[t]
}

// Ref addresses a task or group by exactly one of: the ULID assigned at
// parse time, or the source line number. Line numbers are the fragile
// handle (they shift on edits); ULIDs are stable within a session.
type Ref struct {
	ByID bool
	ID   string
	Line int
}

// ParseRef interprets a CLI argument as a reference: all digits means a
// line number, anything else a ULID.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Ref{}, errors.NewInvalidRequest("reference must not be empty")
	}
	if line, err := strconv.Atoi(s); err == nil {
		if line < 1 {
			return Ref{}, errors.NewInvalidRequest("line number must be >= 1")
		}
		return Ref{Line: line}, nil
	}
	return Ref{ByID: true, ID: s}, nil
}

// ValidateRef validates separate id/line fields (web and MCP requests)
// and returns a Ref. Exactly one addressing mode must be used.
func ValidateRef(id string, line int) (Ref, error) {
	id = strings.TrimSpace(id)
	hasID := id != ""
	hasLine := line != 0

	if hasID && hasLine {
		return Ref{}, errors.NewInvalidRequest("cannot specify both id and line; use one addressing mode")
	}
	if !hasID && !hasLine {
		return Ref{}, errors.NewInvalidRequest("must specify either id or line")
	}
	if hasID {
		return Ref{ByID: true, ID: id}, nil
	}
	if line < 1 {
		return Ref{}, errors.NewInvalidRequest("line number must be >= 1")
	}
	return Ref{Line: line}, nil
}

// String renders the reference for error messages.
func (r Ref) String() string {
	if r.ByID {
		return r.ID
	}
	return "line " + strconv.Itoa(r.Line)
}

// ResolveTask finds the task addressed by ref.
func (d *Document) ResolveTask(ref Ref) (*todo.Task, error) {
	if ref.ByID {
		if t, ok := d.tasksByID[ref.ID]; ok {
			return t, nil
		}
	} else if t, ok := d.tasksByLine[ref.Line]; ok {
		return t, nil
	}
	return nil, errors.NewNotFound("task", ref.String())
}

// ResolveGroup finds the group addressed by ref.
func (d *Document) ResolveGroup(ref Ref) (*todo.TaskGroup, error) {
	if ref.ByID {
		if g, ok := d.groupsByID[ref.ID]; ok {
			return g, nil
		}
	} else if g, ok := d.groupsByLine[ref.Line]; ok {
		return g, nil
	}
	return nil, errors.NewNotFound("group", ref.String())
}

// TaskView is the serializable projection of a task returned by
// operations.
type TaskView struct {
	ID         string   `json:"id"`
	Line       int      `json:"line"`
	Status     string   `json:"status"`
	Text       string   `json:"text"`
	Tags       []string `json:"tags,omitempty"`
	DueDate    string   `json:"due_date,omitempty"`
	Priority   string   `json:"priority,omitempty"`
	Group      string   `json:"group,omitempty"`
	GroupID    string   `json:"group_id,omitempty"`
	GroupColor string   `json:"group_color,omitempty"`
}

// GroupView is the serializable projection of a group and its subtree.
type GroupView struct {
	ID        string      `json:"id"`
	Line      int         `json:"line"`
	Name      string      `json:"name"`
	Level     int         `json:"level"`
	Color     string      `json:"color,omitempty"`
	Collapsed bool        `json:"collapsed,omitempty"`
	Tasks     []TaskView  `json:"tasks,omitempty"`
	Children  []GroupView `json:"children,omitempty"`
}

// buildTaskView projects a task, resolving its owning group through doc.
func buildTaskView(doc *Document, t *todo.Task) TaskView {
	v := TaskView{
		ID:       t.ID,
		Line:     t.LineNumber,
		Status:   string(t.Status),
		Text:     t.CleanText(),
		Tags:     t.Tags,
		Priority: t.Priority,
	}
	if t.DueDate != nil {
		v.DueDate = t.DueDate.Format(todo.DueDateLayout)
	}
	if g := doc.GroupOf(t); g != nil {
		v.Group = g.Name
		v.GroupID = g.ID
		v.GroupColor = g.Color
	}
	return v
}

// buildGroupView projects a group subtree.
func buildGroupView(doc *Document, g *todo.TaskGroup) GroupView {
	v := GroupView{
		ID:        g.ID,
		Line:      g.LineNumber,
		Name:      g.Name,
		Level:     g.Level,
		Color:     g.Color,
		Collapsed: g.Collapsed,
	}
	for _, t := range g.Tasks {
		tv := buildTaskView(doc, t)
		// Owning group is implied by nesting.
		tv.Group, tv.GroupID, tv.GroupColor = "", "", ""
		v.Tasks = append(v.Tasks, tv)
	}
	for _, child := range g.Children {
		v.Children = append(v.Children, buildGroupView(doc, child))
	}
	return v
}

// newULID generates a ULID for snapshots.
func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
