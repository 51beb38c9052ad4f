package ops

import (
	"time"

	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/todo"
)

// ListInput selects tasks from the flat index. Filters combine with AND;
// an empty input returns every task.
type ListInput struct {
	Tag     string `json:"tag,omitempty"`
	Status  string `json:"status,omitempty"` // pending | in_progress | completed
	Overdue bool   `json:"overdue,omitempty"`
}

// ListOutput is the filtered flat task list.
type ListOutput struct {
	Tasks []TaskView `json:"tasks"`
	Total int        `json:"total"`
}

// List applies read-only filters over the flat task index. Tasks are
// never mutated; the result is a fresh projection.
func List(doc *Document, input ListInput) (*ListOutput, error) {
	return listAt(doc, input, time.Now().UTC())
}

// listAt is the injectable-clock variant used by tests.
func listAt(doc *Document, input ListInput, now time.Time) (*ListOutput, error) {
	tasks := doc.Tasks

	if input.Tag != "" {
		tasks = todo.TasksByTag(tasks, input.Tag)
	}
	if input.Status != "" {
		status, ok := statusFromString(input.Status)
		if !ok {
			return nil, errors.NewInvalidRequest("status must be one of: pending, in_progress, completed")
		}
		tasks = todo.TasksByStatus(tasks, status)
	}
	if input.Overdue {
		tasks = todo.OverdueTasks(tasks, now)
	}

	out := &ListOutput{Total: len(tasks), Tasks: make([]TaskView, 0, len(tasks))}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, buildTaskView(doc, t))
	}
	return out, nil
}

// ShowOutput is the full tree projection plus orphan tasks (task lines
// that appear before any header).
type ShowOutput struct {
	Path    string      `json:"path,omitempty"`
	Groups  []GroupView `json:"groups"`
	Orphans []TaskView  `json:"orphans,omitempty"`
	Total   int         `json:"total_tasks"`
}

// Show projects the whole document tree.
func Show(doc *Document) *ShowOutput {
	out := &ShowOutput{Path: doc.Path, Total: len(doc.Tasks)}
	for _, root := range doc.Roots {
		out.Groups = append(out.Groups, buildGroupView(doc, root))
	}
	for _, t := range doc.Tasks {
		if doc.GroupOf(t) == nil {
			out.Orphans = append(out.Orphans, buildTaskView(doc, t))
		}
	}
	return out
}
