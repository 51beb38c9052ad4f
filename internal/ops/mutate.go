package ops

import (
	"time"

	"github.com/ktruong/todomd/internal/todo"
)

// ToggleOutput reports the task after a status toggle.
type ToggleOutput struct {
	Task TaskView `json:"task"`
}

// ToggleTask cycles the status of the task addressed by ref. The
// mutation happens in place on the shared model; both the tree and the
// flat list observe it.
func ToggleTask(doc *Document, ref Ref) (*ToggleOutput, error) {
	task, err := doc.ResolveTask(ref)
	if err != nil {
		return nil, err
	}
	task.ToggleStatus()
	return &ToggleOutput{Task: buildTaskView(doc, task)}, nil
}

// StampDueOutput reports the task after a due date stamp.
type StampDueOutput struct {
	Task TaskView `json:"task"`
}

// StampDueToday stamps today's date on the task addressed by ref,
// rewriting the text's due token so the field and the raw line agree.
func StampDueToday(doc *Document, ref Ref) (*StampDueOutput, error) {
	return stampDue(doc, ref, time.Now().UTC())
}

// stampDue is the injectable-clock variant used by tests.
func stampDue(doc *Document, ref Ref, day time.Time) (*StampDueOutput, error) {
	task, err := doc.ResolveTask(ref)
	if err != nil {
		return nil, err
	}
	task.StampDueDate(day)
	return &StampDueOutput{Task: buildTaskView(doc, task)}, nil
}

// FoldOutput reports a group's collapsed state after a fold toggle.
type FoldOutput struct {
	ID        string `json:"id"`
	Line      int    `json:"line"`
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
}

// ToggleFold flips the collapsed flag of the group addressed by ref.
// Children keep their own flags. A collapsed group's subgroups are
// hidden from rendering and serialization, not deleted.
func ToggleFold(doc *Document, ref Ref) (*FoldOutput, error) {
	group, err := doc.ResolveGroup(ref)
	if err != nil {
		return nil, err
	}
	group.ToggleCollapsed()
	return &FoldOutput{
		ID:        group.ID,
		Line:      group.LineNumber,
		Name:      group.Name,
		Collapsed: group.Collapsed,
	}, nil
}

// statusFromString validates a status filter value.
func statusFromString(s string) (todo.Status, bool) {
	return todo.ParseStatus(s)
}
