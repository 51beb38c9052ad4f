package todo

import "time"

// Read-only filters over the flat task list. All return fresh slices and
// never mutate the tasks they are given.

// TasksByTag returns tasks carrying the exact tag.
func TasksByTag(tasks []*Task, tag string) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.HasTag(tag) {
			out = append(out, t)
		}
	}
	return out
}

// TasksByStatus returns tasks with the given status.
func TasksByStatus(tasks []*Task, status Status) []*Task {
	var out []*Task
	for _, t := range tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// OverdueTasks returns tasks whose due date is strictly before today and
// whose status is not completed.
func OverdueTasks(tasks []*Task, today time.Time) []*Task {
	day, _ := time.Parse(DueDateLayout, today.Format(DueDateLayout))
	var out []*Task
	for _, t := range tasks {
		if t.DueDate != nil && t.DueDate.Before(day) && t.Status != StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}
