package todo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// colorPattern matches a trailing " #RRGGBB" color annotation on a header
// name, with optional trailing spaces.
var colorPattern = regexp.MustCompile(`\s+#([0-9A-Fa-f]{6})\s*$`)

// TaskGroup is a header-delimited node in the hierarchy. A group owns its
// direct tasks and child groups; Parent is a navigational back-reference
// only. A child's Level is strictly greater than its parent's, enforced by
// the parse algorithm.
type TaskGroup struct {
	// ID is a ULID assigned at parse time, stable for the session.
	ID string

	// Name is the display name with any trailing color annotation stripped.
	Name string

	// Level is the header depth 1-6 (count of leading '#').
	Level int

	// Color is the optional "#RRGGBB" annotation, uppercased.
	Color string

	Tasks    []*Task
	Children []*TaskGroup
	Parent   *TaskGroup

	// Collapsed hides descendants from serialization when true. It does
	// not cascade; each child keeps its own flag.
	Collapsed bool

	LineNumber int
}

// NewTaskGroup creates a group, extracting a trailing color annotation
// from name if present.
func NewTaskGroup(id, name string, level, lineNumber int) *TaskGroup {
	g := &TaskGroup{
		ID:         id,
		Name:       name,
		Level:      level,
		LineNumber: lineNumber,
	}
	g.parseColor()
	return g
}

// parseColor strips a trailing " #RRGGBB" suffix from Name into Color.
func (g *TaskGroup) parseColor() {
	if m := colorPattern.FindStringSubmatch(g.Name); m != nil {
		g.Color = "#" + strings.ToUpper(m[1])
		g.Name = strings.TrimSpace(colorPattern.ReplaceAllString(g.Name, ""))
	}
}

// AddTask appends a task to this group.
func (g *TaskGroup) AddTask(t *Task) {
	g.Tasks = append(g.Tasks, t)
}

// AddChild appends a child group and sets its back-reference.
func (g *TaskGroup) AddChild(child *TaskGroup) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

// AllTasks returns this group's tasks in depth-first pre-order. When
// includeChildren is false, only direct tasks are returned.
func (g *TaskGroup) AllTasks(includeChildren bool) []*Task {
	all := make([]*Task, 0, len(g.Tasks))
	all = append(all, g.Tasks...)
	if includeChildren {
		for _, child := range g.Children {
			all = append(all, child.AllTasks(true)...)
		}
	}
	return all
}

// ToggleCollapsed flips the collapsed flag. Children are unaffected.
func (g *TaskGroup) ToggleCollapsed() {
	g.Collapsed = !g.Collapsed
}

// ColorWithAlpha returns a CSS rgba() string derived from Color, or the
// empty string when the group has no color.
func (g *TaskGroup) ColorWithAlpha(alpha float64) string {
	if g.Color == "" {
		return ""
	}
	hex := strings.TrimPrefix(g.Color, "#")
	r, _ := strconv.ParseUint(hex[0:2], 16, 8)
	gr, _ := strconv.ParseUint(hex[2:4], 16, 8)
	b, _ := strconv.ParseUint(hex[4:6], 16, 8)
	return fmt.Sprintf("rgba(%d, %d, %d, %g)", r, gr, b, alpha)
}
