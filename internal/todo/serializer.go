package todo

import "strings"

// Serialize walks the forest in depth-first pre-order and emits markdown
// lines, the inverse of parsing modulo two intentional normalizations: a
// group's color annotation is not re-emitted (it lives in the Color field
// after parsing), and a collapsed group's descendants are omitted
// entirely. Saving a collapsed view is therefore lossy unless the group is
// un-collapsed first.
func Serialize(roots []*TaskGroup) []string {
	var lines []string
	for _, root := range roots {
		lines = appendGroup(lines, root, 0)
		lines = append(lines, "")
	}
	return lines
}

// RenderText serializes the forest and joins it with newlines.
func RenderText(roots []*TaskGroup) string {
	return strings.Join(Serialize(roots), "\n")
}

// appendGroup emits one group's header, direct tasks, and (when not
// collapsed) its children. depth counts nesting below the root; tasks are
// indented two spaces per depth beyond zero.
func appendGroup(lines []string, g *TaskGroup, depth int) []string {
	lines = append(lines, strings.Repeat("#", g.Level)+" "+g.Name)

	indent := ""
	if depth > 0 {
		indent = strings.Repeat("  ", depth)
	}
	for _, t := range g.Tasks {
		lines = append(lines, indent+"- "+t.DisplayText())
	}

	if g.Collapsed {
		return lines
	}
	for _, child := range g.Children {
		lines = appendGroup(lines, child, depth+1)
	}
	return lines
}
