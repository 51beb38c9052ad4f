package todo

import (
	"crypto/rand"
	"regexp"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	// headerLinePattern matches "# name" through "###### name".
	headerLinePattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

	// taskLinePattern matches "- [ ] text" with optional leading
	// whitespace and one of ' ', '/', 'x' in the brackets.
	taskLinePattern = regexp.MustCompile(`^(\s*)-\s+\[([ /x])\]\s+(.+)$`)
)

// Parser builds a forest of task groups plus a flat task index from raw
// lines. The flat list and the tree share the same Task pointers, so a
// mutation through either view is visible through the other.
type Parser struct {
	// Roots is the forest of top-level groups from the last parse.
	Roots []*TaskGroup

	// Tasks is the flat task list from the last parse, in encounter
	// order. It includes tasks that appear before any header and so
	// belong to no group.
	Tasks []*Task

	entropy *ulid.MonotonicEntropy
}

// NewParser creates an empty parser.
func NewParser() *Parser {
	return &Parser{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// ParseText splits content into lines and parses them.
func (p *Parser) ParseText(content string) []*TaskGroup {
	return p.ParseLines(strings.Split(content, "\n"))
}

// ParseLines parses lines into a group hierarchy using a level stack.
// Prior state is discarded, so re-parsing is idempotent. The parser never
// fails on content shape: unparseable lines are skipped, unknown status
// markers default to pending, and malformed metadata is simply absent.
func (p *Parser) ParseLines(lines []string) []*TaskGroup {
	p.Roots = nil
	p.Tasks = nil

	var stack []*TaskGroup

	for i, raw := range lines {
		lineNum := i + 1
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := headerLinePattern.FindStringSubmatch(line); m != nil {
			level := len(m[1])
			group := NewTaskGroup(p.newID(), m[2], level, lineNum)

			// Pop until the stack top is strictly shallower, so a
			// same-or-higher-level header becomes a sibling or uncle,
			// never a child.
			for len(stack) > 0 && stack[len(stack)-1].Level >= level {
				stack = stack[:len(stack)-1]
			}

			if len(stack) > 0 {
				stack[len(stack)-1].AddChild(group)
			} else {
				p.Roots = append(p.Roots, group)
			}
			stack = append(stack, group)
			continue
		}

		if m := taskLinePattern.FindStringSubmatch(line); m != nil {
			task := NewTask(p.newID(), m[3], StatusFromMarker(m[2][0]), lineNum, len(m[1]))
			p.Tasks = append(p.Tasks, task)
			// A task before any header has no home group but still
			// appears in the flat list.
			if len(stack) > 0 {
				stack[len(stack)-1].AddTask(task)
			}
			continue
		}

		// Any other non-empty line is ignored.
	}

	return p.Roots
}

// newID generates a ULID for a parsed task or group. Position-independent
// identity; line numbers shift as soon as lines are added or removed.
func (p *Parser) newID() string {
	id, err := ulid.New(ulid.Timestamp(time.Now()), p.entropy)
	if err != nil {
		// Entropy exhaustion within one millisecond; fall back to a
		// fresh reader rather than failing the parse.
		p.entropy = ulid.Monotonic(rand.Reader, 0)
		id = ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy)
	}
	return id.String()
}
