// Package todo implements the markdown todo model: tasks, groups, the
// line-oriented parser, the serializer, and read-only queries over the
// flat task list.
package todo

import (
	"regexp"
	"strings"
	"time"
)

// Status represents a task status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Marker returns the wire form of the status: "[ ]", "[/]", or "[x]".
func (s Status) Marker() string {
	switch s {
	case StatusInProgress:
		return "[/]"
	case StatusCompleted:
		return "[x]"
	default:
		return "[ ]"
	}
}

// StatusFromMarker maps a bracket character to a status.
// Unknown characters default to pending rather than failing.
func StatusFromMarker(ch byte) Status {
	switch ch {
	case '/':
		return StatusInProgress
	case 'x':
		return StatusCompleted
	default:
		return StatusPending
	}
}

// ParseStatus parses a status name ("pending", "in_progress", "completed").
// Returns false for unknown names.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	}
	return "", false
}

// DueDateLayout is the canonical due date form used in task text.
const DueDateLayout = "2006-01-02"

var (
	tagPattern      = regexp.MustCompile(`\+([a-zA-Z0-9_-]+)`)
	duePattern      = regexp.MustCompile(`due:(\d{4}-\d{2}-\d{2})`)
	dueTokenPattern = regexp.MustCompile(`\s*due:\d{4}-\d{2}-\d{2}`)
	priorityPattern = regexp.MustCompile(`\(([abc])\)`)
)

// Task is a single actionable line item. Metadata (tags, due date,
// priority) is extracted from Text, never removed from it; Text stays the
// literal source form except when StampDueDate rewrites the due token.
type Task struct {
	// ID is a ULID assigned at parse time. It is stable for the lifetime
	// of the in-memory model, unlike LineNumber which shifts on edits.
	ID string

	Text     string
	Status   Status
	Tags     []string
	DueDate  *time.Time
	Priority string // "a", "b", "c", or empty

	// LineNumber is the 1-based source position at parse time. Unique
	// within one parse pass; not stable across edits that add or remove
	// lines. Exposed as a display handle only.
	LineNumber int

	// IndentLevel is the count of leading whitespace characters on the
	// source line. Informational.
	IndentLevel int
}

// NewTask creates a task and extracts its metadata from text.
func NewTask(id, text string, status Status, lineNumber, indentLevel int) *Task {
	t := &Task{
		ID:          id,
		Text:        text,
		Status:      status,
		LineNumber:  lineNumber,
		IndentLevel: indentLevel,
	}
	t.ParseMetadata()
	return t
}

// ParseMetadata re-derives Tags, DueDate, and Priority from Text.
// Idempotent; must be called whenever Text changes. Tags collect every
// match in order (duplicates kept); due date and priority each take the
// first match only. A due token with an impossible calendar value is
// treated as absent.
func (t *Task) ParseMetadata() {
	t.Tags = nil
	for _, m := range tagPattern.FindAllStringSubmatch(t.Text, -1) {
		t.Tags = append(t.Tags, m[1])
	}

	t.DueDate = nil
	if m := duePattern.FindStringSubmatch(t.Text); m != nil {
		if d, err := time.Parse(DueDateLayout, m[1]); err == nil {
			t.DueDate = &d
		}
	}

	t.Priority = ""
	if m := priorityPattern.FindStringSubmatch(t.Text); m != nil {
		t.Priority = m[1]
	}
}

// ToggleStatus cycles pending → in progress → completed → pending.
// Text is untouched.
func (t *Task) ToggleStatus() {
	switch t.Status {
	case StatusPending:
		t.Status = StatusInProgress
	case StatusInProgress:
		t.Status = StatusCompleted
	default:
		t.Status = StatusPending
	}
}

// StampDueDate sets the due date to the given day and rewrites Text:
// any existing due token is removed and a canonical one is appended,
// separated by a single space. The structured field and the raw text end
// up consistent.
func (t *Task) StampDueDate(day time.Time) {
	t.Text = dueTokenPattern.ReplaceAllString(t.Text, "")
	t.Text += " due:" + day.Format(DueDateLayout)
	t.ParseMetadata()
}

// StampDueDateToday stamps the current calendar date.
func (t *Task) StampDueDateToday() {
	t.StampDueDate(time.Now().UTC())
}

// DisplayText returns the status marker followed by the raw text.
func (t *Task) DisplayText() string {
	return t.Status.Marker() + " " + t.Text
}

// CleanText returns the raw text with surrounding whitespace trimmed.
// Inline metadata tokens remain.
func (t *Task) CleanText() string {
	return strings.TrimSpace(t.Text)
}

// HasTag reports whether the task carries the exact tag.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}
