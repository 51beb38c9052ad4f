package todo

import (
	"testing"
	"time"
)

func TestParseMetadata_TagsDueAndPriority(t *testing.T) {
	task := NewTask("t1", "buy milk +errands due:2025-01-15", StatusPending, 1, 0)

	if task.Status != StatusPending {
		t.Errorf("Status = %q, want %q", task.Status, StatusPending)
	}
	if len(task.Tags) != 1 || task.Tags[0] != "errands" {
		t.Errorf("Tags = %v, want [errands]", task.Tags)
	}
	if task.DueDate == nil || task.DueDate.Format(DueDateLayout) != "2025-01-15" {
		t.Errorf("DueDate = %v, want 2025-01-15", task.DueDate)
	}
	if task.Priority != "" {
		t.Errorf("Priority = %q, want empty", task.Priority)
	}
}

func TestParseMetadata_DuplicateTagsKeptInOrder(t *testing.T) {
	task := NewTask("t1", "+a ship it +b then +a again", StatusPending, 1, 0)
	want := []string{"a", "b", "a"}
	if len(task.Tags) != len(want) {
		t.Fatalf("Tags = %v, want %v", task.Tags, want)
	}
	for i := range want {
		if task.Tags[i] != want[i] {
			t.Errorf("Tags[%d] = %q, want %q", i, task.Tags[i], want[i])
		}
	}
}

func TestParseMetadata_FirstMatchWinsForDueAndPriority(t *testing.T) {
	task := NewTask("t1", "(b) thing (a) due:2025-01-01 due:2025-02-02", StatusPending, 1, 0)
	if task.Priority != "b" {
		t.Errorf("Priority = %q, want %q", task.Priority, "b")
	}
	if task.DueDate == nil || task.DueDate.Format(DueDateLayout) != "2025-01-01" {
		t.Errorf("DueDate = %v, want 2025-01-01", task.DueDate)
	}
}

func TestParseMetadata_InvalidDateIsAbsent(t *testing.T) {
	task := NewTask("t1", "impossible due:2025-13-40", StatusPending, 1, 0)
	if task.DueDate != nil {
		t.Errorf("DueDate = %v, want nil for invalid calendar value", task.DueDate)
	}
}

func TestParseMetadata_Idempotent(t *testing.T) {
	task := NewTask("t1", "work +proj (a) due:2025-06-01", StatusPending, 1, 0)

	tags := append([]string(nil), task.Tags...)
	due := *task.DueDate
	prio := task.Priority

	task.ParseMetadata()

	if len(task.Tags) != len(tags) || task.Tags[0] != tags[0] {
		t.Errorf("Tags changed on re-run: %v vs %v", task.Tags, tags)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("DueDate changed on re-run: %v vs %v", task.DueDate, due)
	}
	if task.Priority != prio {
		t.Errorf("Priority changed on re-run: %q vs %q", task.Priority, prio)
	}
}

func TestToggleStatus_CycleLengthThree(t *testing.T) {
	task := NewTask("t1", "cycle me", StatusPending, 1, 0)
	text := task.Text

	task.ToggleStatus()
	if task.Status != StatusInProgress {
		t.Errorf("after 1 toggle: %q, want %q", task.Status, StatusInProgress)
	}
	task.ToggleStatus()
	if task.Status != StatusCompleted {
		t.Errorf("after 2 toggles: %q, want %q", task.Status, StatusCompleted)
	}
	task.ToggleStatus()
	if task.Status != StatusPending {
		t.Errorf("after 3 toggles: %q, want %q", task.Status, StatusPending)
	}
	if task.Text != text {
		t.Errorf("Text changed by toggle: %q", task.Text)
	}
}

func TestStampDueDate_ReplacesExistingToken(t *testing.T) {
	task := NewTask("t1", "pay rent due:2020-01-01 +bills", StatusPending, 1, 0)
	day := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)

	task.StampDueDate(day)

	if task.Text != "pay rent +bills due:2025-03-09" {
		t.Errorf("Text = %q", task.Text)
	}
	if task.DueDate == nil || task.DueDate.Format(DueDateLayout) != "2025-03-09" {
		t.Errorf("DueDate = %v, want 2025-03-09", task.DueDate)
	}
}

func TestStampDueDate_AppendsWhenAbsent(t *testing.T) {
	task := NewTask("t1", "call dentist", StatusPending, 1, 0)
	day := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	task.StampDueDate(day)

	if task.Text != "call dentist due:2025-12-31" {
		t.Errorf("Text = %q", task.Text)
	}
}

func TestDisplayAndCleanText(t *testing.T) {
	task := NewTask("t1", "  padded +tag", StatusInProgress, 1, 0)
	if got := task.DisplayText(); got != "[/]   padded +tag" {
		t.Errorf("DisplayText = %q", got)
	}
	if got := task.CleanText(); got != "padded +tag" {
		t.Errorf("CleanText = %q", got)
	}
}
