package ops

import (
	"testing"
	"time"

	"github.com/ktruong/todomd/internal/errors"
)

func TestToggleTask_CyclesAndReports(t *testing.T) {
	doc := loadSample(t)

	out, err := ToggleTask(doc, Ref{Line: 2})
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if out.Task.Status != "in_progress" {
		t.Errorf("status = %q, want in_progress", out.Task.Status)
	}
	if out.Task.Group != "Work" {
		t.Errorf("group = %q, want Work", out.Task.Group)
	}

	// Visible through the tree as well.
	task, _ := doc.ResolveTask(Ref{Line: 2})
	if doc.Roots[0].Tasks[0] != task {
		t.Fatal("expected shared instance")
	}
}

func TestToggleTask_NotFound(t *testing.T) {
	doc := loadSample(t)
	if _, err := ToggleTask(doc, Ref{Line: 100}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestStampDueToday_RewritesText(t *testing.T) {
	doc := loadSample(t)
	day := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	out, err := stampDue(doc, Ref{Line: 2}, day)
	if err != nil {
		t.Fatalf("stampDue failed: %v", err)
	}
	if out.Task.DueDate != "2025-04-01" {
		t.Errorf("DueDate = %q", out.Task.DueDate)
	}
	if out.Task.Text != "buy milk +errands due:2025-04-01" {
		t.Errorf("Text = %q", out.Task.Text)
	}

	task, _ := doc.ResolveTask(Ref{Line: 2})
	if task.DueDate == nil || task.DueDate.Format("2006-01-02") != "2025-04-01" {
		t.Errorf("structured field inconsistent with text: %v", task.DueDate)
	}
}

func TestToggleFold(t *testing.T) {
	doc := loadSample(t)

	out, err := ToggleFold(doc, Ref{Line: 1})
	if err != nil {
		t.Fatalf("ToggleFold failed: %v", err)
	}
	if !out.Collapsed || out.Name != "Work" {
		t.Errorf("out = %+v", out)
	}

	// Children keep their own flags.
	alpha, _ := doc.ResolveGroup(Ref{Line: 4})
	if alpha.Collapsed {
		t.Error("child group must not be cascaded")
	}

	out, err = ToggleFold(doc, Ref{Line: 1})
	if err != nil {
		t.Fatalf("second ToggleFold failed: %v", err)
	}
	if out.Collapsed {
		t.Error("second toggle must un-collapse")
	}
}

func TestToggleFold_NotFound(t *testing.T) {
	doc := loadSample(t)
	if _, err := ToggleFold(doc, Ref{Line: 2}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("task line must not resolve as group: %v", err)
	}
}
