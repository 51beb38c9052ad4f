package ops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
)

func TestLoadFromText_BuildsSharedIndex(t *testing.T) {
	doc := loadSample(t)

	if len(doc.Tasks) != 4 {
		t.Fatalf("tasks = %d, want 4", len(doc.Tasks))
	}
	if len(doc.Roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(doc.Roots))
	}

	// The flat index and the tree share instances.
	doc.Tasks[0].ToggleStatus()
	if doc.Roots[0].Tasks[0].Status != doc.Tasks[0].Status {
		t.Error("tree did not observe flat-list mutation")
	}
}

func TestLoadFromText_InvalidUTF8(t *testing.T) {
	_, err := LoadFromText("# ok\n- [ ] broken \xff\xfe")
	if !errors.Is(err, errors.ErrEncoding) {
		t.Errorf("err = %v, want ENCODING_ERROR", err)
	}
}

func TestLoadFromFile_AndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := config.DefaultConfig()
	doc, err := LoadFromFile(cfg, path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if doc.Path != path {
		t.Errorf("doc.Path = %q", doc.Path)
	}

	if _, err := ToggleTask(doc, Ref{Line: 2}); err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if err := SaveToFile(doc, ""); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	again, err := LoadFromFile(cfg, path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	task, err := again.ResolveTask(Ref{Line: 2})
	if err != nil {
		t.Fatalf("resolve after reload: %v", err)
	}
	if string(task.Status) != "in_progress" {
		t.Errorf("status after save/reload = %q", task.Status)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(config.DefaultConfig(), filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, errors.ErrIO) {
		t.Errorf("err = %v, want IO_ERROR", err)
	}
}

func TestLoadFromFile_TooLarge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.md")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 100)), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.MaxFileBytes = 10
	_, err := LoadFromFile(cfg, path)
	if !errors.Is(err, errors.ErrFileTooLarge) {
		t.Errorf("err = %v, want FILE_TOO_LARGE", err)
	}
}

func TestSaveToFile_NoPath(t *testing.T) {
	doc := loadSample(t)
	if err := SaveToFile(doc, ""); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	doc := loadSample(t)
	out := Render(doc)

	if !strings.Contains(out, "- [ ] buy milk +errands due:2025-01-15") {
		t.Errorf("task line lost: %q", out)
	}
	// Color annotation is absorbed into the model and not re-emitted.
	if strings.Contains(out, "#FF8000") {
		t.Errorf("color suffix re-emitted: %q", out)
	}
}
