package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != "todo.md" {
		t.Errorf("TodoFile = %q, want todo.md", cfg.TodoFile)
	}
	if cfg.MaxFileBytes != 1<<20 {
		t.Errorf("MaxFileBytes = %d", cfg.MaxFileBytes)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{"todo_file": "tasks.md", "snapshot_on_save": true}`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != "tasks.md" {
		t.Errorf("TodoFile = %q", cfg.TodoFile)
	}
	if !cfg.SnapshotOnSave {
		t.Error("SnapshotOnSave not applied")
	}
	if cfg.MaxFileBytes != 1<<20 {
		t.Errorf("unset scalar lost its default: %d", cfg.MaxFileBytes)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{not json`)

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestLoadWithRepo_RepoWinsScalars(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()
	nested := filepath.Join(repoRoot, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	writeConfig(t, globalDir, `{"todo_file": "global.md", "allowed_paths": ["/one"]}`)
	writeConfig(t, filepath.Join(repoRoot, ".todomd"), `{"todo_file": "repo.md", "allowed_paths": ["/two", "/one"]}`)

	cfg, err := LoadWithRepo(globalDir, nested)
	if err != nil {
		t.Fatalf("LoadWithRepo failed: %v", err)
	}
	if cfg.TodoFile != "repo.md" {
		t.Errorf("TodoFile = %q, want repo.md", cfg.TodoFile)
	}
	if len(cfg.AllowedPaths) != 2 {
		t.Errorf("AllowedPaths = %v, want merged+deduplicated", cfg.AllowedPaths)
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig = %q, want empty", got)
	}
}

func TestMerge_Booleans(t *testing.T) {
	base := &Config{AllowUnsafePaths: true}
	overlay := &Config{}
	if !Merge(base, overlay).AllowUnsafePaths {
		t.Error("boolean true in base must survive merge")
	}
}

func TestMerge_KeepSnapshots(t *testing.T) {
	base := &Config{KeepSnapshots: 10}
	if got := Merge(base, &Config{}).KeepSnapshots; got != 10 {
		t.Errorf("KeepSnapshots = %d, want base value 10", got)
	}
	if got := Merge(base, &Config{KeepSnapshots: 3}).KeepSnapshots; got != 3 {
		t.Errorf("KeepSnapshots = %d, want overlay value 3", got)
	}
}
