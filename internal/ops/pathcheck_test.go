package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
)

func TestValidatePath_TraversalRejected(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name string
		path string
	}{
		{"parent traversal", "../todo.md"},
		{"deep traversal", "../../etc/todo.md"},
		{"mid-path traversal", "/tmp/../etc/todo.md"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePath(tc.path, cfg)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

func TestValidatePath_ExtensionRequired(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true

	for _, path := range []string{"/tmp/todo", "/tmp/todo.exe", "/tmp/todo.json"} {
		if err := ValidatePath(path, cfg); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("%s: err = %v, want INVALID_REQUEST", path, err)
		}
	}

	if err := ValidatePath("/tmp/todo.md", cfg); err != nil {
		t.Errorf("markdown path rejected: %v", err)
	}
}

func TestValidatePath_DirectoryRestriction(t *testing.T) {
	cfg := config.DefaultConfig()

	// Outside cwd and with no allowlist entry.
	if err := ValidatePath("/definitely/not/here/todo.md", cfg); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}

	// Allowlisted directory passes.
	dir := t.TempDir()
	cfg.AllowedPaths = []string{dir}
	if err := ValidatePath(filepath.Join(dir, "todo.md"), cfg); err != nil {
		t.Errorf("allowlisted path rejected: %v", err)
	}
}

func TestValidatePath_SymlinkRejectedEvenUnsafe(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.md")
	if err := os.WriteFile(target, []byte("# x"), 0o644); err != nil {
		t.Fatalf("write target: %v", err)
	}
	link := filepath.Join(dir, "link.md")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	if err := ValidatePath(link, cfg); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST for symlink", err)
	}
}

func TestValidatePath_Empty(t *testing.T) {
	if err := ValidatePath("", config.DefaultConfig()); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want INVALID_REQUEST", err)
	}
}
