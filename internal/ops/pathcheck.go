package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
)

// allowedExtensions are the file types the web surface may open or write.
// The CLI trusts its own user and does not go through this check.
var allowedExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// ValidatePath validates a file path coming from an untrusted surface
// (web upload, file selection). It rejects traversal, non-todo
// extensions, symlinks, and paths outside the working directory or the
// configured allowlist. AllowUnsafePaths bypasses the directory
// restriction but not the symlink or extension checks.
func ValidatePath(path string, cfg *config.Config) error {
	if path == "" {
		return errors.NewInvalidRequest("path is required")
	}

	if containsTraversal(path) {
		return errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}

	cleaned := filepath.Clean(path)
	if !allowedExtensions[strings.ToLower(filepath.Ext(cleaned))] {
		return errors.NewInvalidRequest("path must have a .md, .markdown, or .txt extension")
	}

	absPath, err := filepath.Abs(cleaned)
	if err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	// Symlink restrictions always apply.
	if info, err := os.Lstat(absPath); err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			return errors.NewInvalidRequest("path must not be a symlink")
		}
	}

	if cfg != nil && cfg.AllowUnsafePaths {
		return nil
	}

	allowedDirs, err := getAllowedDirs(cfg)
	if err != nil {
		return err
	}
	if !isUnderAllowedDir(absPath, allowedDirs) {
		return errors.NewInvalidRequest(
			fmt.Sprintf("path must be under an allowed directory; allowed: %v", allowedDirs))
	}

	return nil
}

// getAllowedDirs returns the working directory plus configured absolute
// allowed paths, cleaned.
func getAllowedDirs(cfg *config.Config) ([]string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to get working directory: %w", err))
	}

	dirs := []string{filepath.Clean(cwd)}
	if cfg != nil {
		for _, p := range cfg.AllowedPaths {
			if filepath.IsAbs(p) {
				dirs = append(dirs, filepath.Clean(p))
			}
		}
	}
	return dirs, nil
}

// isUnderAllowedDir checks if absPath is inside any allowed directory.
func isUnderAllowedDir(absPath string, allowedDirs []string) bool {
	for _, dir := range allowedDirs {
		rel, err := filepath.Rel(dir, absPath)
		if err != nil {
			continue
		}
		if rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// containsTraversal checks if path contains ".." directory traversal.
func containsTraversal(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part == ".." {
			return true
		}
	}
	if filepath.Separator != '/' {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return true
			}
		}
	}
	return false
}
