package ops

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"time"

	"github.com/ktruong/todomd/internal/db"
	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/todo"
)

// SnapshotOutput reports a recorded snapshot.
type SnapshotOutput struct {
	ID        string `json:"id"`
	Path      string `json:"path"`
	TaskCount int    `json:"task_count"`
	DoneCount int    `json:"done_count"`
	CreatedAt int64  `json:"created_at"`
}

// Snapshot records the document's serialized form in the history store.
// The snapshot captures the serialized view, so a collapsed group's
// subgroups are absent from it too. When keep is positive, older
// snapshots of the same path beyond that count are pruned.
func Snapshot(database *sql.DB, doc *Document, keep int) (*SnapshotOutput, error) {
	content := Render(doc)

	id, err := newULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	sum := sha256.Sum256([]byte(content))
	done := len(todo.TasksByStatus(doc.Tasks, todo.StatusCompleted))

	s := &db.Snapshot{
		ID:            id,
		Path:          doc.Path,
		Content:       content,
		ContentSHA256: hex.EncodeToString(sum[:]),
		TaskCount:     len(doc.Tasks),
		DoneCount:     done,
		CreatedAt:     time.Now().Unix(),
	}
	if err := db.InsertSnapshot(database, s); err != nil {
		return nil, err
	}
	if keep > 0 && doc.Path != "" {
		if _, err := db.PruneSnapshots(database, doc.Path, keep); err != nil {
			return nil, err
		}
	}

	return &SnapshotOutput{
		ID:        s.ID,
		Path:      s.Path,
		TaskCount: s.TaskCount,
		DoneCount: s.DoneCount,
		CreatedAt: s.CreatedAt,
	}, nil
}

// HistoryInput selects snapshots, newest first.
type HistoryInput struct {
	Path   string `json:"path,omitempty"` // empty: all files
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// HistoryOutput lists snapshot metadata.
type HistoryOutput struct {
	Items      []db.Snapshot `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// History lists recorded snapshots.
func History(database *sql.DB, input HistoryInput) (*HistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, total, err := db.ListSnapshots(database, input.Path, limit, offset)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}

// RestoreInput addresses a snapshot and an optional target path.
type RestoreInput struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"` // default: the snapshot's own path
}

// RestoreOutput reports a restored file.
type RestoreOutput struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Restored bool   `json:"restored"`
}

// Restore writes a snapshot's content back to disk, replacing the file
// whole. Last writer wins; there is no merge.
func Restore(database *sql.DB, input RestoreInput) (*RestoreOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("snapshot id is required")
	}

	s, err := db.GetSnapshot(database, input.ID)
	if err != nil {
		return nil, err
	}

	path := input.Path
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return nil, errors.NewInvalidRequest("snapshot has no path; specify one")
	}

	// Re-parse and re-serialize rather than writing the raw content, so a
	// restored file is always in canonical form.
	doc, err := LoadFromText(s.Content)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	if err := SaveToFile(doc, path); err != nil {
		return nil, err
	}

	return &RestoreOutput{ID: s.ID, Path: path, Restored: true}, nil
}
