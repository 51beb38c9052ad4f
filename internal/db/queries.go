package db

import (
	"database/sql"

	"github.com/ktruong/todomd/internal/errors"
)

// Snapshot is one stored copy of a todo file.
type Snapshot struct {
	ID            string `json:"id"`
	Path          string `json:"path"`
	Content       string `json:"content,omitempty"`
	ContentSHA256 string `json:"content_sha256"`
	TaskCount     int    `json:"task_count"`
	DoneCount     int    `json:"done_count"`
	CreatedAt     int64  `json:"created_at"`
}

// InsertSnapshot stores a snapshot row.
func InsertSnapshot(database *sql.DB, s *Snapshot) error {
	query := `
		INSERT INTO snapshots (
			id, path, content, content_sha256, task_count, done_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := database.Exec(query,
		s.ID, s.Path, s.Content, s.ContentSHA256, s.TaskCount, s.DoneCount, s.CreatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by ULID, content included.
func GetSnapshot(database *sql.DB, id string) (*Snapshot, error) {
	query := `
		SELECT id, path, content, content_sha256, task_count, done_count, created_at
		FROM snapshots
		WHERE id = ?
	`
	var s Snapshot
	err := database.QueryRow(query, id).Scan(
		&s.ID, &s.Path, &s.Content, &s.ContentSHA256, &s.TaskCount, &s.DoneCount, &s.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("snapshot", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return &s, nil
}

// ListSnapshots returns snapshot metadata for a path, newest first.
// Content is not populated; fetch a single snapshot for that. An empty
// path lists snapshots across all files.
func ListSnapshots(database *sql.DB, path string, limit, offset int) ([]Snapshot, int, error) {
	where := ""
	args := []any{}
	if path != "" {
		where = " WHERE path = ?"
		args = append(args, path)
	}

	var total int
	if err := database.QueryRow("SELECT COUNT(*) FROM snapshots"+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	query := `
		SELECT id, path, content_sha256, task_count, done_count, created_at
		FROM snapshots` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`
	rows, err := database.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.Path, &s.ContentSHA256, &s.TaskCount, &s.DoneCount, &s.CreatedAt); err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return items, total, nil
}

// PruneSnapshots keeps the newest keep snapshots for a path and deletes
// the rest. Returns the number of rows removed.
func PruneSnapshots(database *sql.DB, path string, keep int) (int, error) {
	query := `
		DELETE FROM snapshots
		WHERE path = ? AND id NOT IN (
			SELECT id FROM snapshots
			WHERE path = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ?
		)
	`
	result, err := database.Exec(query, path, path, keep)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return int(n), nil
}
