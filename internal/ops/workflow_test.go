package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/db"
)

// TestFullWorkflow exercises the complete lifecycle:
// load → show → toggle → stamp due → fold → save → snapshot → reload →
// un-collapse → restore
func TestFullWorkflow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo.md")
	require.NoError(t, os.WriteFile(path, []byte(sampleText), 0o644))

	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	defer database.Close()

	cfg := config.DefaultConfig()

	// 1. Load
	doc, err := LoadFromFile(cfg, path)
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 4)

	// 2. Show
	tree := Show(doc)
	require.Len(t, tree.Groups, 2)
	require.Equal(t, "Work", tree.Groups[0].Name)

	// 3. Toggle pending → in_progress
	toggled, err := ToggleTask(doc, Ref{Line: 2})
	require.NoError(t, err)
	require.Equal(t, "in_progress", toggled.Task.Status)

	// 4. Stamp a due date; text and field agree
	day := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	stamped, err := stampDue(doc, Ref{Line: 8}, day)
	require.NoError(t, err)
	require.Equal(t, "2025-05-20", stamped.Task.DueDate)
	require.Contains(t, stamped.Task.Text, "due:2025-05-20")

	// 5. Fold the Work subtree and save; Alpha's task disappears from disk
	folded, err := ToggleFold(doc, Ref{Line: 1})
	require.NoError(t, err)
	require.True(t, folded.Collapsed)
	require.NoError(t, SaveToFile(doc, ""))

	reloaded, err := LoadFromFile(cfg, path)
	require.NoError(t, err)
	require.Len(t, reloaded.Tasks, 3, "collapsed descendants are omitted on save")

	// 6. Un-collapse the in-memory tree and snapshot the full form
	_, err = ToggleFold(doc, Ref{Line: 1})
	require.NoError(t, err)
	snap, err := Snapshot(database, doc, 0)
	require.NoError(t, err)
	require.Equal(t, 4, snap.TaskCount)

	// 7. Restore the snapshot over the lossy save
	restored, err := Restore(database, RestoreInput{ID: snap.ID})
	require.NoError(t, err)
	require.True(t, restored.Restored)

	final, err := LoadFromFile(cfg, path)
	require.NoError(t, err)
	require.Len(t, final.Tasks, 4)

	// The toggle and due stamp survived the round trip.
	task, err := final.ResolveTask(Ref{Line: 2})
	require.NoError(t, err)
	require.Equal(t, "in_progress", string(task.Status))
}
