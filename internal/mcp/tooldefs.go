package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Tasks and groups are addressed by exactly one of the
// session ULID ("id") or the 1-based source line number ("line"). Line
// numbers shift when lines are added or removed, so clients should
// re-read the tree before addressing by line after any mutation.

var pathDesc = "Todo file path. Defaults to the configured todo_file."

var showToolDef = mcp.NewTool("todo_show",
	mcp.WithDescription("Read the todo file and return the full group tree plus orphan tasks."),
	mcp.WithString("path", mcp.Description(pathDesc)),
)

var listToolDef = mcp.NewTool("todo_list",
	mcp.WithDescription("List tasks from the flat index with optional filters (AND-combined)."),
	mcp.WithString("path", mcp.Description(pathDesc)),
	mcp.WithString("tag", mcp.Description("Exact tag to filter by (without the leading +).")),
	mcp.WithString("status", mcp.Description("Status filter: pending, in_progress, or completed.")),
	mcp.WithBoolean("overdue", mcp.Description("Only tasks due strictly before today and not completed.")),
)

var toggleToolDef = mcp.NewTool("todo_toggle",
	mcp.WithDescription("Cycle a task's status (pending → in_progress → completed → pending) and save the file."),
	mcp.WithString("path", mcp.Description(pathDesc)),
	mcp.WithString("id", mcp.Description("Task ULID from a previous todo_show/todo_list call.")),
	mcp.WithNumber("line", mcp.Description("1-based source line number of the task.")),
)

var dueTodayToolDef = mcp.NewTool("todo_due_today",
	mcp.WithDescription("Stamp today's date as the task's due date, rewriting its due: token, and save the file."),
	mcp.WithString("path", mcp.Description(pathDesc)),
	mcp.WithString("id", mcp.Description("Task ULID from a previous todo_show/todo_list call.")),
	mcp.WithNumber("line", mcp.Description("1-based source line number of the task.")),
)

var foldToolDef = mcp.NewTool("todo_fold",
	mcp.WithDescription("Toggle a group's collapsed state and save the file. Saving a collapsed group omits its subgroups from the file."),
	mcp.WithString("path", mcp.Description(pathDesc)),
	mcp.WithString("id", mcp.Description("Group ULID from a previous todo_show call.")),
	mcp.WithNumber("line", mcp.Description("1-based source line number of the group header.")),
)

var renderToolDef = mcp.NewTool("todo_render",
	mcp.WithDescription("Return the canonical serialized markdown of the todo file."),
	mcp.WithString("path", mcp.Description(pathDesc)),
)

var historyToolDef = mcp.NewTool("todo_history",
	mcp.WithDescription("List saved snapshots of the todo file, newest first."),
	mcp.WithString("path", mcp.Description("Filter snapshots by file path. Empty lists all files.")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Items to skip.")),
)

var restoreToolDef = mcp.NewTool("todo_restore",
	mcp.WithDescription("Write a snapshot's content back to its file, replacing it whole."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Snapshot ULID from todo_history.")),
	mcp.WithString("path", mcp.Description("Target path override. Defaults to the snapshot's own path.")),
)
