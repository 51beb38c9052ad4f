package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ktruong/todomd/internal/config"
	"github.com/ktruong/todomd/internal/errors"
	"github.com/ktruong/todomd/internal/ops"
	"github.com/ktruong/todomd/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "todomd",
		Usage:   "Markdown todo lists with groups, tags, and due dates",
		Version: Version,
		Commands: []*cli.Command{
			showCmd(cfg),
			listCmd(cfg),
			toggleCmd(db, cfg),
			dueCmd(db, cfg),
			foldCmd(db, cfg),
			fmtCmd(db, cfg),
			historyCmd(db),
			restoreCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// fileFlag is the per-command override for the configured todo file.
func fileFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Todo file path (overrides config)"}
}

// resolveFile picks the todo file: --file flag, else config.
func resolveFile(c *cli.Context, cfg *config.Config) string {
	if path := c.String("file"); path != "" {
		return path
	}
	return cfg.TodoFile
}

// showCmd creates the show command.
func showCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Show the full group tree with tasks",
		Flags: []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			doc, err := ops.LoadFromFile(cfg, resolveFile(c, cfg))
			if err != nil {
				return outputError(err)
			}
			return outputJSON(ops.Show(doc))
		},
	}
}

// listCmd creates the list command.
func listCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List tasks from the flat index with optional filters",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Filter by exact tag (without the leading +)"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status: pending|in_progress|completed"},
			&cli.BoolFlag{Name: "overdue", Usage: "Only tasks due before today and not completed"},
		},
		Action: func(c *cli.Context) error {
			doc, err := ops.LoadFromFile(cfg, resolveFile(c, cfg))
			if err != nil {
				return outputError(err)
			}

			output, err := ops.List(doc, ops.ListInput{
				Tag:     c.String("tag"),
				Status:  c.String("status"),
				Overdue: c.Bool("overdue"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// toggleCmd creates the toggle command.
func toggleCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "Cycle a task's status and save the file",
		ArgsUsage: "<line-or-id>",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			return mutateCommand(c, db, cfg, func(doc *ops.Document, ref ops.Ref) (any, error) {
				return ops.ToggleTask(doc, ref)
			})
		},
	}
}

// dueCmd creates the due command.
func dueCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "due",
		Usage:     "Stamp today's date as a task's due date and save the file",
		ArgsUsage: "<line-or-id>",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			return mutateCommand(c, db, cfg, func(doc *ops.Document, ref ops.Ref) (any, error) {
				return ops.StampDueToday(doc, ref)
			})
		},
	}
}

// foldCmd creates the fold command.
func foldCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "fold",
		Usage:     "Toggle a group's collapsed state and save the file",
		ArgsUsage: "<line-or-id>",
		Flags:     []cli.Flag{fileFlag()},
		Action: func(c *cli.Context) error {
			return mutateCommand(c, db, cfg, func(doc *ops.Document, ref ops.Ref) (any, error) {
				return ops.ToggleFold(doc, ref)
			})
		},
	}
}

// mutateCommand runs a ref-addressed mutation: parse ref, load, mutate,
// save, snapshot when configured, print JSON.
func mutateCommand(c *cli.Context, db *sql.DB, cfg *config.Config, fn func(*ops.Document, ops.Ref) (any, error)) error {
	if c.NArg() < 1 {
		return outputError(errors.NewInvalidRequest("a line number or task id argument is required"))
	}
	ref, err := ops.ParseRef(c.Args().First())
	if err != nil {
		return outputError(err)
	}

	path := resolveFile(c, cfg)
	doc, err := ops.LoadFromFile(cfg, path)
	if err != nil {
		return outputError(err)
	}

	result, err := fn(doc, ref)
	if err != nil {
		return outputError(err)
	}

	if err := ops.SaveToFile(doc, ""); err != nil {
		return outputError(err)
	}
	if cfg.SnapshotOnSave && db != nil {
		if _, err := ops.Snapshot(db, doc, cfg.KeepSnapshots); err != nil {
			return outputError(err)
		}
	}

	return outputJSON(result)
}

// fmtCmd creates the fmt command.
func fmtCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "fmt",
		Usage: "Rewrite the file in canonical form (parse and re-serialize)",
		Flags: []cli.Flag{
			fileFlag(),
			&cli.BoolFlag{Name: "stdout", Usage: "Print the canonical form instead of writing the file"},
		},
		Action: func(c *cli.Context) error {
			path := resolveFile(c, cfg)
			doc, err := ops.LoadFromFile(cfg, path)
			if err != nil {
				return outputError(err)
			}

			if c.Bool("stdout") {
				fmt.Print(ops.Render(doc))
				return nil
			}

			if err := ops.SaveToFile(doc, ""); err != nil {
				return outputError(err)
			}
			if cfg.SnapshotOnSave && db != nil {
				if _, err := ops.Snapshot(db, doc, cfg.KeepSnapshots); err != nil {
					return outputError(err)
				}
			}
			return outputJSON(map[string]any{
				"path":      path,
				"formatted": true,
				"tasks":     len(doc.Tasks),
			})
		},
	}
}

// historyCmd creates the history command.
func historyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List saved snapshots, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Filter snapshots by file path"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultHistoryLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.History(db, ops.HistoryInput{
				Path:   c.String("path"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// restoreCmd creates the restore command.
func restoreCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Write a snapshot's content back to its file",
		ArgsUsage: "<snapshot-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Target path override (defaults to the snapshot's own path)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("a snapshot id argument is required"))
			}

			output, err := ops.Restore(db, ops.RestoreInput{
				ID:   c.Args().First(),
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8321, Usage: "Port to listen on"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if tErr, ok := err.(*errors.TodoError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", tErr.Code, tErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
