package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dotcommander/hookline/internal/app"
	"github.com/dotcommander/hookline/internal/hookio"
	"github.com/dotcommander/hookline/internal/models"
	"github.com/dotcommander/hookline/internal/rewrite"
	"github.com/dotcommander/hookline/internal/store"
	"github.com/dotcommander/hookline/internal/testrun"
)

// Environment variables the host sets for hook invocations. Each has a
// defined default so hooks behave sanely outside a session.
const (
	sessionIDEnv  = "CLAUDE_SESSION_ID"
	modelEnv      = "CLAUDE_MODEL"
	filePathsEnv  = "CLAUDE_FILE_PATHS"
	projectDirEnv = "CLAUDE_PROJECT_DIR"

	unknownValue = "unknown"
)

// NewHookCmd creates the hook parent command.
func NewHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hook",
		Short: "Hook handlers invoked by Claude Code lifecycle events",
		Args:  cobra.NoArgs,
	}

	// Hook handler subcommands — called by the hook system, not users directly.
	// Hidden from help output to reduce command surface noise.
	for _, sub := range []*cobra.Command{
		newRewriteGrepCmd(),
		newRewriteNpmCmd(),
		newTrackToolCmd(),
		newTrackSessionCmd(),
		newTrackSubagentCmd(),
		newTestRunCmd(),
	} {
		sub.Hidden = true
		cmd.AddCommand(sub)
	}

	return cmd
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newRewriteCmd builds a PreToolUse command-rewrite handler around fn.
// Non-Bash invocations and untriggered commands produce no output, which the
// host reads as "proceed unchanged".
func newRewriteCmd(use, short string, fn func(string) (string, bool)) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := hookio.Read(os.Stdin)
			if err != nil {
				return err
			}
			if in.ToolName != "Bash" {
				return nil
			}

			rewritten, ok := fn(in.Params().Command)
			if !ok {
				return nil
			}
			return hookio.WriteCommandUpdate(os.Stdout, hookio.EventPreToolUse, rewritten)
		},
	}
}

func newRewriteGrepCmd() *cobra.Command {
	return newRewriteCmd("rewrite-grep", "PreToolUse hook — substitutes rg for grep in Bash commands", rewrite.Grep)
}

func newRewriteNpmCmd() *cobra.Command {
	return newRewriteCmd("rewrite-npm", "PreToolUse hook — substitutes pnpm for npm in Bash commands", rewrite.Npm)
}

// newTrackToolCmd creates the PostToolUse logging handler. Store failures are
// returned, not swallowed: a logging hook with silent data loss would be worse
// than a visible failure, and the host treats this hook as fire-and-forget.
func newTrackToolCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "track-tool",
		Short:         "PostToolUse hook — logs every tool invocation to the analytics store",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := hookio.Read(os.Stdin)
			if err != nil {
				return err
			}

			toolType := in.ToolName
			if toolType == "" {
				toolType = unknownValue
			}
			params := in.Params()

			db, closeDB, err := openStore(app.ToolCallsDBPath, store.ToolCallsMigrations)
			if err != nil {
				return err
			}
			defer closeDB()

			_, err = store.InsertToolCall(db, &models.ToolCall{
				SessionID:   envOr(sessionIDEnv, unknownValue),
				ToolType:    toolType,
				FilePath:    params.FilePath,
				Command:     params.Command,
				Pattern:     params.Pattern,
				Description: params.Description,
				ParamsJSON:  in.RawToolInput(),
			})
			return err
		},
	}
}

// newTrackSessionCmd creates the SessionEnd summary handler. A broken or
// missing tool-call store degrades to zero statistics: session closeout must
// not fail because the log was never written.
func newTrackSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "track-session",
		Short:         "SessionEnd hook — upserts one summary row per session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := hookio.Read(os.Stdin); err != nil {
				return err
			}

			sessionID := envOr(sessionIDEnv, unknownValue)
			model := envOr(modelEnv, unknownValue)

			var stats store.SessionStats
			if db, closeDB, err := openStore(app.ToolCallsDBPath, store.ToolCallsMigrations); err != nil {
				slog.Warn("could not open tool-call store for session stats", "error", err)
			} else {
				s, aggErr := store.AggregateSession(db, sessionID)
				closeDB()
				if aggErr != nil {
					slog.Warn("could not aggregate session stats", "error", aggErr, "session_id", sessionID)
				} else {
					stats = s
				}
			}

			summary := fmt.Sprintf("Session completed: %d tools, %d files, %d commands",
				stats.ToolCount, stats.FileCount, stats.CommandCount)

			db, closeDB, err := openStore(app.SessionsDBPath, store.SessionsMigrations)
			if err != nil {
				return err
			}
			defer closeDB()

			if err := store.UpsertSession(db, &models.Session{
				ID:              sessionID,
				Model:           model,
				Summary:         summary,
				ToolCount:       stats.ToolCount,
				FileCount:       stats.FileCount,
				CommandCount:    stats.CommandCount,
				DurationSeconds: stats.DurationSeconds,
			}); err != nil {
				return err
			}

			slog.Info("session data saved", "summary", summary, "duration_seconds", stats.DurationSeconds)
			return nil
		},
	}
}

func newTrackSubagentCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "track-subagent",
		Short:         "SubagentStop hook — records completion of a delegated sub-task",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := hookio.Read(os.Stdin)
			if err != nil {
				return err
			}

			subagentType := in.SubagentType
			if subagentType == "" {
				subagentType = unknownValue
			}
			files := in.FilesModified
			if files == nil {
				files = []string{}
			}
			filesJSON, err := json.Marshal(files)
			if err != nil {
				return err
			}

			db, closeDB, err := openStore(app.SubagentsDBPath, store.SubagentsMigrations)
			if err != nil {
				return err
			}
			defer closeDB()

			if _, err := store.InsertSubagentSession(db, &models.SubagentSession{
				ParentSessionID:   envOr(sessionIDEnv, unknownValue),
				SubagentType:      subagentType,
				Summary:           in.Summary,
				FilesModifiedJSON: string(filesJSON),
				FileCount:         len(files),
			}); err != nil {
				return err
			}

			slog.Info("tracked subagent", "subagent_type", subagentType, "file_count", len(files))
			return nil
		},
	}
}

// newTestRunCmd creates the PostToolUse advisory test handler. Everything
// after the input parse is best-effort: the runner reports to stderr and the
// hook exits zero regardless of the test outcome.
func newTestRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "test-run",
		Short:         "PostToolUse hook — runs the project's tests after test-file edits",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := hookio.Read(os.Stdin)
			if err != nil {
				return err
			}
			if in.ToolName != "Edit" && in.ToolName != "Write" {
				return nil
			}

			paths := splitFilePaths(os.Getenv(filePathsEnv))
			if len(paths) == 0 {
				return nil
			}

			files, lang := testrun.ClassifyTestFiles(paths)
			if len(files) == 0 {
				return nil
			}

			projectDir := os.Getenv(projectDirEnv)
			if projectDir == "" {
				projectDir, _ = os.Getwd()
			}

			framework, ok := testrun.DetectFramework(lang, projectDir)
			if !ok {
				slog.Warn("could not detect test framework", "language", string(lang))
				return nil
			}

			runner := testrun.NewRunner(projectDir, app.TestTimeout())
			runner.Run(framework, files)
			return nil
		},
	}
}

func splitFilePaths(raw string) []string {
	var paths []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
