package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotcommander/hookline/internal/app"
	"github.com/dotcommander/hookline/internal/output"
	"github.com/dotcommander/hookline/internal/store"
)

// NewStatsCmd creates the stats command, a read-side summary of the
// analytics stores.
func NewStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize logged sessions and tool calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("top-files")

			type resp struct {
				Sessions        int                   `json:"sessions"`
				ToolCallsByType []store.ToolTypeCount `json:"tool_calls_by_type"`
				TopFiles        []string              `json:"top_files"`
			}
			var r resp

			db, closeDB, err := openStore(app.ToolCallsDBPath, store.ToolCallsMigrations)
			if err != nil {
				return err
			}
			r.ToolCallsByType, err = store.CountToolCallsByType(db)
			if err == nil {
				r.TopFiles, err = store.TopFiles(db, limit)
			}
			closeDB()
			if err != nil {
				return err
			}

			// The sessions store may simply not exist yet; that is zero sessions,
			// not a failure.
			if db, closeDB, err := openStore(app.SessionsDBPath, store.SessionsMigrations); err != nil {
				slog.Warn("could not open sessions store", "error", err)
			} else {
				n, countErr := store.CountSessions(db)
				closeDB()
				if countErr != nil {
					return countErr
				}
				r.Sessions = n
			}

			return output.PrintSuccess(r)
		},
	}

	cmd.Flags().Int("top-files", 10, "How many most-touched files to list")

	return cmd
}
