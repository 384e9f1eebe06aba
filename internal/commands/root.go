package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotcommander/hookline/internal/app"
	"github.com/dotcommander/hookline/internal/output"
)

// Execute runs the CLI application.
func Execute(version string) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:           "hookline",
		Short:         "Claude Code lifecycle hooks with local sqlite analytics",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				type resp struct {
					Version string `json:"version"`
				}
				return output.PrintSuccess(resp{Version: version})
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.EnsureConfigDir(); err != nil {
				return err
			}

			// Wire --analytics-dir into the app-level resolver.
			if dir, err := cmd.Flags().GetString("analytics-dir"); err == nil && dir != "" {
				app.SetAnalyticsDirOverride(dir)
			}

			return nil
		},
	}

	root.PersistentFlags().String("analytics-dir", "", "Override analytics directory (default: $HOOKLINE_ANALYTICS_DIR or ~/.claude/analytics)")
	root.Flags().BoolP("version", "v", false, "version for hookline")

	root.AddCommand(NewHookCmd())
	root.AddCommand(NewDeployCmd())
	root.AddCommand(NewUndeployCmd())
	root.AddCommand(NewStatsCmd())

	err := root.Execute()
	if err != nil {
		slog.Error("command failed", "error", err.Error())
	}
	return err
}
