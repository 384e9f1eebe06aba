package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dotcommander/hookline/internal/deploy"
)

func resolveClaudeDir(cmd *cobra.Command) (string, error) {
	if dir, err := cmd.Flags().GetString("claude-dir"); err == nil && dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude"), nil
}

// NewDeployCmd creates the deploy command. A missing or empty source
// directory is a visible failure (non-zero exit): deployment must not
// silently no-op.
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Copy hook scripts to ~/.claude/hooks and register them in settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			claudeDir, err := resolveClaudeDir(cmd)
			if err != nil {
				return err
			}
			return deploy.Run(deploy.Config{
				SourceDir: source,
				ClaudeDir: claudeDir,
				Out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().String("source", "hooks", "Source directory of hook scripts")
	cmd.Flags().String("claude-dir", "", "Override Claude config directory (default: ~/.claude)")

	return cmd
}

// NewUndeployCmd creates the undeploy command, removing registrations whose
// command path lives under the deployed hooks directory.
func NewUndeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undeploy",
		Short: "Remove deployed hook registrations from settings.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			claudeDir, err := resolveClaudeDir(cmd)
			if err != nil {
				return err
			}
			return deploy.Remove(deploy.Config{
				ClaudeDir: claudeDir,
				Out:       cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().String("claude-dir", "", "Override Claude config directory (default: ~/.claude)")

	return cmd
}
