package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Well-known database filenames under the analytics directory. The three
// stores are independent files so hooks never contend on tables they don't
// write.
const (
	ToolCallsDBName = "tool_calls.db"
	SessionsDBName  = "sessions.db"
	SubagentsDBName = "subagent_sessions.db"
)

// AnalyticsDir resolves the analytics directory.
// Order of precedence:
// 1) CLI override (--analytics-dir)
// 2) Environment variable: HOOKLINE_ANALYTICS_DIR
// 3) config.yaml: analytics_dir
// 4) Default: ~/.claude/analytics
func AnalyticsDir() (string, error) {
	if override := getAnalyticsDirOverride(); override != "" {
		return override, nil
	}

	if envDir := os.Getenv("HOOKLINE_ANALYTICS_DIR"); envDir != "" {
		return envDir, nil
	}

	cfg, err := LoadSettings()
	if err != nil {
		return "", fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.AnalyticsDir != "" {
		return cfg.AnalyticsDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "analytics"), nil
}

// EnsureDBDir creates the parent directory of dbPath and returns dbPath.
func EnsureDBDir(dbPath string) (string, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	return dbPath, nil
}

func analyticsDBPath(name string) (string, error) {
	dir, err := AnalyticsDir()
	if err != nil {
		return "", err
	}
	return EnsureDBDir(filepath.Join(dir, name))
}

// ToolCallsDBPath resolves the tool-call log database path.
func ToolCallsDBPath() (string, error) { return analyticsDBPath(ToolCallsDBName) }

// SessionsDBPath resolves the session summary database path.
func SessionsDBPath() (string, error) { return analyticsDBPath(SessionsDBName) }

// SubagentsDBPath resolves the subagent session database path.
func SubagentsDBPath() (string, error) { return analyticsDBPath(SubagentsDBName) }
