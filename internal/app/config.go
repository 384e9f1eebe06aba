package app

import (
	"os"
	"path/filepath"
)

// ConfigDir returns ~/.config/hookline/ on all platforms.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "hookline"), nil
}

// EnsureConfigDir creates the config directory and default config.yaml if missing.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	configFile := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return os.WriteFile(configFile, []byte(defaultConfig), 0600)
	}
	return nil
}

const defaultConfig = `# hookline configuration
# Run: hookline --help

# Optional: override the analytics directory holding the sqlite databases.
# Can also be set via HOOKLINE_ANALYTICS_DIR or --analytics-dir.
# analytics_dir: ~/.claude/analytics

# Optional: wall-clock timeout for the test-run hook, in seconds.
# test_timeout_seconds: 120
`
