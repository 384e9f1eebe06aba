package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	AnalyticsDir       string `yaml:"analytics_dir"`
	TestTimeoutSeconds int    `yaml:"test_timeout_seconds"`
}

const defaultTestTimeoutSeconds = 120

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// analyticsDirOverrideMu and analyticsDirOverride implement a mutex-protected
// process-wide override for the CLI --analytics-dir flag.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	analyticsDirOverrideMu sync.RWMutex
	analyticsDirOverride   string
)

// SetAnalyticsDirOverride sets a process-wide analytics directory override.
// Intended for CLI flag support (e.g. --analytics-dir).
func SetAnalyticsDirOverride(dir string) {
	analyticsDirOverrideMu.Lock()
	analyticsDirOverride = dir
	analyticsDirOverrideMu.Unlock()
}

func getAnalyticsDirOverride() string {
	analyticsDirOverrideMu.RLock()
	v := analyticsDirOverride
	analyticsDirOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/hookline/config.yaml
// 2) /etc/hookline/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}

		paths := []string{
			filepath.Join(dir, "config.yaml"),
			filepath.Join(string(os.PathSeparator), "etc", "hookline", "config.yaml"),
			"config.yaml",
		}
		for _, p := range paths {
			s, loadErr := loadSettingsFile(p)
			if loadErr == nil {
				settings = s
				return
			}
			if !errors.Is(loadErr, os.ErrNotExist) {
				settingsErr = loadErr
				return
			}
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// TestTimeout returns the effective test-run subprocess timeout.
// Invalid or missing config values fall back to the 120 s default.
func TestTimeout() time.Duration {
	s, err := LoadSettings()
	if err != nil || s.TestTimeoutSeconds <= 0 {
		return defaultTestTimeoutSeconds * time.Second
	}
	return time.Duration(s.TestTimeoutSeconds) * time.Second
}
