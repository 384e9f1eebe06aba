// Package deploy installs hook scripts into the Claude configuration
// directory and registers them in settings.json.
package deploy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dotcommander/hookline/internal/hookio"
)

// ErrNoHooks is returned when the source directory is missing or holds no
// deployable files. Deployment must not silently no-op.
var ErrNoHooks = errors.New("no hooks to deploy")

// Config carries the explicit paths a deployment operates on. Callers fill
// the defaults (cwd-relative source, ~/.claude destination); nothing in this
// package reads the environment.
type Config struct {
	SourceDir string
	ClaudeDir string
	Out       io.Writer
}

// HooksDir is the destination directory for hook scripts.
func (c Config) HooksDir() string { return filepath.Join(c.ClaudeDir, "hooks") }

// SettingsPath is the settings.json location under the Claude directory.
func (c Config) SettingsPath() string { return filepath.Join(c.ClaudeDir, "settings.json") }

// Registration is one {name, type, command} hook entry in settings.json.
type Registration struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Command string `json:"command"`
}

// Run performs one deployment: copy hook files, merge registrations, persist
// settings, print a summary. Returns ErrNoHooks when there is nothing to do.
func Run(cfg Config) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	if err := ensureDirs(cfg); err != nil {
		return err
	}

	sources, err := hookFiles(cfg.SourceDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(cfg.Out, "Found %d hook(s) to deploy\n", len(sources))

	deployed, err := copyHooks(cfg, sources)
	if err != nil {
		return err
	}

	settings, err := readSettings(cfg.SettingsPath())
	if err != nil {
		return err
	}

	mergeRegistrations(settings, inferRegistrations(deployed))

	if err := writeSettings(cfg.SettingsPath(), settings); err != nil {
		return err
	}

	printSummary(cfg.Out, settings, cfg.HooksDir())
	return nil
}

// Remove strips every registration whose command path lives under the
// destination hooks directory, leaving unrelated registrations untouched.
func Remove(cfg Config) error {
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}

	settings, err := readSettings(cfg.SettingsPath())
	if err != nil {
		return err
	}

	hooksObj, _ := settings["hooks"].(map[string]any)
	if hooksObj == nil {
		fmt.Fprintln(cfg.Out, "No hooks registered")
		return nil
	}

	prefix := cfg.HooksDir() + string(os.PathSeparator)
	removed := 0
	for eventType, rawGroups := range hooksObj {
		groups, ok := rawGroups.([]any)
		if !ok {
			continue
		}
		for _, rawGroup := range groups {
			group, ok := rawGroup.(map[string]any)
			if !ok {
				continue
			}
			entries, ok := group["hooks"].([]any)
			if !ok {
				continue
			}
			var kept []any
			for _, entry := range entries {
				entryMap, ok := entry.(map[string]any)
				if !ok {
					kept = append(kept, entry)
					continue
				}
				command, _ := entryMap["command"].(string)
				if strings.HasPrefix(command, prefix) {
					removed++
					continue
				}
				kept = append(kept, entry)
			}
			group["hooks"] = kept
		}
		hooksObj[eventType] = groups
	}

	if err := writeSettings(cfg.SettingsPath(), settings); err != nil {
		return err
	}

	fmt.Fprintf(cfg.Out, "Removed %d hook registration(s)\n", removed)
	return nil
}

func ensureDirs(cfg Config) error {
	for _, dir := range []string{cfg.ClaudeDir, cfg.HooksDir()} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// hookFiles enumerates deployable files in sourceDir, skipping directories
// and the Python package marker some hook collections carry.
func hookFiles(sourceDir string) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: source directory not found: %s", ErrNoHooks, sourceDir)
		}
		return nil, fmt.Errorf("read source directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == "__init__.py" {
			continue
		}
		files = append(files, filepath.Join(sourceDir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNoHooks, sourceDir)
	}
	sort.Strings(files)
	return files, nil
}

// copyHooks copies each source file into the hooks directory, marking script
// suffixes executable, and returns the destination paths.
func copyHooks(cfg Config, sources []string) ([]string, error) {
	var deployed []string
	for _, src := range sources {
		data, err := os.ReadFile(src) //nolint:gosec // G304: src enumerated from the configured source dir
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", src, err)
		}

		dest := filepath.Join(cfg.HooksDir(), filepath.Base(src))
		perm := os.FileMode(0644)
		switch filepath.Ext(dest) {
		case ".py", ".sh":
			perm = 0755
		}
		if err := os.WriteFile(dest, data, perm); err != nil {
			return nil, fmt.Errorf("write %s: %w", dest, err)
		}
		// WriteFile perm only applies to new files; re-deploys need the bits refreshed.
		if err := os.Chmod(dest, perm); err != nil {
			return nil, fmt.Errorf("chmod %s: %w", dest, err)
		}

		deployed = append(deployed, dest)
		fmt.Fprintf(cfg.Out, "Deployed: %s -> %s\n", filepath.Base(src), dest)
	}
	return deployed, nil
}

// InferEventType maps a hook filename to its lifecycle event. Priority:
// pre-invocation markers, then post-invocation, then prompt submission;
// anything else defaults to PreToolUse as the conservative choice.
func InferEventType(filename string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	switch {
	case strings.Contains(stem, "pre-tool"), strings.Contains(stem, "grep-to-rg"):
		return hookio.EventPreToolUse
	case strings.Contains(stem, "post-tool"):
		return hookio.EventPostToolUse
	case strings.Contains(stem, "prompt"):
		return hookio.EventUserPromptSubmit
	default:
		return hookio.EventPreToolUse
	}
}

// inferRegistrations groups deployed hook paths into per-event registrations.
func inferRegistrations(deployed []string) map[string][]Registration {
	byEvent := make(map[string][]Registration)
	for _, path := range deployed {
		event := InferEventType(path)
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		byEvent[event] = append(byEvent[event], Registration{
			Name:    name,
			Type:    "command",
			Command: path,
		})
	}
	return byEvent
}

func readSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is the well-known settings location
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return settings, nil
}

func writeSettings(path string, settings map[string]any) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

// mergeRegistrations folds new registrations into the settings document.
// For each event type the first group's hooks array is the merge target:
// entries whose command matches a redeployed command are dropped first, then
// the new registrations are appended. Re-running the deployer is therefore
// idempotent per hook without disturbing unrelated registrations.
func mergeRegistrations(settings map[string]any, byEvent map[string][]Registration) {
	hooksObj, _ := settings["hooks"].(map[string]any)
	if hooksObj == nil {
		hooksObj = map[string]any{}
	}

	for eventType, regs := range byEvent {
		groups, _ := hooksObj[eventType].([]any)
		if len(groups) == 0 {
			groups = []any{map[string]any{"hooks": []any{}}}
		}
		group, ok := groups[0].(map[string]any)
		if !ok {
			group = map[string]any{"hooks": []any{}}
			groups[0] = group
		}
		entries, _ := group["hooks"].([]any)

		newCommands := make(map[string]bool, len(regs))
		for _, reg := range regs {
			newCommands[reg.Command] = true
		}

		var kept []any
		for _, entry := range entries {
			entryMap, ok := entry.(map[string]any)
			if !ok {
				kept = append(kept, entry)
				continue
			}
			command, _ := entryMap["command"].(string)
			if newCommands[command] {
				continue
			}
			kept = append(kept, entry)
		}

		for _, reg := range regs {
			kept = append(kept, map[string]any{
				"name":    reg.Name,
				"type":    reg.Type,
				"command": reg.Command,
			})
		}

		group["hooks"] = kept
		hooksObj[eventType] = groups
	}

	settings["hooks"] = hooksObj
}

// printSummary lists registrations whose command lives under hooksDir,
// grouped by event type.
func printSummary(w io.Writer, settings map[string]any, hooksDir string) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "DEPLOYED HOOKS SUMMARY")
	fmt.Fprintln(w, strings.Repeat("=", 60))

	hooksObj, _ := settings["hooks"].(map[string]any)
	if len(hooksObj) == 0 {
		fmt.Fprintln(w, "No hooks configured")
		return
	}

	prefix := hooksDir + string(os.PathSeparator)

	eventTypes := make([]string, 0, len(hooksObj))
	for eventType := range hooksObj {
		eventTypes = append(eventTypes, eventType)
	}
	sort.Strings(eventTypes)

	for _, eventType := range eventTypes {
		groups, ok := hooksObj[eventType].([]any)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", eventType)
		for _, rawGroup := range groups {
			group, ok := rawGroup.(map[string]any)
			if !ok {
				continue
			}
			entries, _ := group["hooks"].([]any)
			for _, entry := range entries {
				entryMap, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				command, _ := entryMap["command"].(string)
				if !strings.HasPrefix(command, prefix) {
					continue
				}
				name, _ := entryMap["name"].(string)
				if name == "" {
					name = "unnamed"
				}
				fmt.Fprintf(w, "  - %s\n    %s\n", name, command)
			}
		}
	}

	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
}
