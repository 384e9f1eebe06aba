// Package testrun classifies edited files as test files, picks a test
// framework for the project, and runs a scoped or full-suite test command.
package testrun

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
)

// Language is a detected test-file language.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangGo         Language = "go"
	LangRust       Language = "rust"
)

type languageRule struct {
	Lang     Language
	Patterns []*regexp.Regexp
}

// languageRules are evaluated in declared order; the first pattern that
// matches a path decides that file's language. The patterns are unanchored
// searches against the full path, so a directory component can satisfy them.
var languageRules = []languageRule{
	{LangPython, []*regexp.Regexp{
		regexp.MustCompile(`test_.*\.py$`),
		regexp.MustCompile(`.*_test\.py$`),
	}},
	{LangJavaScript, []*regexp.Regexp{
		regexp.MustCompile(`.*\.test\.(js|ts|jsx|tsx)$`),
		regexp.MustCompile(`.*\.spec\.(js|ts|jsx|tsx)$`),
	}},
	{LangGo, []*regexp.Regexp{
		regexp.MustCompile(`.*_test\.go$`),
	}},
	{LangRust, []*regexp.Regexp{
		regexp.MustCompile(`tests/.*\.rs$`),
	}},
}

// MatchTestFile reports whether path looks like a test file and which
// language's rule matched first.
func MatchTestFile(path string) (Language, bool) {
	for _, rule := range languageRules {
		for _, p := range rule.Patterns {
			if p.MatchString(path) {
				return rule.Lang, true
			}
		}
	}
	return "", false
}

// ClassifyTestFiles filters paths down to existing test files and returns
// them with the run language: the language of the first file that matched,
// in touched-file order.
func ClassifyTestFiles(paths []string) ([]string, Language) {
	var files []string
	var lang Language
	for _, p := range paths {
		if p == "" {
			continue
		}
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		l, ok := MatchTestFile(p)
		if !ok {
			continue
		}
		files = append(files, p)
		if lang == "" {
			lang = l
		}
	}
	return files, lang
}

type frameworkRule struct {
	Lang   Language
	Detect func(projectDir string) (string, bool)
}

// frameworkRules map each language to its framework detection rule, evaluated
// deterministically in declared order. The detected framework is the shell
// invocation for a full-suite run.
var frameworkRules = []frameworkRule{
	{LangPython, detectPython},
	{LangJavaScript, detectJavaScript},
	{LangGo, func(string) (string, bool) { return "go test", true }},
	{LangRust, func(string) (string, bool) { return "cargo test", true }},
}

// DetectFramework resolves the test invocation for lang in projectDir.
func DetectFramework(lang Language, projectDir string) (string, bool) {
	for _, rule := range frameworkRules {
		if rule.Lang == lang {
			return rule.Detect(projectDir)
		}
	}
	return "", false
}

// detectPython picks pytest when a pytest-capable config file is present,
// otherwise the stdlib unittest runner.
func detectPython(projectDir string) (string, bool) {
	for _, marker := range []string{"pytest.ini", "pyproject.toml"} {
		if _, err := os.Stat(filepath.Join(projectDir, marker)); err == nil {
			return "pytest", true
		}
	}
	return "python -m unittest", true
}

// detectJavaScript checks package.json for a test script. Any read or parse
// failure is swallowed; "npm test" is the answer either way, the manifest
// check only exists to keep the choice honest when it is readable.
func detectJavaScript(projectDir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(projectDir, "package.json")) //nolint:gosec // G304: projectDir comes from the hook environment
	if err != nil {
		return "npm test", true
	}
	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return "npm test", true
	}
	if _, ok := manifest.Scripts["test"]; ok {
		return "npm test", true
	}
	return "npm test", true
}
