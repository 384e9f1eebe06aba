// Package rewrite substitutes one CLI tool for another in Bash commands
// before they execute.
package rewrite

import (
	"regexp"
	"strings"
)

// Rule is one ordered command rewrite. Rules run in declared order; the
// specific subcommand mappings must fire before the blanket token replacement,
// which would otherwise re-match text the earlier rules produced.
type Rule struct {
	Pattern *regexp.Regexp
	Replace string
}

var npmToken = regexp.MustCompile(`\bnpm\b`)

// npmRules map npm subcommands to their pnpm equivalents.
//
// RE2 has no lookahead, so the install-with-argument rule captures the first
// character of the package argument instead of the original (?!$)(?!-) guard;
// "npm install -g" and bare "npm install" fall through to their own rules.
var npmRules = []Rule{
	{regexp.MustCompile(`\bnpm\s+(?:install|i)\s+([^\s-])`), "pnpm add $1"},
	{regexp.MustCompile(`\bnpm\s+(?:install|i)\s+-g\b`), "pnpm add -g"},
	{regexp.MustCompile(`\bnpm\s+(?:uninstall|un)\b`), "pnpm remove"},
	{regexp.MustCompile(`\bnpm\s+(?:install|i)\s*$`), "pnpm install"},
	{regexp.MustCompile(`\bnpm\b`), "pnpm"},
}

// Npm rewrites word-bounded npm invocations to pnpm. The boolean reports
// whether the command triggered the rewriter at all; a triggered command
// always yields a response, even for the generic token fallback.
func Npm(command string) (string, bool) {
	if !npmToken.MatchString(command) {
		return command, false
	}
	out := command
	for _, r := range npmRules {
		out = r.Pattern.ReplaceAllString(out, r.Replace)
	}
	return out, true
}

// Grep replaces every occurrence of the substring "grep" with "rg".
//
// Deliberately substring-based, not word-bounded, unlike the npm rules above:
// "grepfoo" becomes "rgfoo". That asymmetry is long-standing observed behavior
// that downstream automation depends on, so it is preserved rather than fixed.
func Grep(command string) (string, bool) {
	if !strings.Contains(command, "grep") {
		return command, false
	}
	return strings.ReplaceAll(command, "grep", "rg"), true
}
