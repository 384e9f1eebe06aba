package testrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// maxScopedFiles is the cutoff for targeted runs: more touched test files
// than this and the full suite runs instead.
const maxScopedFiles = 3

// failTailLines is how many trailing non-blank output lines are shown after
// a failing run.
const failTailLines = 20

// Runner executes one advisory test run. It reports to Stderr and never
// returns an error: test failures, timeouts, and execution faults must not
// propagate to the host.
type Runner struct {
	ProjectDir string
	Timeout    time.Duration
	Stderr     io.Writer
}

// NewRunner returns a Runner with defaults filled in.
func NewRunner(projectDir string, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Runner{ProjectDir: projectDir, Timeout: timeout, Stderr: os.Stderr}
}

// BuildCommand resolves the shell invocation for framework given the touched
// test files. At most maxScopedFiles files get a targeted run; cargo has no
// per-file scoping so it always runs the full suite.
func BuildCommand(framework string, files []string) string {
	if len(files) > maxScopedFiles {
		return framework
	}
	switch {
	case strings.Contains(framework, "pytest"):
		return "pytest " + strings.Join(files, " ") + " -v"
	case strings.Contains(framework, "npm test"):
		return fmt.Sprintf("npm test -- --testPathPattern=%q", files[0])
	case strings.Contains(framework, "go test"):
		return "go test -v " + strings.Join(files, " ")
	case strings.Contains(framework, "cargo test"):
		return "cargo test"
	default:
		return framework
	}
}

// Run builds the command, executes it in the project directory, and writes a
// condensed pass/fail report to Stderr.
func (r *Runner) Run(framework string, files []string) {
	command := BuildCommand(framework, files)
	fmt.Fprintf(r.Stderr, "\n[test-runner] Running tests: %s\n", command)

	output, err := r.execute(command)
	switch {
	case err == nil:
		r.report(framework, output, true)
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(r.Stderr, "[test-runner] Tests timed out after %s\n", r.Timeout)
	case isExitError(err):
		r.report(framework, output, false)
	default:
		fmt.Fprintf(r.Stderr, "[test-runner] Error running tests: %v\n", err)
	}
}

// execute runs command through the shell with the configured timeout,
// capturing combined stdout and stderr. On timeout the child is killed and
// context.DeadlineExceeded is returned.
func (r *Runner) execute(command string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command) //nolint:gosec // G204: command is assembled from detected framework + file paths
	cmd.Dir = r.ProjectDir
	output, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		return output, context.DeadlineExceeded
	}
	return output, err
}

func isExitError(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr)
}

var (
	pytestSummaryRE = regexp.MustCompile(`(\d+\s+\w+(?:,\s+\d+\s+\w+)*)\s+in\s+[\d.]+s`)
	jestSummaryRE   = regexp.MustCompile(`Tests:\s+(.+)`)
	cargoSummaryRE  = regexp.MustCompile(`test result:.*`)
)

// Summarize extracts the framework's one-line human-readable summary from
// combined output. An empty return means the output carried no recognizable
// summary, which is not an error.
func Summarize(framework string, output string) string {
	switch {
	case strings.Contains(framework, "pytest"):
		if m := pytestSummaryRE.FindStringSubmatch(output); m != nil {
			return m[1]
		}
	case strings.Contains(framework, "jest"), strings.Contains(framework, "npm test"):
		if m := jestSummaryRE.FindStringSubmatch(output); m != nil {
			return m[1]
		}
	case strings.Contains(framework, "go test"):
		if strings.Contains(output, "PASS") {
			return "All tests passed"
		}
		if strings.Contains(output, "FAIL") {
			return "Some tests failed"
		}
	case strings.Contains(framework, "cargo test"):
		if m := cargoSummaryRE.FindString(output); m != "" {
			return m
		}
	}
	return ""
}

// TailNonBlank returns up to n trailing non-blank lines of output.
func TailNonBlank(output string, n int) []string {
	lines := strings.Split(output, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	var out []string
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func (r *Runner) report(framework string, output []byte, passed bool) {
	text := string(output)

	fmt.Fprintf(r.Stderr, "\n[test-runner] Test Results:\n")
	fmt.Fprintln(r.Stderr, strings.Repeat("=", 60))

	if passed {
		fmt.Fprintln(r.Stderr, "All tests passed!")
	} else {
		fmt.Fprintln(r.Stderr, "Some tests failed")
	}

	if summary := Summarize(framework, text); summary != "" {
		fmt.Fprintf(r.Stderr, "Summary: %s\n", summary)
	}

	fmt.Fprintln(r.Stderr, strings.Repeat("=", 60))

	if !passed {
		fmt.Fprintf(r.Stderr, "\n[test-runner] Failed test output:\n")
		for _, line := range TailNonBlank(text, failTailLines) {
			fmt.Fprintf(r.Stderr, "  %s\n", line)
		}
	}
}
