package testrun

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildCommand_ScopedRuns(t *testing.T) {
	cases := []struct {
		name      string
		framework string
		files     []string
		want      string
	}{
		{"pytest scoped", "pytest", []string{"test_a.py", "test_b.py"},
			"pytest test_a.py test_b.py -v"},
		{"unittest falls back to framework", "python -m unittest", []string{"test_a.py"},
			"python -m unittest"},
		{"npm scopes to first file only", "npm test", []string{"a.test.ts", "b.test.ts"},
			`npm test -- --testPathPattern="a.test.ts"`},
		{"go test scoped", "go test", []string{"a_test.go", "b_test.go"},
			"go test -v a_test.go b_test.go"},
		{"cargo never scopes", "cargo test", []string{"tests/a.rs"},
			"cargo test"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, BuildCommand(tc.framework, tc.files))
		})
	}
}

func TestBuildCommand_TooManyFilesRunsFullSuite(t *testing.T) {
	files := []string{"test_a.py", "test_b.py", "test_c.py", "test_d.py"}
	require.Equal(t, "pytest", BuildCommand("pytest", files))

	// Exactly maxScopedFiles still gets a targeted run.
	require.Equal(t, "pytest test_a.py test_b.py test_c.py -v",
		BuildCommand("pytest", files[:3]))
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name      string
		framework string
		output    string
		want      string
	}{
		{"pytest pass", "pytest", "collected 5 items\n\n5 passed in 0.12s\n", "5 passed"},
		{"pytest mixed", "pytest", "4 passed, 1 failed in 1.03s", "4 passed, 1 failed"},
		{"jest", "npm test", "Tests:       2 failed, 10 passed, 12 total\n", "2 failed, 10 passed, 12 total"},
		{"go pass", "go test", "ok  \tpkg\t0.01s\nPASS\n", "All tests passed"},
		{"go fail", "go test", "--- FAIL: TestX (0.00s)\nFAIL\n", "Some tests failed"},
		{"cargo", "cargo test", "test result: ok. 3 passed; 0 failed; 0 ignored\n",
			"test result: ok. 3 passed; 0 failed; 0 ignored"},
		{"no summary", "pytest", "garbage output", ""},
		{"unknown framework", "mystery", "5 passed in 0.12s", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Summarize(tc.framework, tc.output))
		})
	}
}

func TestTailNonBlank(t *testing.T) {
	out := "one\n\ntwo\nthree\n\n"
	require.Equal(t, []string{"two", "three"}, TailNonBlank(out, 4))
	require.Equal(t, []string{"one", "two", "three"}, TailNonBlank(out, 100))
	require.Empty(t, TailNonBlank("\n\n\n", 10))
}

func newTestRunner(t *testing.T) (*Runner, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	r := NewRunner(t.TempDir(), 5*time.Second)
	r.Stderr = &buf
	return r, &buf
}

func TestRun_Passing(t *testing.T) {
	r, buf := newTestRunner(t)

	r.Run("echo PASS", nil)

	out := buf.String()
	require.Contains(t, out, "Running tests: echo PASS")
	require.Contains(t, out, "All tests passed!")
	require.NotContains(t, out, "Failed test output")
}

func TestRun_Failing(t *testing.T) {
	r, buf := newTestRunner(t)

	r.Run("echo boom; exit 1", nil)

	out := buf.String()
	require.Contains(t, out, "Some tests failed")
	require.Contains(t, out, "Failed test output")
	require.Contains(t, out, "boom")
}

func TestRun_Timeout(t *testing.T) {
	r, buf := newTestRunner(t)
	r.Timeout = 100 * time.Millisecond

	r.Run("sleep 2", nil)

	require.Contains(t, buf.String(), "Tests timed out after 100ms")
}

func TestNewRunner_DefaultTimeout(t *testing.T) {
	r := NewRunner("/tmp", 0)
	require.Equal(t, 120*time.Second, r.Timeout)
}
