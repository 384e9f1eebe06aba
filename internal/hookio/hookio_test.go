package hookio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRead_FullPayload(t *testing.T) {
	payload := `{
		"session_id": "abc",
		"hook_event_name": "PostToolUse",
		"tool_name": "Bash",
		"tool_input": {"command": "ls -la", "description": "list files"}
	}`

	in, err := Read(strings.NewReader(payload))
	require.NoError(t, err)
	require.Equal(t, "abc", in.SessionID)
	require.Equal(t, "Bash", in.ToolName)

	p := in.Params()
	require.Equal(t, "ls -la", p.Command)
	require.Equal(t, "list files", p.Description)
	require.Empty(t, p.FilePath)
	require.Empty(t, p.Pattern)

	// Raw serialization is preserved verbatim for the params_json column.
	require.JSONEq(t, `{"command": "ls -la", "description": "list files"}`, in.RawToolInput())
}

func TestRead_Malformed(t *testing.T) {
	_, err := Read(strings.NewReader("not json"))
	require.Error(t, err)
}

func TestRead_MissingToolInput(t *testing.T) {
	in, err := Read(strings.NewReader(`{"tool_name": "Read"}`))
	require.NoError(t, err)
	require.Equal(t, ToolParams{}, in.Params())
	require.Equal(t, "{}", in.RawToolInput())
}

func TestRead_SubagentFields(t *testing.T) {
	in, err := Read(strings.NewReader(`{
		"subagent_type": "reviewer",
		"summary": "checked the diff",
		"files_modified": ["a.go", "b.go"]
	}`))
	require.NoError(t, err)
	require.Equal(t, "reviewer", in.SubagentType)
	require.Equal(t, "checked the diff", in.Summary)
	require.Equal(t, []string{"a.go", "b.go"}, in.FilesModified)
}

func TestWriteCommandUpdate_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCommandUpdate(&buf, EventPreToolUse, "rg foo"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	specific, ok := doc["hookSpecificOutput"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "PreToolUse", specific["hookEventName"])
	require.Equal(t, "allow", specific["permissionDecision"])

	updated, ok := specific["updatedInput"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "rg foo", updated["command"])
}
