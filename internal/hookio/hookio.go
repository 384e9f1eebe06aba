// Package hookio models the one-JSON-document-in, one-JSON-document-out
// protocol between Claude Code and its hooks. Each hook reads exactly one
// Input from stdin; writing an Output is optional, and silence means
// "proceed unchanged".
package hookio

import (
	"encoding/json"
	"fmt"
	"io"
)

// Lifecycle event names as they appear in settings.json and hook output.
const (
	EventPreToolUse       = "PreToolUse"
	EventPostToolUse      = "PostToolUse"
	EventUserPromptSubmit = "UserPromptSubmit"
	EventSessionEnd       = "SessionEnd"
	EventSubagentStop     = "SubagentStop"
)

// maxStdinBytes caps stdin reads. Hook payloads are small JSON objects;
// 1 MB is generous headroom that prevents unbounded allocation.
const maxStdinBytes = 1 << 20

// Input is the JSON Claude Code sends on stdin to hooks. ToolInput is kept
// raw so the tool-call log can persist the parameters verbatim; Params
// extracts the named fields hooks care about.
type Input struct {
	SessionID     string          `json:"session_id"`
	HookEventName string          `json:"hook_event_name"`
	ToolName      string          `json:"tool_name"`
	ToolInput     json.RawMessage `json:"tool_input"`

	// SubagentStop payload fields.
	SubagentType  string   `json:"subagent_type"`
	Summary       string   `json:"summary"`
	FilesModified []string `json:"files_modified"`
}

// ToolParams are the named tool_input fields extracted for structured logging.
// Absent fields stay empty and are stored as NULL.
type ToolParams struct {
	FilePath    string `json:"file_path"`
	Command     string `json:"command"`
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
}

// Params decodes the named fields out of the raw tool_input. Unknown or
// missing keys are not an error; the raw document is preserved separately.
func (in Input) Params() ToolParams {
	var p ToolParams
	if len(in.ToolInput) > 0 {
		_ = json.Unmarshal(in.ToolInput, &p)
	}
	return p
}

// RawToolInput returns the verbatim tool_input serialization, "{}" when the
// request carried none.
func (in Input) RawToolInput() string {
	if len(in.ToolInput) == 0 {
		return "{}"
	}
	return string(in.ToolInput)
}

// Read decodes one hook request from r. A malformed document is fatal to the
// hook: no handler defends against garbage input.
func Read(r io.Reader) (Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxStdinBytes))
	if err != nil {
		return Input{}, fmt.Errorf("read hook input: %w", err)
	}
	var in Input
	if err := json.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("parse hook input: %w", err)
	}
	return in, nil
}

// Output is the JSON a hook may write to stdout.
type Output struct {
	HookSpecificOutput *Specific `json:"hookSpecificOutput,omitempty"`
}

// Specific is the hookSpecificOutput envelope.
type Specific struct {
	HookEventName      string        `json:"hookEventName"`
	PermissionDecision string        `json:"permissionDecision,omitempty"`
	UpdatedInput       *UpdatedInput `json:"updatedInput,omitempty"`
}

// UpdatedInput replaces the tool's command before execution.
type UpdatedInput struct {
	Command string `json:"command"`
}

// WriteCommandUpdate emits the response instructing the host to substitute
// command for the original, with decision "allow".
func WriteCommandUpdate(w io.Writer, event, command string) error {
	out := Output{
		HookSpecificOutput: &Specific{
			HookEventName:      event,
			PermissionDecision: "allow",
			UpdatedInput:       &UpdatedInput{Command: command},
		},
	}
	return json.NewEncoder(w).Encode(out)
}
