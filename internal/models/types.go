package models

import "time"

// ToolCall is one logged tool invocation. Rows are append-only: no writer
// updates or deletes them after insertion.
type ToolCall struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Timestamp   time.Time `json:"timestamp"`
	ToolType    string    `json:"tool_type"`
	FilePath    string    `json:"file_path,omitempty"`
	Command     string    `json:"command,omitempty"`
	Pattern     string    `json:"pattern,omitempty"`
	Description string    `json:"description,omitempty"`
	ParamsJSON  string    `json:"params_json"`
	Success     bool      `json:"success"`
}

// Session is the per-session summary row, keyed by session ID. It is written
// at session end; re-running the session hook replaces the whole row.
type Session struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	DurationSeconds int64     `json:"duration_seconds"`
	Model           string    `json:"model"`
	Summary         string    `json:"summary"`
	ToolCount       int       `json:"tool_count"`
	FileCount       int       `json:"file_count"`
	CommandCount    int       `json:"command_count"`
}

// SubagentSession records completion of one delegated sub-task, keyed by the
// parent session that spawned it.
type SubagentSession struct {
	ID                int64     `json:"id"`
	ParentSessionID   string    `json:"parent_session_id"`
	SubagentType      string    `json:"subagent_type"`
	Timestamp         time.Time `json:"timestamp"`
	Summary           string    `json:"summary,omitempty"`
	FilesModifiedJSON string    `json:"files_modified_json"`
	FileCount         int       `json:"file_count"`
}
