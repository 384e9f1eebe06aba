package output

import (
	"encoding/json"
	"os"
)

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Print prints a value as JSON to stdout
func Print(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	// Default to compact JSON to minimize output size for agent consumption.
	// Enable pretty JSON for humans via env var: HOOKLINE_PRETTY_JSON=1.
	if os.Getenv("HOOKLINE_PRETTY_JSON") == "1" || os.Getenv("HOOKLINE_PRETTY_JSON") == "true" {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// PrintSuccess prints a success response wrapping data
func PrintSuccess(data interface{}) error {
	return Print(Response{Success: true, Data: data})
}

// PrintError prints an error response
func PrintError(err error) error {
	return Print(Response{Success: false, Error: err.Error()})
}
