package domain

import "time"

// ToolOutcome is what the service learns from one run of the annotation tool.
// The tool's result file is not read back.
type ToolOutcome struct {
	Command  []string      `json:"command"`
	ExitCode int           `json:"exit_code"`
	Duration time.Duration `json:"duration"`
	Stderr   string        `json:"stderr,omitempty"`
}

// Succeeded reports whether the tool exited with status 0.
func (o ToolOutcome) Succeeded() bool {
	return o.ExitCode == 0
}
