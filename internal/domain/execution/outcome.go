package execution

import "time"

// Outcome captures what happened during one attempt to execute a command.
type Outcome struct {
	// ExitCode is -1 when the process never exited on its own.
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
	// TimeLimit is the deadline the runner enforced, zero when unbounded.
	TimeLimit time.Duration
	// Err is set when the process could not be spawned or was abandoned
	// because the caller's context ended.
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the process ran to completion with a zero exit code.
func (o Outcome) Succeeded() bool {
	return !o.TimedOut && o.Err == nil && o.ExitCode == 0
}
