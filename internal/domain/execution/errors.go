package execution

import (
	"fmt"
	"strings"
)

// ConfigAccessError reports that the task config or the case suite could not
// be read or is invalid. It is fatal to the whole run.
type ConfigAccessError struct {
	Source string
	Path   string
	Err    error
}

func (e *ConfigAccessError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("access %s %s: %v", e.Source, e.Path, e.Err)
	}
	return fmt.Sprintf("access %s: %v", e.Source, e.Err)
}

func (e *ConfigAccessError) Unwrap() error {
	return e.Err
}

// BuildFailedError reports that the build command did not succeed. No case is
// executed after it.
type BuildFailedError struct {
	Command  []string
	ExitCode int
	Stderr   string
	TimedOut bool
	Err      error
}

func (e *BuildFailedError) Error() string {
	cmd := strings.Join(e.Command, " ")
	switch {
	case e.TimedOut:
		return fmt.Sprintf("build %q timed out", cmd)
	case e.Err != nil:
		return fmt.Sprintf("build %q: %v", cmd, e.Err)
	default:
		return fmt.Sprintf("build %q exited with status %d", cmd, e.ExitCode)
	}
}

func (e *BuildFailedError) Unwrap() error {
	return e.Err
}

// InvariantViolationError flags an internally inconsistent verdict.
type InvariantViolationError struct {
	CaseName string
	Reason   string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation in case %q: %s", e.CaseName, e.Reason)
}
