package execution

import "time"

// TaskConfig holds the commands used to build and run a candidate program.
type TaskConfig struct {
	Build []string
	Run   []string
	// TimeLimit overrides the engine's per-case timeout when positive.
	TimeLimit time.Duration
}
