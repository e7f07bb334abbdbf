package ports

import (
	"context"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

// TaskConfigSource provides the build and run commands of the current task.
type TaskConfigSource interface {
	ReadTaskConfig(ctx context.Context) (execution.TaskConfig, error)
}

// CaseSource provides the ordered case suite of the current task.
type CaseSource interface {
	ReadCases(ctx context.Context) ([]execution.Case, error)
}
