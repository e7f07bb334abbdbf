package ports

import (
	"context"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

// SuiteExecutor builds the candidate program and judges it against the suite.
type SuiteExecutor interface {
	ExecuteSuite(ctx context.Context) (execution.SuiteReport, error)
}
