package ports

import (
	"context"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

// Reporter presents verdicts as they are produced and once more as a summary.
type Reporter interface {
	ReportCase(ctx context.Context, verdict execution.Verdict) error
	ReportSummary(ctx context.Context, verdicts []execution.Verdict) error
}
