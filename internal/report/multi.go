package report

import (
	"context"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// Multi forwards every call to each reporter in order and stops at the first
// error.
type Multi []ports.Reporter

var _ ports.Reporter = Multi(nil)

func (m Multi) ReportCase(ctx context.Context, verdict execution.Verdict) error {
	for _, r := range m {
		if err := r.ReportCase(ctx, verdict); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) ReportSummary(ctx context.Context, verdicts []execution.Verdict) error {
	for _, r := range m {
		if err := r.ReportSummary(ctx, verdicts); err != nil {
			return err
		}
	}
	return nil
}
