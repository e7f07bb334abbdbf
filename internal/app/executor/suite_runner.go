package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

type suiteRun struct {
	svc     *Service
	command []string
	timeout time.Duration
}

func newSuiteRun(svc *Service, command []string, timeout time.Duration) *suiteRun {
	return &suiteRun{svc: svc, command: command, timeout: timeout}
}

// judge runs one case and classifies the outcome. It never fails: runner
// problems are already folded into the outcome.
func (r *suiteRun) judge(ctx context.Context, c execution.Case) execution.Verdict {
	out := r.svc.deps.Runner.Run(ctx, r.command, c.Input, r.timeout)
	verdict := r.svc.deps.Classifier.Classify(c, out)
	r.svc.logger.Debug("case finished",
		"case", c.Name,
		"status", verdict.Status,
		"exit_code", out.ExitCode,
		"duration", out.Duration,
	)
	return verdict
}

// emit validates a verdict and hands it to the reporter.
func (r *suiteRun) emit(ctx context.Context, verdict execution.Verdict) error {
	if err := verdict.Validate(); err != nil {
		return err
	}
	if err := r.svc.deps.Reporter.ReportCase(ctx, verdict); err != nil {
		return fmt.Errorf("report case %q: %w", verdict.CaseName, err)
	}
	return nil
}

func (r *suiteRun) sequential(ctx context.Context, cases []execution.Case) ([]execution.Verdict, error) {
	verdicts := make([]execution.Verdict, 0, len(cases))
	for _, c := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execute suite: %w", err)
		}

		verdict := r.judge(ctx, c)
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execute suite: %w", err)
		}
		if err := r.emit(ctx, verdict); err != nil {
			return nil, err
		}
		verdicts = append(verdicts, verdict)
	}
	return verdicts, nil
}

// parallel runs cases on a bounded pool. The calling goroutine is the only
// one talking to the reporter and it walks the cases in load order, so a
// fast case waits until every earlier case has been reported.
func (r *suiteRun) parallel(ctx context.Context, cases []execution.Case, workers int) ([]execution.Verdict, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]execution.Verdict, len(cases))
	done := make([]chan struct{}, len(cases))
	for i := range done {
		done[i] = make(chan struct{})
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for idx, c := range cases {
			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				return
			}

			wg.Add(1)
			go func(idx int, c execution.Case) {
				defer wg.Done()
				defer func() { <-sem }()
				defer close(done[idx])

				results[idx] = r.judge(runCtx, c)
			}(idx, c)
		}
	}()

	verdicts, err := r.collect(ctx, runCtx, results, done)
	cancel()
	wg.Wait()
	return verdicts, err
}

func (r *suiteRun) collect(ctx, runCtx context.Context, results []execution.Verdict, done []chan struct{}) ([]execution.Verdict, error) {
	verdicts := make([]execution.Verdict, 0, len(results))
	for idx := range results {
		select {
		case <-done[idx]:
		case <-runCtx.Done():
			return nil, fmt.Errorf("execute suite: %w", ctx.Err())
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("execute suite: %w", err)
		}

		if err := r.emit(ctx, results[idx]); err != nil {
			return nil, err
		}
		verdicts = append(verdicts, results[idx])
	}
	return verdicts, nil
}
