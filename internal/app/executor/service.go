package executor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

const (
	DefaultTimeout      = 2 * time.Second
	DefaultBuildTimeout = 60 * time.Second
)

// Options tunes a Service. Zero values fall back to the defaults.
type Options struct {
	// Timeout is the per-case wall clock used when the task config sets none.
	Timeout      time.Duration
	BuildTimeout time.Duration
	// MaxParallel bounds how many cases run at once. 1 runs them one by one.
	MaxParallel int
	Logger      *slog.Logger
}

// Dependencies groups the collaborators of a Service.
type Dependencies struct {
	Config     ports.TaskConfigSource
	Cases      ports.CaseSource
	Runner     ports.Runner
	Classifier ports.Classifier
	Reporter   ports.Reporter
}

// Service runs the build once, executes every case of the suite through the
// runner, classifies each outcome and streams verdicts to the reporter in
// load order before asking it for a summary.
type Service struct {
	deps   Dependencies
	opts   Options
	logger *slog.Logger
}

var _ ports.SuiteExecutor = (*Service)(nil)

// NewService constructs a Service. Every dependency is required.
func NewService(deps Dependencies, opts Options) (*Service, error) {
	switch {
	case deps.Config == nil:
		return nil, errors.New("task config source is required")
	case deps.Cases == nil:
		return nil, errors.New("case source is required")
	case deps.Runner == nil:
		return nil, errors.New("runner is required")
	case deps.Classifier == nil:
		return nil, errors.New("classifier is required")
	case deps.Reporter == nil:
		return nil, errors.New("reporter is required")
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.BuildTimeout <= 0 {
		opts.BuildTimeout = DefaultBuildTimeout
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{deps: deps, opts: opts, logger: logger}, nil
}

// ExecuteSuite performs one full run. Execution failures of single cases are
// verdicts; the returned error is reserved for configuration access, build
// failure, invariant violations, reporter failures and cancellation.
func (s *Service) ExecuteSuite(ctx context.Context) (execution.SuiteReport, error) {
	cfg, cases, err := s.load(ctx)
	if err != nil {
		return execution.SuiteReport{}, err
	}

	if err := s.build(ctx, cfg.Build); err != nil {
		return execution.SuiteReport{}, err
	}

	timeout := s.opts.Timeout
	if cfg.TimeLimit > 0 {
		timeout = cfg.TimeLimit
	}

	s.logger.Info("running suite", "cases", len(cases), "timeout", timeout, "parallel", s.opts.MaxParallel)

	run := newSuiteRun(s, cfg.Run, timeout)
	var verdicts []execution.Verdict
	if s.opts.MaxParallel > 1 && len(cases) > 1 {
		verdicts, err = run.parallel(ctx, cases, s.opts.MaxParallel)
	} else {
		verdicts, err = run.sequential(ctx, cases)
	}
	if err != nil {
		return execution.SuiteReport{}, err
	}

	if err := s.deps.Reporter.ReportSummary(ctx, verdicts); err != nil {
		return execution.SuiteReport{}, fmt.Errorf("report summary: %w", err)
	}

	return execution.SuiteReport{Verdicts: verdicts}, nil
}

func (s *Service) load(ctx context.Context) (execution.TaskConfig, []execution.Case, error) {
	cfg, err := s.deps.Config.ReadTaskConfig(ctx)
	if err != nil {
		return execution.TaskConfig{}, nil, asConfigAccess("task config", err)
	}
	if len(cfg.Run) == 0 {
		return execution.TaskConfig{}, nil, &execution.ConfigAccessError{
			Source: "task config",
			Err:    errors.New("run command must not be empty"),
		}
	}

	cases, err := s.deps.Cases.ReadCases(ctx)
	if err != nil {
		return execution.TaskConfig{}, nil, asConfigAccess("test cases", err)
	}

	return cfg, cases, nil
}

func asConfigAccess(source string, err error) error {
	var accessErr *execution.ConfigAccessError
	if errors.As(err, &accessErr) {
		return err
	}
	return &execution.ConfigAccessError{Source: source, Err: err}
}

func (s *Service) build(ctx context.Context, command []string) error {
	if len(command) == 0 {
		s.logger.Debug("no build command configured")
		return nil
	}

	s.logger.Info("building", "command", command, "timeout", s.opts.BuildTimeout)
	out := s.deps.Runner.Run(ctx, command, "", s.opts.BuildTimeout)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	if out.Succeeded() {
		s.logger.Debug("build finished", "duration", out.Duration)
		return nil
	}

	return &execution.BuildFailedError{
		Command:  append([]string(nil), command...),
		ExitCode: out.ExitCode,
		Stderr:   out.Stderr,
		TimedOut: out.TimedOut,
		Err:      out.Err,
	}
}
