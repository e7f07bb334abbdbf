package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/infra/capture"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

const defaultWaitDelay = 500 * time.Millisecond

// Config describes how the local Runner spawns programs.
type Config struct {
	// Dir is the working directory of spawned programs. Empty means the
	// current directory.
	Dir string
	// Env is appended to the inherited environment.
	Env []string
	// WaitDelay bounds how long Run waits for output pipes held open by
	// orphaned descendants after the main process is gone.
	WaitDelay time.Duration
	// MaxOutputBytes caps how much of each output stream is retained.
	MaxOutputBytes int
	Logger         *slog.Logger
}

// Runner executes commands as local child processes.
type Runner struct {
	dir       string
	env       []string
	waitDelay time.Duration
	maxOutput int
	logger    *slog.Logger
}

var _ ports.Runner = (*Runner)(nil)

// New creates a Runner from cfg, applying defaults for unset fields.
func New(cfg Config) *Runner {
	if cfg.WaitDelay <= 0 {
		cfg.WaitDelay = defaultWaitDelay
	}
	if cfg.MaxOutputBytes <= 0 {
		cfg.MaxOutputBytes = capture.DefaultLimit
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Runner{
		dir:       cfg.Dir,
		env:       cfg.Env,
		waitDelay: cfg.WaitDelay,
		maxOutput: cfg.MaxOutputBytes,
		logger:    logger,
	}
}

// Run spawns command, writes input to its stdin and waits for it to exit or
// for timeout to elapse. A zero timeout means no deadline.
func (r *Runner) Run(ctx context.Context, command []string, input string, timeout time.Duration) execution.Outcome {
	if len(command) == 0 || command[0] == "" {
		return execution.Outcome{ExitCode: -1, TimeLimit: timeout, Err: errors.New("empty command")}
	}

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	stdout := capture.NewBuffer(r.maxOutput)
	stderr := capture.NewBuffer(r.maxOutput)

	cmd := exec.CommandContext(runCtx, command[0], command[1:]...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = r.waitDelay
	setProcessGroup(cmd)
	// Cancel only runs when the context ends before the process exits.
	var cancelled atomic.Bool
	cmd.Cancel = func() error {
		cancelled.Store(true)
		return killTree(cmd.Process)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		r.logger.Debug("spawn failed", "command", command, "error", err)
		return execution.Outcome{ExitCode: -1, TimeLimit: timeout, Err: fmt.Errorf("start %s: %w", command[0], err)}
	}

	waitErr := cmd.Wait()
	duration := time.Since(start)

	// Background children must not outlive the run and disturb later ones.
	if err := killGroup(cmd.Process); err != nil {
		r.logger.Debug("reap process group", "command", command, "error", err)
	}

	stdoutText, stderrText := capture.Streams(stdout, stderr)
	out := execution.Outcome{
		ExitCode:  exitCode(cmd, waitErr),
		Stdout:    stdoutText,
		Stderr:    stderrText,
		TimeLimit: timeout,
		Duration:  duration,
	}

	killed := cancelled.Load()
	switch {
	case killed && errors.Is(runCtx.Err(), context.DeadlineExceeded) && timeout > 0 && ctx.Err() == nil:
		out.TimedOut = true
		out.ExitCode = -1
	case killed && ctx.Err() != nil:
		out.ExitCode = -1
		out.Err = fmt.Errorf("run %s: %w", command[0], ctx.Err())
	case errors.Is(waitErr, exec.ErrWaitDelay):
		r.logger.Debug("output pipes left open by descendants", "command", command)
	}

	r.logger.Debug("process finished",
		"command", command,
		"exit_code", out.ExitCode,
		"timed_out", out.TimedOut,
		"duration", duration,
	)
	return out
}

// Close is a no-op; each Run is self-contained.
func (r *Runner) Close() error {
	return nil
}

func exitCode(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		return exitErr.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
