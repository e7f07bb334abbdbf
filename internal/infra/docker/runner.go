package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/infra/capture"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

const (
	defaultWorkdir = "/workspace"
	killTimeout    = 5 * time.Second
	reapTimeout    = 15 * time.Second
	stdinGrace     = time.Second
)

// Config describes how to create a Docker-backed Runner.
type Config struct {
	Image string
	// Workdir is where HostDir is mounted inside the container and where
	// commands start.
	Workdir string
	// HostDir is bind-mounted read-write so build artifacts survive between
	// the build container and the case containers. Empty disables the mount.
	HostDir string
	// SkipPull uses the local image as is.
	SkipPull bool
	// NetworkDisabled detaches containers from every network.
	NetworkDisabled bool
	// MaxOutputBytes caps how much of each output stream is retained.
	MaxOutputBytes int
	Logger         *slog.Logger
}

// Runner executes every command in a fresh container.
type Runner struct {
	cli    dockerClient
	cfg    Config
	logger *slog.Logger

	pullOnce sync.Once
	pullErr  error
}

var _ ports.Runner = (*Runner)(nil)

// New creates a Runner talking to the Docker daemon configured in the environment.
func New(cfg Config) (*Runner, error) {
	if cfg.Image == "" {
		return nil, fmt.Errorf("docker runner: image must be configured")
	}

	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker runner: create client: %w", err)
	}

	return newRunnerWithClient(cli, cfg), nil
}

func newRunnerWithClient(cli dockerClient, cfg Config) *Runner {
	if cfg.Workdir == "" {
		cfg.Workdir = defaultWorkdir
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{cli: cli, cfg: cfg, logger: logger}
}

// Close releases the underlying Docker client.
func (r *Runner) Close() error {
	if r.cli == nil {
		return nil
	}
	return r.cli.Close()
}

// Run executes command in a new container, forwarding input to its stdin.
func (r *Runner) Run(ctx context.Context, command []string, input string, timeout time.Duration) execution.Outcome {
	failed := func(err error) execution.Outcome {
		return execution.Outcome{ExitCode: -1, TimeLimit: timeout, Err: err}
	}

	if len(command) == 0 || command[0] == "" {
		return failed(errors.New("empty command"))
	}
	if err := r.ensureImage(ctx); err != nil {
		return failed(err)
	}

	containerID, cleanup, err := r.createContainer(ctx, command)
	if err != nil {
		return failed(err)
	}
	defer cleanup()

	attach, err := r.cli.ContainerAttach(ctx, containerID, container.AttachOptions{
		Stream: true,
		Stdin:  true,
	})
	if err != nil {
		return failed(fmt.Errorf("attach container: %w", err))
	}
	if attach.Conn != nil {
		defer attach.Close()
	}

	start := time.Now()
	if err := r.cli.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		return failed(fmt.Errorf("start container: %w", err))
	}

	stdinDone := make(chan struct{})
	go func() {
		defer close(stdinDone)
		writeStdin(attach, input)
	}()
	defer r.finishStdin(attach, stdinDone)

	waitCtx := ctx
	var cancel context.CancelFunc
	if timeout > 0 {
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	status, err := r.waitForExit(waitCtx, containerID)
	if cancel != nil {
		cancel()
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && timeout > 0 && ctx.Err() == nil {
			return r.handleTimeLimit(containerID, start, timeout)
		}
		r.kill(containerID)
		out := failed(err)
		out.Duration = time.Since(start)
		return out
	}

	stdout, stderr, err := r.fetchLogs(ctx, containerID)
	if err != nil {
		return failed(fmt.Errorf("fetch logs: %w", err))
	}

	return execution.Outcome{
		ExitCode:  int(status.StatusCode),
		Stdout:    stdout,
		Stderr:    stderr,
		TimeLimit: timeout,
		Duration:  time.Since(start),
	}
}

func writeStdin(attach types.HijackedResponse, input string) {
	if attach.Conn == nil {
		return
	}
	_, _ = io.Copy(attach.Conn, strings.NewReader(input))
	if closer, ok := attach.Conn.(interface{ CloseWrite() error }); ok {
		_ = closer.CloseWrite()
	}
}

// finishStdin waits for the stdin writer. A container that exited without
// reading its input can leave the write blocked, so the connection is closed
// after a grace period to release it.
func (r *Runner) finishStdin(attach types.HijackedResponse, done <-chan struct{}) {
	select {
	case <-done:
		return
	case <-time.After(stdinGrace):
	}
	if attach.Conn != nil {
		_ = attach.Conn.Close()
	}
	<-done
}

func (r *Runner) ensureImage(ctx context.Context) error {
	if r.cfg.SkipPull {
		return nil
	}
	r.pullOnce.Do(func() {
		reader, err := r.cli.ImagePull(ctx, r.cfg.Image, image.PullOptions{})
		if err != nil {
			r.pullErr = fmt.Errorf("pull image %s: %w", r.cfg.Image, err)
			return
		}
		defer reader.Close()
		if _, err := io.Copy(io.Discard, reader); err != nil {
			r.pullErr = fmt.Errorf("consume pull output for %s: %w", r.cfg.Image, err)
		}
	})
	return r.pullErr
}

func (r *Runner) createContainer(ctx context.Context, cmd []string) (string, func(), error) {
	hostConfig := &container.HostConfig{
		Resources: container.Resources{
			NanoCPUs: 1_000_000_000,
		},
	}
	if r.cfg.HostDir != "" {
		hostConfig.Binds = []string{r.cfg.HostDir + ":" + r.cfg.Workdir + ":rw"}
	}

	resp, err := r.cli.ContainerCreate(
		ctx,
		&container.Config{
			Image:           r.cfg.Image,
			Cmd:             cmd,
			AttachStdout:    true,
			AttachStderr:    true,
			AttachStdin:     true,
			OpenStdin:       true,
			StdinOnce:       true,
			WorkingDir:      r.cfg.Workdir,
			NetworkDisabled: r.cfg.NetworkDisabled,
		},
		hostConfig,
		nil,
		nil,
		"",
	)
	if err != nil {
		return "", nil, fmt.Errorf("create container: %w", err)
	}

	cleanup := func() {
		_ = r.cli.ContainerRemove(context.Background(), resp.ID, container.RemoveOptions{Force: true})
	}

	return resp.ID, cleanup, nil
}

// handleTimeLimit kills the container, which takes every process inside it
// down, and collects whatever output was produced before the deadline.
func (r *Runner) handleTimeLimit(containerID string, start time.Time, timeout time.Duration) execution.Outcome {
	r.kill(containerID)

	waitCtx, cancelWait := context.WithTimeout(context.Background(), reapTimeout)
	defer cancelWait()
	if _, err := r.waitForExit(waitCtx, containerID); err != nil && !client.IsErrNotFound(err) {
		r.logger.Warn("container did not stop after kill", "container", containerID, "error", err)
	}

	out := execution.Outcome{
		ExitCode:  -1,
		TimedOut:  true,
		TimeLimit: timeout,
		Duration:  time.Since(start),
	}

	stdout, stderr, err := r.fetchLogs(context.Background(), containerID)
	if err != nil {
		r.logger.Warn("fetch logs after time limit", "container", containerID, "error", err)
		return out
	}
	out.Stdout = stdout
	out.Stderr = stderr
	return out
}

func (r *Runner) kill(containerID string) {
	killCtx, cancel := context.WithTimeout(context.Background(), killTimeout)
	defer cancel()

	if err := r.cli.ContainerKill(killCtx, containerID, "SIGKILL"); err != nil && !client.IsErrNotFound(err) {
		r.logger.Warn("kill container", "container", containerID, "error", err)
	}
}

func (r *Runner) waitForExit(ctx context.Context, containerID string) (*container.WaitResponse, error) {
	statusCh, errCh := r.cli.ContainerWait(ctx, containerID, container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return nil, fmt.Errorf("container error: %s", status.Error.Message)
		}
		return &status, nil
	case err := <-errCh:
		return nil, fmt.Errorf("wait for container: %w", err)
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for container: %w", ctx.Err())
	}
}

func (r *Runner) fetchLogs(ctx context.Context, containerID string) (stdout, stderr string, err error) {
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	logs, err := r.cli.ContainerLogs(ctx, containerID, container.LogsOptions{ShowStdout: true, ShowStderr: true})
	if err != nil {
		return "", "", err
	}
	defer logs.Close()

	stdoutBuf := capture.NewBuffer(r.cfg.MaxOutputBytes)
	stderrBuf := capture.NewBuffer(r.cfg.MaxOutputBytes)
	if _, err := stdcopy.StdCopy(stdoutBuf, stderrBuf, logs); err != nil {
		return "", "", err
	}

	stdout, stderr = capture.Streams(stdoutBuf, stderrBuf)
	return stdout, stderr, nil
}
