package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
)

type fakeDockerClient struct {
	mu          sync.Mutex
	nextID      int
	imagePulls  []string
	pullErr     error
	createErr   error
	createCalls []containerCreateCall
	waitCalls   map[string][]waitCall
	logs        map[string][]byte
	killCalls   []string
	removeCalls []string
	attach      map[string]types.HijackedResponse
	createHooks []func(string)
	closed      bool
}

type containerCreateCall struct {
	id         string
	config     *container.Config
	hostConfig *container.HostConfig
}

type waitCall struct {
	status *container.WaitResponse
	err    error
	block  bool
}

func newFakeDockerClient() *fakeDockerClient {
	return &fakeDockerClient{
		waitCalls: make(map[string][]waitCall),
		logs:      make(map[string][]byte),
		attach:    make(map[string]types.HijackedResponse),
	}
}

func (f *fakeDockerClient) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) ImagePull(ctx context.Context, ref string, opts image.PullOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	f.imagePulls = append(f.imagePulls, ref)
	err := f.pullErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (f *fakeDockerClient) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error) {
	f.mu.Lock()
	if f.createErr != nil {
		err := f.createErr
		f.mu.Unlock()
		return container.CreateResponse{}, err
	}
	id := fmt.Sprintf("container-%d", f.nextID)
	f.nextID++
	f.createCalls = append(f.createCalls, containerCreateCall{id: id, config: config, hostConfig: hostConfig})
	hook := popHook(&f.createHooks)
	f.mu.Unlock()

	if hook != nil {
		hook(id)
	}

	return container.CreateResponse{ID: id}, nil
}

func (f *fakeDockerClient) ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error {
	f.mu.Lock()
	f.removeCalls = append(f.removeCalls, containerID)
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) ContainerAttach(ctx context.Context, containerID string, options container.AttachOptions) (types.HijackedResponse, error) {
	f.mu.Lock()
	resp := f.attach[containerID]
	f.mu.Unlock()
	return resp, nil
}

func (f *fakeDockerClient) ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error {
	return nil
}

func (f *fakeDockerClient) ContainerWait(ctx context.Context, containerID string, condition container.WaitCondition) (<-chan container.WaitResponse, <-chan error) {
	statusCh := make(chan container.WaitResponse, 1)
	errCh := make(chan error, 1)

	f.mu.Lock()
	calls := f.waitCalls[containerID]
	if len(calls) > 0 {
		call := calls[0]
		f.waitCalls[containerID] = calls[1:]
		f.mu.Unlock()

		if call.block {
			return statusCh, errCh
		}
		if call.status != nil {
			statusCh <- *call.status
		}
		if call.err != nil {
			errCh <- call.err
		}
		return statusCh, errCh
	}
	f.mu.Unlock()

	return statusCh, errCh
}

func (f *fakeDockerClient) ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error) {
	f.mu.Lock()
	data, ok := f.logs[containerID]
	f.mu.Unlock()
	if !ok {
		return nil, errors.New("no logs recorded")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeDockerClient) ContainerKill(ctx context.Context, containerID, signal string) error {
	f.mu.Lock()
	f.killCalls = append(f.killCalls, containerID)
	f.mu.Unlock()
	return nil
}

func (f *fakeDockerClient) setWaitSequence(containerID string, calls ...waitCall) {
	f.mu.Lock()
	f.waitCalls[containerID] = append([]waitCall{}, calls...)
	f.mu.Unlock()
}

func (f *fakeDockerClient) setLogs(containerID string, stdout, stderr string) {
	var buf bytes.Buffer
	if stdout != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
		_, _ = w.Write([]byte(stdout))
	}
	if stderr != "" {
		w := stdcopy.NewStdWriter(&buf, stdcopy.Stderr)
		_, _ = w.Write([]byte(stderr))
	}
	f.mu.Lock()
	f.logs[containerID] = buf.Bytes()
	f.mu.Unlock()
}

func (f *fakeDockerClient) setAttachResponse(containerID string, resp types.HijackedResponse) {
	f.mu.Lock()
	f.attach[containerID] = resp
	f.mu.Unlock()
}

func (f *fakeDockerClient) onCreate(hook func(string)) {
	f.mu.Lock()
	f.createHooks = append(f.createHooks, hook)
	f.mu.Unlock()
}

func popHook(hooks *[]func(string)) func(string) {
	if len(*hooks) == 0 {
		return nil
	}
	hook := (*hooks)[0]
	*hooks = (*hooks)[1:]
	return hook
}

type fakeConn struct {
	mu         sync.Mutex
	buf        bytes.Buffer
	closed     chan struct{}
	halfClosed chan struct{}
	once       sync.Once
	halfOnce   sync.Once
	// blockWrites makes Write hang until Close, like a container that never reads.
	blockWrites bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{}), halfClosed: make(chan struct{})}
}

func (c *fakeConn) Read(p []byte) (int, error) {
	return 0, io.EOF
}

func (c *fakeConn) Write(p []byte) (int, error) {
	if c.blockWrites {
		<-c.closed
		return 0, net.ErrClosed
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *fakeConn) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) CloseWrite() error {
	c.halfOnce.Do(func() { close(c.halfClosed) })
	return nil
}

func (c *fakeConn) LocalAddr() net.Addr              { return fakeAddr("local") }
func (c *fakeConn) RemoteAddr() net.Addr             { return fakeAddr("remote") }
func (c *fakeConn) SetDeadline(time.Time) error      { return nil }
func (c *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (c *fakeConn) SetWriteDeadline(time.Time) error { return nil }

type fakeAddr string

func (a fakeAddr) Network() string { return string(a) }
func (a fakeAddr) String() string  { return string(a) }
