package runtime

import (
	"github.com/yuriacats/atcoder-helper/internal/infra/docker"
	"github.com/yuriacats/atcoder-helper/internal/infra/process"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

const (
	BackendProcess = "process"
	BackendDocker  = "docker"
)

// NewDefaultRegistry registers the host process runner and the Docker runner.
// The Docker client is only created when that backend is requested.
func NewDefaultRegistry(processCfg process.Config, dockerCfg docker.Config) (*Registry, error) {
	return NewRegistry(
		Backend{
			Name: BackendProcess,
			Factory: func() (ports.Runner, error) {
				return process.New(processCfg), nil
			},
		},
		Backend{
			Name: BackendDocker,
			Factory: func() (ports.Runner, error) {
				return docker.New(dockerCfg)
			},
		},
	)
}
