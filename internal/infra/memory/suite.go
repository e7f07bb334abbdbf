package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// Suite is an in-memory task config and case list. It serves embedders that
// already hold the suite and tests that must not touch the filesystem.
type Suite struct {
	mu     sync.Mutex
	config execution.TaskConfig
	cases  []execution.Case
}

var (
	_ ports.TaskConfigSource = (*Suite)(nil)
	_ ports.CaseSource       = (*Suite)(nil)
)

// NewSuite builds a suite from cfg and the given cases.
func NewSuite(cfg execution.TaskConfig, cases ...execution.Case) *Suite {
	return &Suite{
		config: cfg,
		cases:  append([]execution.Case(nil), cases...),
	}
}

// ReadTaskConfig returns a copy of the stored task config.
func (s *Suite) ReadTaskConfig(ctx context.Context) (execution.TaskConfig, error) {
	if err := ctx.Err(); err != nil {
		return execution.TaskConfig{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.config.Run) == 0 {
		return execution.TaskConfig{}, errors.New("run command must not be empty")
	}

	cfg := s.config
	cfg.Build = append([]string(nil), s.config.Build...)
	cfg.Run = append([]string(nil), s.config.Run...)
	return cfg, nil
}

// ReadCases returns a copy of the stored cases in insertion order.
func (s *Suite) ReadCases(ctx context.Context) ([]execution.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]execution.Case(nil), s.cases...), nil
}

// AddCase appends c to the suite. Names must stay unique.
func (s *Suite) AddCase(c execution.Case) error {
	if c.Name == "" {
		return errors.New("case name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.cases {
		if existing.Name == c.Name {
			return fmt.Errorf("case %q already exists", c.Name)
		}
	}
	s.cases = append(s.cases, c)
	return nil
}
