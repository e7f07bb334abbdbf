package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// DefaultTaskConfigFile is the task config file name looked up in the task directory.
const DefaultTaskConfigFile = "task_config.yaml"

type taskConfigDocument struct {
	Build     []string `yaml:"build"`
	Run       []string `yaml:"run"`
	TimeLimit string   `yaml:"time_limit,omitempty"`
}

// TaskConfigStore reads and writes the task config file.
type TaskConfigStore struct {
	path string
}

var _ ports.TaskConfigSource = (*TaskConfigStore)(nil)

// NewTaskConfigStore returns a store backed by path.
func NewTaskConfigStore(path string) *TaskConfigStore {
	if path == "" {
		path = DefaultTaskConfigFile
	}
	return &TaskConfigStore{path: path}
}

// ReadTaskConfig loads and validates the task config.
func (s *TaskConfigStore) ReadTaskConfig(ctx context.Context) (execution.TaskConfig, error) {
	if err := ctx.Err(); err != nil {
		return execution.TaskConfig{}, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return execution.TaskConfig{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc taskConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return execution.TaskConfig{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if len(doc.Run) == 0 {
		return execution.TaskConfig{}, errors.New("run command must not be empty")
	}

	cfg := execution.TaskConfig{
		Build: doc.Build,
		Run:   doc.Run,
	}
	if doc.TimeLimit != "" {
		limit, err := time.ParseDuration(doc.TimeLimit)
		if err != nil {
			return execution.TaskConfig{}, fmt.Errorf("parse time_limit %q: %w", doc.TimeLimit, err)
		}
		if limit < 0 {
			return execution.TaskConfig{}, fmt.Errorf("time_limit %q must not be negative", doc.TimeLimit)
		}
		cfg.TimeLimit = limit
	}

	return cfg, nil
}

// WriteTaskConfig stores cfg, replacing any existing file.
func (s *TaskConfigStore) WriteTaskConfig(cfg execution.TaskConfig) error {
	doc := taskConfigDocument{
		Build: cfg.Build,
		Run:   cfg.Run,
	}
	if cfg.TimeLimit > 0 {
		doc.TimeLimit = cfg.TimeLimit.String()
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode task config: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Path returns the file backing the store.
func (s *TaskConfigStore) Path() string {
	return s.path
}
