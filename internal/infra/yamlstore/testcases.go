package yamlstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// DefaultTestCaseFile is the conventional suite file name.
const DefaultTestCaseFile = "testcases.yaml"

type caseDocument struct {
	Name     string  `yaml:"name"`
	Input    string  `yaml:"input"`
	Expected *string `yaml:"expected,omitempty"`
}

// TestCaseStore persists a case suite as a YAML sequence.
type TestCaseStore struct {
	path string
}

var _ ports.CaseSource = (*TestCaseStore)(nil)

// NewTestCaseStore returns a store backed by path.
func NewTestCaseStore(path string) *TestCaseStore {
	if path == "" {
		path = DefaultTestCaseFile
	}
	return &TestCaseStore{path: path}
}

// ReadCases loads the suite in file order.
func (s *TestCaseStore) ReadCases(ctx context.Context) ([]execution.Case, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var docs []caseDocument
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	cases := make([]execution.Case, 0, len(docs))
	seen := make(map[string]int, len(docs))
	for idx, doc := range docs {
		if doc.Name == "" {
			return nil, fmt.Errorf("case #%d has no name", idx+1)
		}
		if prev, ok := seen[doc.Name]; ok {
			return nil, fmt.Errorf("case #%d reuses name %q of case #%d", idx+1, doc.Name, prev+1)
		}
		seen[doc.Name] = idx

		cases = append(cases, execution.Case{
			Name:     doc.Name,
			Input:    doc.Input,
			Expected: doc.Expected,
		})
	}

	return cases, nil
}

// WriteCases stores the suite. Multi-line strings are written in literal
// block style so the file stays readable.
func (s *TestCaseStore) WriteCases(cases []execution.Case) error {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, c := range cases {
		item := &yaml.Node{Kind: yaml.MappingNode}
		appendField(item, "name", c.Name)
		appendField(item, "input", c.Input)
		if c.Expected != nil {
			appendField(item, "expected", *c.Expected)
		}
		root.Content = append(root.Content, item)
	}

	var buf strings.Builder
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("encode cases: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode cases: %w", err)
	}

	if err := os.WriteFile(s.path, []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// Path returns the file backing the store.
func (s *TestCaseStore) Path() string {
	return s.path
}

func appendField(mapping *yaml.Node, key, value string) {
	valueNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
	if strings.Contains(strings.TrimSuffix(value, "\n"), "\n") {
		valueNode.Style = yaml.LiteralStyle
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		valueNode,
	)
}

// IsNotExist reports whether err was caused by a missing store file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
