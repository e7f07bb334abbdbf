package memory

import (
	"context"
	"testing"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

func TestSuiteReturnsCopiesInOrder(t *testing.T) {
	t.Parallel()

	suite := NewSuite(
		execution.TaskConfig{Build: []string{"make"}, Run: []string{"./a.out"}},
		execution.Case{Name: "b"},
		execution.Case{Name: "a"},
	)

	cases, err := suite.ReadCases(context.Background())
	if err != nil {
		t.Fatalf("ReadCases returned error: %v", err)
	}
	if len(cases) != 2 || cases[0].Name != "b" || cases[1].Name != "a" {
		t.Fatalf("unexpected cases: %+v", cases)
	}

	cases[0].Name = "mutated"
	again, _ := suite.ReadCases(context.Background())
	if again[0].Name != "b" {
		t.Fatalf("suite state leaked through returned slice")
	}

	cfg, err := suite.ReadTaskConfig(context.Background())
	if err != nil {
		t.Fatalf("ReadTaskConfig returned error: %v", err)
	}
	cfg.Run[0] = "mutated"
	again2, _ := suite.ReadTaskConfig(context.Background())
	if again2.Run[0] != "./a.out" {
		t.Fatalf("task config leaked through returned slice")
	}
}

func TestSuiteRejectsEmptyRunCommand(t *testing.T) {
	t.Parallel()

	if _, err := NewSuite(execution.TaskConfig{}).ReadTaskConfig(context.Background()); err == nil {
		t.Fatalf("expected error for empty run command")
	}
}

func TestAddCase(t *testing.T) {
	t.Parallel()

	suite := NewSuite(execution.TaskConfig{Run: []string{"true"}})
	if err := suite.AddCase(execution.Case{Name: "one"}); err != nil {
		t.Fatalf("AddCase returned error: %v", err)
	}
	if err := suite.AddCase(execution.Case{Name: "one"}); err == nil {
		t.Fatalf("expected duplicate name to be rejected")
	}
	if err := suite.AddCase(execution.Case{}); err == nil {
		t.Fatalf("expected empty name to be rejected")
	}
}

func TestSuiteHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewSuite(execution.TaskConfig{Run: []string{"true"}}).ReadCases(ctx); err == nil {
		t.Fatalf("expected cancellation error")
	}
}
