package ports

import (
	"context"
	"time"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

// Runner executes a command once, feeding it input and capturing its output
// within timeout. Failures to execute are reported inside the Outcome; Run
// never returns an error for a single execution.
type Runner interface {
	Run(ctx context.Context, command []string, input string, timeout time.Duration) execution.Outcome
	Close() error
}
