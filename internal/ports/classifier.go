package ports

import "github.com/yuriacats/atcoder-helper/internal/domain/execution"

// Classifier judges the outcome of executing a case.
type Classifier interface {
	Classify(c execution.Case, out execution.Outcome) execution.Verdict
}
