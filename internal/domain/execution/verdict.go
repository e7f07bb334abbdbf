package execution

import "time"

// Verdict is the classified result of running one Case.
type Verdict struct {
	CaseName   string
	Status     Status
	Actual     string
	Expected   *string
	Diagnostic string
	Duration   time.Duration
}

// Validate checks the structural invariants between the status and the
// expected output. A failure is a defect in classification, never a user error.
func (v Verdict) Validate() error {
	switch {
	case !v.Status.Valid():
		return &InvariantViolationError{CaseName: v.CaseName, Reason: "unknown status " + string(v.Status)}
	case v.Status == StatusWrongAnswer && v.Expected == nil:
		return &InvariantViolationError{CaseName: v.CaseName, Reason: "WA verdict without expected output"}
	case v.Status == StatusAccepted && v.Expected == nil:
		return &InvariantViolationError{CaseName: v.CaseName, Reason: "AC verdict without expected output"}
	case v.Status == StatusShow && v.Expected != nil:
		return &InvariantViolationError{CaseName: v.CaseName, Reason: "SHOW verdict with expected output"}
	}
	return nil
}

// SuiteReport holds the verdicts of one suite run in case load order.
type SuiteReport struct {
	Verdicts []Verdict
}

// Passed reports whether every verdict is AC or SHOW.
func (r SuiteReport) Passed() bool {
	for _, v := range r.Verdicts {
		if !v.Status.Passing() {
			return false
		}
	}
	return true
}

// Count returns the number of verdicts with the given status.
func (r SuiteReport) Count(status Status) int {
	n := 0
	for _, v := range r.Verdicts {
		if v.Status == status {
			n++
		}
	}
	return n
}
