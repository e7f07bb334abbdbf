package execution

import (
	"fmt"
	"strings"
	"time"
)

// Classifier turns an execution Outcome into a Verdict. It performs no I/O
// and holds no state.
type Classifier struct{}

// NewClassifier returns a ready to use Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify judges the outcome of running c.
func (*Classifier) Classify(c Case, out Outcome) Verdict {
	v := Verdict{
		CaseName: c.Name,
		Actual:   out.Stdout,
		Expected: c.Expected,
		Duration: out.Duration,
	}

	switch {
	case out.TimedOut:
		v.Status = StatusTimeout
		v.Diagnostic = timeoutDiagnostic(out.TimeLimit)
	case out.Err != nil || out.ExitCode != 0:
		v.Status = StatusRuntimeErr
		v.Diagnostic = runtimeDiagnostic(out)
	case !c.HasExpected():
		v.Status = StatusShow
	case Normalize(out.Stdout) == Normalize(*c.Expected):
		v.Status = StatusAccepted
	default:
		v.Status = StatusWrongAnswer
	}

	if v.Status == StatusShow {
		v.Expected = nil
	}
	return v
}

func timeoutDiagnostic(limit time.Duration) string {
	if limit <= 0 {
		return "time limit exceeded"
	}
	return fmt.Sprintf("time limit of %s exceeded", limit)
}

func runtimeDiagnostic(out Outcome) string {
	if strings.TrimSpace(out.Stderr) != "" {
		return out.Stderr
	}
	if out.Err != nil {
		return out.Err.Error()
	}
	return fmt.Sprintf("exited with status %d", out.ExitCode)
}

// Normalize strips trailing whitespace from every line and a single trailing
// newline at the end of the stream. Interior whitespace is preserved.
func Normalize(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r\v\f")
	}
	return strings.TrimSuffix(strings.Join(lines, "\n"), "\n")
}
