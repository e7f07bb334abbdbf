package report

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

const (
	caseSeparator    = "-----------------------------------"
	summarySeparator = "========================================"
	detailPrefix     = "       >"
)

// Terminal renders verdicts as human readable text.
type Terminal struct {
	mu     sync.Mutex
	out    io.Writer
	labels Labels
}

var _ ports.Reporter = (*Terminal)(nil)

// NewTerminal writes to out using the given labels.
func NewTerminal(out io.Writer, labels Labels) *Terminal {
	return &Terminal{out: out, labels: labels}
}

// ReportCase prints the separator, the case line and the detail block that
// belongs to the verdict's status.
func (t *Terminal) ReportCase(ctx context.Context, verdict execution.Verdict) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if verdict.Status == execution.StatusWrongAnswer && verdict.Expected == nil {
		return &execution.InvariantViolationError{CaseName: verdict.CaseName, Reason: "WA verdict without expected output"}
	}

	var b strings.Builder
	b.WriteString(caseSeparator + "\n")
	t.writeLine(&b, verdict)

	switch verdict.Status {
	case execution.StatusShow:
		writeBlock(&b, "output", verdict.Actual)
	case execution.StatusWrongAnswer:
		writeBlock(&b, "expected", *verdict.Expected)
		writeBlock(&b, "but got", verdict.Actual)
	case execution.StatusRuntimeErr, execution.StatusTimeout:
		writeBlock(&b, "error", verdict.Diagnostic)
	}

	return t.write(b.String())
}

// ReportSummary prints one line per verdict in the order given.
func (t *Terminal) ReportSummary(ctx context.Context, verdicts []execution.Verdict) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(summarySeparator + "\n")
	b.WriteString("SUMMARY:\n")
	for _, v := range verdicts {
		t.writeLine(&b, v)
	}
	return t.write(b.String())
}

func (t *Terminal) writeLine(b *strings.Builder, v execution.Verdict) {
	fmt.Fprintf(b, "%-15s: %s\n", v.CaseName, t.labels.Label(v.Status))
}

func (t *Terminal) write(s string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := io.WriteString(t.out, s); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeBlock(b *strings.Builder, title, text string) {
	fmt.Fprintf(b, "    %s:\n", title)
	b.WriteString(Indent(strings.TrimSuffix(text, "\n"), detailPrefix))
	b.WriteString("\n")
}

// Indent prefixes every line of text that has visible content. Lines made of
// whitespace only are left untouched.
func Indent(text, prefix string) string {
	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}
