package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
)

const (
	messageTypeVerdict = "verdict"
	messageTypeSummary = "summary"
)

type verdictEnvelope struct {
	Type       string           `json:"type"`
	RunID      string           `json:"run_id"`
	Sequence   int              `json:"sequence"`
	Case       string           `json:"case"`
	Status     execution.Status `json:"status"`
	Actual     string           `json:"actual,omitempty"`
	Expected   *string          `json:"expected,omitempty"`
	Diagnostic string           `json:"diagnostic,omitempty"`
	DurationMs int64            `json:"duration_ms"`
	Timestamp  time.Time        `json:"timestamp"`
}

type summaryEnvelope struct {
	Type      string                   `json:"type"`
	RunID     string                   `json:"run_id"`
	Passed    bool                     `json:"passed"`
	Counts    map[execution.Status]int `json:"counts"`
	Cases     []summaryCase            `json:"cases"`
	Timestamp time.Time                `json:"timestamp"`
}

type summaryCase struct {
	Case   string           `json:"case"`
	Status execution.Status `json:"status"`
}

func encodeVerdict(runID string, seq int, v execution.Verdict) ([]byte, error) {
	payload, err := json.Marshal(verdictEnvelope{
		Type:       messageTypeVerdict,
		RunID:      runID,
		Sequence:   seq,
		Case:       v.CaseName,
		Status:     v.Status,
		Actual:     v.Actual,
		Expected:   v.Expected,
		Diagnostic: v.Diagnostic,
		DurationMs: v.Duration.Milliseconds(),
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal verdict: %w", err)
	}
	return payload, nil
}

func encodeSummary(runID string, verdicts []execution.Verdict) ([]byte, error) {
	report := execution.SuiteReport{Verdicts: verdicts}

	counts := make(map[execution.Status]int)
	for _, status := range execution.Statuses {
		if n := report.Count(status); n > 0 {
			counts[status] = n
		}
	}

	cases := make([]summaryCase, 0, len(verdicts))
	for _, v := range verdicts {
		cases = append(cases, summaryCase{Case: v.CaseName, Status: v.Status})
	}

	payload, err := json.Marshal(summaryEnvelope{
		Type:      messageTypeSummary,
		RunID:     runID,
		Passed:    report.Passed(),
		Counts:    counts,
		Cases:     cases,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	return payload, nil
}
