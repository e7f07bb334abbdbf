//go:build integration

package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/testhelpers"
)

func TestPublisherPublishesToKafka(t *testing.T) {
	t.Parallel()

	if testing.Short() {
		t.Skip("skipping Kafka integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	topic := "verdicts"
	broker := testhelpers.StartKafka(ctx, t, topic)

	publisher, err := NewPublisher(PublisherConfig{
		Brokers: []string{broker},
		Topic:   topic,
	})
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer publisher.Close()

	verdict := execution.Verdict{
		CaseName: "sample1",
		Status:   execution.StatusAccepted,
		Actual:   "3\n",
		Expected: execution.ExpectedOutput("3\n"),
	}
	if err := publisher.ReportCase(ctx, verdict); err != nil {
		t.Fatalf("ReportCase returned error: %v", err)
	}
	if err := publisher.ReportSummary(ctx, []execution.Verdict{verdict}); err != nil {
		t.Fatalf("ReportSummary returned error: %v", err)
	}

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: "integration-test",
	})
	t.Cleanup(func() {
		_ = reader.Close()
	})

	readCtx, cancelRead := context.WithTimeout(ctx, 20*time.Second)
	defer cancelRead()

	first, err := reader.ReadMessage(readCtx)
	if err != nil {
		t.Fatalf("failed to read verdict message: %v", err)
	}
	var envelope verdictEnvelope
	if err := json.Unmarshal(first.Value, &envelope); err != nil {
		t.Fatalf("failed to decode verdict: %v", err)
	}
	if envelope.RunID != publisher.RunID() || envelope.Case != "sample1" || envelope.Status != execution.StatusAccepted {
		t.Fatalf("unexpected verdict envelope: %+v", envelope)
	}

	second, err := reader.ReadMessage(readCtx)
	if err != nil {
		t.Fatalf("failed to read summary message: %v", err)
	}
	var summary summaryEnvelope
	if err := json.Unmarshal(second.Value, &summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}
	if summary.Type != messageTypeSummary || !summary.Passed {
		t.Fatalf("unexpected summary envelope: %+v", summary)
	}
}
