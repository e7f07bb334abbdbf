package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/yuriacats/atcoder-helper/internal/domain/execution"
	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// Ensure Publisher implements ports.Reporter.
var _ ports.Reporter = (*Publisher)(nil)

// PublisherConfig configures the Kafka-based verdict publisher.
type PublisherConfig struct {
	Brokers []string
	Topic   string
	// RunID keys every message of one suite run. A random UUID is used when empty.
	RunID string
}

// Publisher publishes verdict events to Kafka. All events of a run share one
// key, so they land on one partition in the order they were reported.
type Publisher struct {
	writer messageWriter
	runID  string

	mu  sync.Mutex
	seq int
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// NewPublisher constructs a Publisher using the supplied configuration.
func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker must be provided")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic must be provided")
	}

	writer := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
	}

	return newPublisher(writer, cfg.RunID), nil
}

func newPublisher(writer messageWriter, runID string) *Publisher {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &Publisher{writer: writer, runID: runID}
}

// RunID returns the key attached to every published message.
func (p *Publisher) RunID() string {
	return p.runID
}

// ReportCase publishes one verdict event.
func (p *Publisher) ReportCase(ctx context.Context, verdict execution.Verdict) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	payload, err := encodeVerdict(p.runID, seq, verdict)
	if err != nil {
		return err
	}
	return p.publish(ctx, payload)
}

// ReportSummary publishes the closing summary event of the run.
func (p *Publisher) ReportSummary(ctx context.Context, verdicts []execution.Verdict) error {
	payload, err := encodeSummary(p.runID, verdicts)
	if err != nil {
		return err
	}
	return p.publish(ctx, payload)
}

func (p *Publisher) publish(ctx context.Context, payload []byte) error {
	if p.writer == nil {
		return fmt.Errorf("publisher is not initialized")
	}

	msg := kafkago.Message{
		Key:   []byte(p.runID),
		Value: payload,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	return nil
}

// Close releases the underlying Kafka writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
