//go:build integration

package testhelpers

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	kafkatc "github.com/testcontainers/testcontainers-go/modules/kafka"
)

const (
	kafkaImage         = "confluentinc/confluent-local:7.7.0"
	brokerWaitInterval = 500 * time.Millisecond
	brokerWaitTimeout  = 30 * time.Second
)

// StartKafka runs a single-node Kafka container, creates topic on it and
// returns the broker address. The test is skipped when Docker is unavailable.
func StartKafka(ctx context.Context, t *testing.T, topic string) string {
	t.Helper()

	container, err := kafkatc.Run(ctx, kafkaImage)
	if err != nil {
		t.Skipf("skipping Kafka integration test (requires Docker): %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("failed to obtain bootstrap servers: %v", err)
	}
	if len(brokers) == 0 {
		t.Fatal("kafka provided zero bootstrap servers")
	}

	broker := brokers[0]
	if err := waitForBroker(ctx, broker); err != nil {
		t.Fatalf("wait for broker: %v", err)
	}
	if err := ensureTopic(ctx, broker, topic); err != nil {
		t.Fatalf("ensure topic: %v", err)
	}
	return broker
}

func waitForBroker(ctx context.Context, broker string) error {
	deadline := time.Now().Add(brokerWaitTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}

	for time.Now().Before(deadline) {
		conn, err := kafkago.DialContext(ctx, "tcp", broker)
		if err == nil {
			_ = conn.Close()
			return nil
		}

		select {
		case <-time.After(brokerWaitInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("kafka broker %q not ready before timeout", broker)
}

func ensureTopic(ctx context.Context, broker, topic string) error {
	conn, err := kafkago.DialContext(ctx, "tcp", broker)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	addr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	ctrl, err := kafkago.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial controller: %w", err)
	}
	defer ctrl.Close()

	return ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
}
