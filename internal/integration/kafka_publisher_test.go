//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/gateway"
	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/kafka"
	"github.com/couchcryptid/vegetation-risk-locations/internal/config"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/locations"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/couchcryptid/vegetation-risk-locations/internal/watch"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSnapshotTopic = "test-snapshots"

// snapshotMessage holds a deserialized message read from the snapshot topic.
type snapshotMessage struct {
	Location domain.DisplayRecord
	Key      string
	Headers  map[string]string
}

func readSnapshot(ctx context.Context, t *testing.T, consumer *kafkago.Reader) snapshotMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from snapshot topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var loc domain.DisplayRecord
	require.NoError(t, json.Unmarshal(msg.Value, &loc), "unmarshal snapshot message")

	return snapshotMessage{Location: loc, Key: string(msg.Key), Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSnapshotTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestKafkaWriter verifies that a snapshot round-trips through Kafka with
// its key and headers intact.
func TestKafkaWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	fetchedAt := time.Date(2026, 2, 3, 18, 0, 0, 0, time.UTC)
	require.NoError(t, writer.PublishSnapshot(ctx, fetchedAt, domain.MockLocations()))

	sm := readSnapshot(ctx, t, newConsumer(t, broker))
	assert.Equal(t, "raspberry_pi_20260203_175034", sm.Key)
	assert.Equal(t, "HIGH", sm.Headers["risk"])
	assert.Equal(t, "2026-02-03T18:00:00Z", sm.Headers["fetched_at"])
	assert.Equal(t, domain.MockLocations()[0], sm.Location)
}

// TestWatcherEndToEnd wires gateway, service, watcher, and Kafka writer
// against a fixture gateway and verifies one snapshot is published.
func TestWatcherEndToEnd(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSnapshotTopic)

	cfg := &config.Config{KafkaBrokers: []string{broker}, KafkaSnapshotTopic: testSnapshotTopic}
	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	metrics := observability.NewMetricsForTesting()
	client := gateway.NewClient(fixtureGateway(t).URL, 5*time.Second, discardLogger(), metrics)
	svc := locations.NewService(client, discardLogger(), metrics)
	w := watch.New(svc, writer, discardLogger(), metrics, time.Hour)

	watchCtx, watchCancel := context.WithCancel(ctx)
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(watchCtx) }()

	consumer := newConsumer(t, broker)
	received := make(map[string]snapshotMessage)
	for len(received) < 5 {
		sm := readSnapshot(ctx, t, consumer)
		received[sm.Key] = sm
	}

	watchCancel()
	require.NoError(t, <-errCh)

	require.NoError(t, w.CheckReadiness(ctx))
	assert.False(t, svc.UsingMockData())

	assert.Equal(t, "BAD_IMAGE", received["raspberry_pi_20260203_175034"].Headers["risk"])
	assert.Equal(t, "HIGH", received["raspberry_pi_20260203_175104"].Headers["risk"])
	assert.Equal(t, "MEDIUM", received["raspberry_pi_20260203_175134"].Headers["risk"])
	assert.Equal(t, "38.9218, -83.1230", received["raspberry_pi_20260203_175104"].Location.Location)
	assert.False(t, received["cam1_20260203_175200"].Location.HasCoordinates)
}
