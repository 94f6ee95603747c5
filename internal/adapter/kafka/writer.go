package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/vegetation-risk-locations/internal/config"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces location snapshots to a Kafka topic.
// It implements watch.SnapshotPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSnapshotTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSnapshot writes one message per location in a single WriteMessages
// call. Messages are keyed by capture id so updates for the same capture
// land on the same partition.
func (w *Writer) PublishSnapshot(ctx context.Context, fetchedAt time.Time, locations []domain.DisplayRecord) error {
	if len(locations) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(locations))
	for i := range locations {
		msg, err := serializeToMessage(locations[i], fetchedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	w.logger.Debug("published snapshot", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a DisplayRecord into a Kafka message.
func serializeToMessage(loc domain.DisplayRecord, fetchedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(loc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize location: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(loc.CaptureID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "risk", Value: []byte(loc.Risk)},
			{Key: "fetched_at", Value: []byte(fetchedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
