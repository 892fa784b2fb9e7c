package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/checklist-wind-map/internal/config"
	"github.com/couchcryptid/checklist-wind-map/internal/domain"
)

const sourceHeader = "checklist-wind-map"

// Writer publishes extracted checklist records to a Kafka topic.
// It implements orchestrator.RecordPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured record topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRecordTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRecord writes one record keyed by its checklist ID, or its
// coordinates when the page had none, so repeats of a checklist share a partition.
func (w *Writer) PublishRecord(ctx context.Context, rec domain.ChecklistRecord) error {
	msg, err := serializeToMessage(rec, domain.Now())
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish checklist record %s: %w", rec.Key(), err)
	}
	w.logger.Debug("checklist record published", "key", rec.Key(), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a ChecklistRecord into a Kafka message.
func serializeToMessage(rec domain.ChecklistRecord, publishedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize checklist record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(sourceHeader)},
			{Key: "published_at", Value: []byte(publishedAt.UTC().Format(time.RFC3339))},
		},
	}, nil
}
