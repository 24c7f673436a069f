// Package kafka publishes the flat table to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-flat-etl/internal/config"
	"github.com/couchcryptid/weather-flat-etl/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces one message per flat row to the sink topic.
// It implements pipeline.Hook.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Name identifies the hook in logs and metrics.
func (w *Writer) Name() string { return "kafka" }

// Publish serializes and publishes the whole table in a single
// WriteMessages call. The table is never mutated.
func (w *Writer) Publish(ctx context.Context, rows []domain.FlatRow) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

// Close releases the underlying producer.
func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a flat row into a Kafka message keyed by date,
// so a compacted topic retains the latest row per date.
func serializeToMessage(row domain.FlatRow) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize flat row: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(row.Date.String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "data_type", Value: []byte(row.DataType)},
			{Key: "ingested_at", Value: []byte(row.IngestedAt.Format(time.RFC3339))},
		},
	}, nil
}
