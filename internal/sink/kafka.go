package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"guardian-ingest/internal/models"
)

// MessageWriter matches *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes articles onto a Kafka topic, keyed by article ID.
type Kafka struct {
	writer MessageWriter
	log    *slog.Logger
}

// NewKafka wraps a Kafka writer.
func NewKafka(writer MessageWriter, log *slog.Logger) *Kafka {
	return &Kafka{writer: writer, log: log}
}

// NewKafkaWriter builds the writer the poller hands to NewKafka.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return kafka.NewWriter(kafka.WriterConfig{
		Brokers:     brokers,
		Topic:       topic,
		MaxAttempts: 3,
	})
}

// Publish sends the serialized article as one Kafka message.
func (k *Kafka) Publish(ctx context.Context, article models.Article) error {
	body, err := models.EncodeMessage(article)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	if err := k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(article.ID),
		Value: body,
	}); err != nil {
		return fmt.Errorf("write message: %w", err)
	}

	k.log.Debug("message written", slog.String("article_id", article.ID))
	return nil
}

// Close flushes and closes the underlying writer.
func (k *Kafka) Close() error {
	return k.writer.Close()
}
