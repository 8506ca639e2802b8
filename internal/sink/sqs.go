// Package sink contains the message sinks articles are published to: SQS for
// the AWS deployment and Kafka for broker-backed local runs.
package sink

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"guardian-ingest/internal/models"
)

// SQSAPI is the slice of the SQS client used by the sink.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQS publishes one SendMessage per article, addressed by queue URL.
type SQS struct {
	client   SQSAPI
	queueURL string
	log      *slog.Logger
}

// NewSQS wraps an SQS client and destination queue URL.
func NewSQS(client SQSAPI, queueURL string, log *slog.Logger) *SQS {
	return &SQS{client: client, queueURL: queueURL, log: log}
}

// Publish sends the serialized article as one message body. Ownership of the
// article transfers to the queue on success.
func (s *SQS) Publish(ctx context.Context, article models.Article) error {
	body, err := models.EncodeMessage(article)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	s.log.Debug("message sent",
		slog.String("article_id", article.ID),
		slog.String("message_id", aws.ToString(out.MessageId)),
	)
	return nil
}
