package sink_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/require"

	"guardian-ingest/internal/models"
	"guardian-ingest/internal/sink"
)

type stubSQSAPI struct {
	inputs []*awssqs.SendMessageInput
	err    error
}

func (s *stubSQSAPI) SendMessage(_ context.Context, params *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	s.inputs = append(s.inputs, params)
	if s.err != nil {
		return nil, s.err
	}
	return &awssqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQSPublish(t *testing.T) {
	api := &stubSQSAPI{}
	queueURL := "https://sqs.eu-west-2.amazonaws.com/123456789012/guardian-articles"
	s := sink.NewSQS(api, queueURL, discard())

	article := models.Article{
		ID:              "world/2025/jan/01/example",
		Title:           "Example",
		PublicationDate: "2025-01-01T00:00:00Z",
		URL:             "https://www.theguardian.com/world/2025/jan/01/example",
	}

	require.NoError(t, s.Publish(context.Background(), article))
	require.Len(t, api.inputs, 1)

	in := api.inputs[0]
	require.Equal(t, queueURL, aws.ToString(in.QueueUrl))

	decoded, err := models.DecodeMessage([]byte(aws.ToString(in.MessageBody)))
	require.NoError(t, err)
	require.Equal(t, article, decoded)
}

func TestSQSPublishFailure(t *testing.T) {
	api := &stubSQSAPI{err: errors.New("queue rejected")}
	s := sink.NewSQS(api, "https://example.com/q", discard())

	err := s.Publish(context.Background(), models.Article{ID: "a"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "queue rejected")
}
