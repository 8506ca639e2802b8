// Function entrypoint for the AWS Lambda deployment. One invocation runs one
// fetch-and-publish cycle; the clients are built once per container.
package main

import (
	"context"
	"log/slog"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"guardian-ingest/internal/config"
	"guardian-ingest/internal/guardian"
	"guardian-ingest/internal/ingest"
	"guardian-ingest/internal/logger"
	"guardian-ingest/internal/models"
	"guardian-ingest/internal/secrets"
	"guardian-ingest/internal/sink"
)

func main() {
	log := logger.New("lambda")

	cfg, err := config.LoadIngest()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	if cfg.Sink != config.SinkSQS {
		log.Error("lambda supports only the sqs sink", slog.String("sink", cfg.Sink))
		os.Exit(1)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithDefaultRegion(cfg.Region),
	)
	if err != nil {
		log.Error("load aws config", slog.Any("err", err))
		os.Exit(1)
	}

	store := secrets.New(secretsmanager.NewFromConfig(awsCfg), log)
	source := guardian.New(guardian.Config{
		Endpoint:   cfg.GuardianEndpoint,
		SearchTerm: cfg.SearchTerm,
		FromDate:   cfg.FromDate,
		PageSize:   cfg.PageSize,
		OrderBy:    cfg.OrderBy,
		Timeout:    cfg.FetchTimeout,
	}, store.KeyFunc(cfg.SecretName), log)

	runner := ingest.New(source, sink.NewSQS(sqs.NewFromConfig(awsCfg), cfg.QueueURL, log), log)

	awslambda.Start(func(ctx context.Context) (models.InvocationResult, error) {
		return runner.Run(ctx)
	})
}
