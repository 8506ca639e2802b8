package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"guardian-ingest/internal/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SEARCH_TERM", "machine learning")
	t.Setenv("SECRET_NAME", "GuardianAPIKey")
	t.Setenv("SQS_QUEUE_URL", "https://sqs.eu-west-2.amazonaws.com/123456789012/guardian-articles")
}

func TestLoadIngestDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("FROM_DATE", "")
	t.Setenv("GUARDIAN_ENDPOINT", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("ORDER_BY", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("SINK", "")
	t.Setenv("FETCH_TIMEOUT", "")

	cfg, err := config.LoadIngest()
	require.NoError(t, err)

	require.Equal(t, "machine learning", cfg.SearchTerm)
	require.Equal(t, "GuardianAPIKey", cfg.SecretName)
	require.Equal(t, "https://content.guardianapis.com/search", cfg.GuardianEndpoint)
	require.Equal(t, 10, cfg.PageSize)
	require.Equal(t, "newest", cfg.OrderBy)
	require.Equal(t, "eu-west-2", cfg.Region)
	require.Equal(t, config.SinkSQS, cfg.Sink)
	require.Equal(t, 10*time.Second, cfg.FetchTimeout)
	require.Empty(t, cfg.FromDate)
}

func TestLoadIngestOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FROM_DATE", "2025-01-31")
	t.Setenv("GUARDIAN_ENDPOINT", "http://localhost:9999/search")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("ORDER_BY", "oldest")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("FETCH_TIMEOUT", "30s")
	t.Setenv("SINK", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092, broker-b:29093")
	t.Setenv("KAFKA_TOPIC", "articles_raw")

	cfg, err := config.LoadIngest()
	require.NoError(t, err)

	require.Equal(t, "2025-01-31", cfg.FromDate)
	require.Equal(t, "http://localhost:9999/search", cfg.GuardianEndpoint)
	require.Equal(t, 25, cfg.PageSize)
	require.Equal(t, "oldest", cfg.OrderBy)
	require.Equal(t, "us-east-1", cfg.Region)
	require.Equal(t, 30*time.Second, cfg.FetchTimeout)
	require.Equal(t, config.SinkKafka, cfg.Sink)
	require.Equal(t, []string{"broker-a:29092", "broker-b:29093"}, cfg.KafkaBrokers)
	require.Equal(t, "articles_raw", cfg.KafkaTopic)
}

func TestLoadIngestValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing search term", env: map[string]string{"SEARCH_TERM": "  "}},
		{name: "missing secret name", env: map[string]string{"SECRET_NAME": " "}},
		{name: "bad from date", env: map[string]string{"FROM_DATE": "31-01-2025"}},
		{name: "zero page size", env: map[string]string{"PAGE_SIZE": "0"}},
		{name: "oversized page", env: map[string]string{"PAGE_SIZE": "51"}},
		{name: "bad order", env: map[string]string{"ORDER_BY": "random"}},
		{name: "unknown sink", env: map[string]string{"SINK": "rabbitmq"}},
		{name: "sqs without queue url", env: map[string]string{"SQS_QUEUE_URL": " "}},
		{name: "kafka without topic", env: map[string]string{"SINK": "kafka", "KAFKA_TOPIC": "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := config.LoadIngest()
			require.Error(t, err)
		})
	}
}

func TestLoadPoller(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_SCHEDULE", "@every 5m")
	t.Setenv("POLLER_BIND_ADDR", ":9090")
	t.Setenv("CYCLE_TIMEOUT", "90s")

	cfg, err := config.LoadPoller()
	require.NoError(t, err)

	require.Equal(t, "@every 5m", cfg.Schedule)
	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, 90*time.Second, cfg.CycleTimeout)
	require.Equal(t, "machine learning", cfg.SearchTerm)
}

func TestLoadPollerDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("POLL_SCHEDULE", "")
	t.Setenv("POLLER_BIND_ADDR", "")
	t.Setenv("CYCLE_TIMEOUT", "")

	cfg, err := config.LoadPoller()
	require.NoError(t, err)

	require.Equal(t, "@every 15m", cfg.Schedule)
	require.Equal(t, "0.0.0.0:8080", cfg.BindAddr)
	require.Equal(t, 2*time.Minute, cfg.CycleTimeout)
}

func TestLoadPollerRejectsNegativeTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("CYCLE_TIMEOUT", "-5s")

	_, err := config.LoadPoller()
	require.Error(t, err)
}
