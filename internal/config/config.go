package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Sink kinds selectable via the SINK variable.
const (
	SinkSQS   = "sqs"
	SinkKafka = "kafka"
)

const defaultEndpoint = "https://content.guardianapis.com/search"

// Ingest holds everything one fetch-and-publish cycle needs: the search query,
// the secret reference for the Guardian API key, and the destination sink.
type Ingest struct {
	SearchTerm       string
	FromDate         string
	GuardianEndpoint string
	PageSize         int
	OrderBy          string
	FetchTimeout     time.Duration

	SecretName string
	Region     string

	Sink         string
	QueueURL     string
	KafkaBrokers []string
	KafkaTopic   string
}

// Poller extends Ingest with the schedule and HTTP surface of the long-running
// poller binary.
type Poller struct {
	Ingest
	Schedule     string
	BindAddr     string
	CycleTimeout time.Duration
}

// LoadIngest builds an Ingest config from environment variables.
func LoadIngest() (*Ingest, error) {
	c := &Ingest{
		SearchTerm:       strings.TrimSpace(getEnv("SEARCH_TERM", "")),
		FromDate:         strings.TrimSpace(getEnv("FROM_DATE", "")),
		GuardianEndpoint: getEnv("GUARDIAN_ENDPOINT", defaultEndpoint),
		PageSize:         getInt("PAGE_SIZE", 10),
		OrderBy:          getEnv("ORDER_BY", "newest"),
		FetchTimeout:     getDuration("FETCH_TIMEOUT", "10s"),
		SecretName:       strings.TrimSpace(getEnv("SECRET_NAME", "")),
		Region:           getEnv("AWS_REGION", "eu-west-2"),
		Sink:             strings.ToLower(getEnv("SINK", SinkSQS)),
		QueueURL:         strings.TrimSpace(getEnv("SQS_QUEUE_URL", "")),
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "guardian_articles"),
	}

	if c.SearchTerm == "" {
		return nil, fmt.Errorf("SEARCH_TERM must not be empty")
	}
	if c.SecretName == "" {
		return nil, fmt.Errorf("SECRET_NAME must not be empty")
	}
	if c.FromDate != "" {
		if _, err := time.Parse("2006-01-02", c.FromDate); err != nil {
			return nil, fmt.Errorf("FROM_DATE must be YYYY-MM-DD: %w", err)
		}
	}
	if c.PageSize <= 0 || c.PageSize > 50 {
		return nil, fmt.Errorf("PAGE_SIZE must be between 1 and 50")
	}
	switch c.OrderBy {
	case "newest", "oldest", "relevance":
	default:
		return nil, fmt.Errorf("ORDER_BY must be newest, oldest or relevance")
	}

	switch c.Sink {
	case SinkSQS:
		if c.QueueURL == "" {
			return nil, fmt.Errorf("SQS_QUEUE_URL must not be empty when SINK=sqs")
		}
	case SinkKafka:
		if len(c.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker when SINK=kafka")
		}
		if strings.TrimSpace(c.KafkaTopic) == "" {
			return nil, fmt.Errorf("KAFKA_TOPIC must not be empty when SINK=kafka")
		}
	default:
		return nil, fmt.Errorf("SINK must be %q or %q", SinkSQS, SinkKafka)
	}

	return c, nil
}

// LoadPoller builds a Poller config from environment variables.
func LoadPoller() (*Poller, error) {
	ingest, err := LoadIngest()
	if err != nil {
		return nil, err
	}

	c := &Poller{
		Ingest:       *ingest,
		Schedule:     getEnv("POLL_SCHEDULE", "@every 15m"),
		BindAddr:     getEnv("POLLER_BIND_ADDR", "0.0.0.0:8080"),
		CycleTimeout: getDuration("CYCLE_TIMEOUT", "2m"),
	}

	if c.CycleTimeout <= 0 {
		return nil, fmt.Errorf("CYCLE_TIMEOUT must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	raw := getEnv(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil {
		fd, ferr := time.ParseDuration(fallback)
		if ferr != nil {
			panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
		}
		return fd
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
