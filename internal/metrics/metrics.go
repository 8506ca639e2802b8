// Package metrics defines the Prometheus collectors for the ingestion
// pipeline. The poller binary exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ArticlesFetched counts articles returned by the content API.
	ArticlesFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardian_articles_fetched_total",
		Help: "Articles fetched from the Guardian content API.",
	})

	// ArticlesPublished counts articles delivered to the sink.
	ArticlesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardian_articles_published_total",
		Help: "Articles published to the destination queue.",
	})

	// PublishFailures counts per-article publish failures.
	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "guardian_publish_failures_total",
		Help: "Articles that failed to publish.",
	})

	// FetchErrors counts failed fetch cycles by reason.
	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "guardian_fetch_errors_total",
		Help: "Fetch cycles that failed before any publish.",
	}, []string{"reason"})
)
