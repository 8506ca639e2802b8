// Package ingest implements the fetch-and-publish cycle: pull one page of
// articles from a content source and hand each one to a message sink.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"guardian-ingest/internal/metrics"
	"guardian-ingest/internal/models"
)

// ArticleSource yields one page of articles per call. The query (search term,
// page size, ordering) is bound at construction time.
type ArticleSource interface {
	Fetch(ctx context.Context) ([]models.Article, error)
}

// MessageSink delivers one article to the destination queue.
type MessageSink interface {
	Publish(ctx context.Context, article models.Article) error
}

// Runner orchestrates one cycle. It holds no state between runs.
type Runner struct {
	source ArticleSource
	sink   MessageSink
	log    *slog.Logger
}

// New wires a source and a sink into a Runner.
func New(source ArticleSource, sink MessageSink, log *slog.Logger) *Runner {
	return &Runner{source: source, sink: sink, log: log}
}

// Run performs one fetch-and-publish cycle. A fetch failure aborts the cycle
// with zero publishes. A publish failure is recorded in the result and the
// remaining articles are still attempted; each fetched article is attempted
// exactly once, duplicates included.
func (r *Runner) Run(ctx context.Context) (models.InvocationResult, error) {
	res := models.InvocationResult{InvocationID: uuid.NewString()}

	articles, err := r.source.Fetch(ctx)
	if err != nil {
		metrics.FetchErrors.WithLabelValues(fetchErrorReason(err)).Inc()
		return res, fmt.Errorf("fetch articles: %w", err)
	}

	res.Fetched = len(articles)
	metrics.ArticlesFetched.Add(float64(len(articles)))

	if len(articles) == 0 {
		r.log.Info("no articles found", slog.String("invocation_id", res.InvocationID))
		return res, nil
	}

	for _, article := range articles {
		if err := r.sink.Publish(ctx, article); err != nil {
			r.log.Warn("publish failed, continuing with remaining articles",
				slog.Any("err", err),
				slog.String("article_id", article.ID),
			)
			res.Failures = append(res.Failures, models.PublishFailure{
				ArticleID: article.ID,
				Reason:    err.Error(),
			})
			metrics.PublishFailures.Inc()
			continue
		}
		res.Published++
		metrics.ArticlesPublished.Inc()
	}

	r.log.Info("cycle finished",
		slog.String("invocation_id", res.InvocationID),
		slog.Int("fetched", res.Fetched),
		slog.Int("published", res.Published),
		slog.Int("failed", len(res.Failures)),
	)

	return res, nil
}

func fetchErrorReason(err error) string {
	switch {
	case errors.Is(err, ErrAuthentication):
		return "authentication"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream"
	default:
		return "other"
	}
}
