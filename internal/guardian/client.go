// Package guardian is a client for the Guardian content search API.
package guardian

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"guardian-ingest/internal/ingest"
	"guardian-ingest/internal/models"
)

// KeyFunc resolves the API credential at call time, so rotated secrets take
// effect without restarting the client.
type KeyFunc func(ctx context.Context) (string, error)

// StaticKey wraps a fixed credential into a KeyFunc.
func StaticKey(key string) KeyFunc {
	return func(context.Context) (string, error) {
		return key, nil
	}
}

// Config narrows the search query. The zero value is not usable; Endpoint and
// SearchTerm must be set.
type Config struct {
	Endpoint   string
	SearchTerm string
	FromDate   string
	PageSize   int
	OrderBy    string
	Timeout    time.Duration
}

// Client fetches one page of search results per call. Repeated upstream
// failures trip a circuit breaker so a broken API fails fast instead of
// burning the full HTTP timeout on every cycle.
type Client struct {
	cfg     Config
	key     KeyFunc
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *slog.Logger
}

// New instantiates the Guardian client.
func New(cfg Config, key KeyFunc, log *slog.Logger) *Client {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = "newest"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "guardian",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				slog.String("circuit", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Client{
		cfg:     cfg,
		key:     key,
		http:    &http.Client{Timeout: timeout},
		breaker: breaker,
		log:     log,
	}
}

// Fetch returns one page of articles matching the configured search term.
// Records without a web URL are dropped. Errors map onto the cycle taxonomy:
// a rejected credential yields ingest.ErrAuthentication, everything else
// yields ingest.ErrUpstreamUnavailable.
func (c *Client) Fetch(ctx context.Context) ([]models.Article, error) {
	apiKey, err := c.key(ctx)
	if err != nil {
		return nil, err
	}

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.search(ctx, apiKey)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: circuit open: %v", ingest.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}

	return out.([]models.Article), nil
}

func (c *Client) search(ctx context.Context, apiKey string) ([]models.Article, error) {
	u, err := url.Parse(c.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", c.cfg.SearchTerm)
	q.Set("api-key", apiKey)
	q.Set("page-size", strconv.Itoa(c.cfg.PageSize))
	q.Set("order-by", c.cfg.OrderBy)
	if c.cfg.FromDate != "" {
		q.Set("from-date", c.cfg.FromDate)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ingest.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ingest.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", ingest.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var parsed struct {
		Response struct {
			Results []models.Article `json:"results"`
		} `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ingest.ErrUpstreamUnavailable, err)
	}
	if parsed.Response.Results == nil {
		// A well-formed reply always carries response.results, even when empty.
		return nil, fmt.Errorf("%w: unexpected response shape", ingest.ErrUpstreamUnavailable)
	}

	articles := make([]models.Article, 0, len(parsed.Response.Results))
	for _, a := range parsed.Response.Results {
		if a.URL == "" {
			c.log.Debug("dropping article without url", slog.String("id", a.ID))
			continue
		}
		articles = append(articles, a)
	}

	return articles, nil
}
