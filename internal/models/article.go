package models

import (
	"encoding/json"
	"fmt"
)

// Article is the subset of a Guardian content item carried through the
// pipeline. JSON field names follow the Guardian API so that the same struct
// decodes the search response and round-trips through a queue message.
type Article struct {
	ID              string `json:"id"`
	Title           string `json:"webTitle"`
	PublicationDate string `json:"webPublicationDate"`
	URL             string `json:"webUrl"`
}

// PublishFailure records one article that could not be published.
type PublishFailure struct {
	ArticleID string `json:"article_id"`
	Reason    string `json:"reason"`
}

// InvocationResult summarizes one fetch-and-publish cycle.
type InvocationResult struct {
	InvocationID string           `json:"invocation_id"`
	Fetched      int              `json:"fetched"`
	Published    int              `json:"published"`
	Failures     []PublishFailure `json:"failures,omitempty"`
}

// EncodeMessage serializes an Article into a queue message body.
func EncodeMessage(a Article) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal article: %w", err)
	}
	return body, nil
}

// DecodeMessage parses a queue message body back into an Article.
func DecodeMessage(body []byte) (Article, error) {
	var a Article
	if err := json.Unmarshal(body, &a); err != nil {
		return Article{}, fmt.Errorf("unmarshal article: %w", err)
	}
	return a, nil
}
