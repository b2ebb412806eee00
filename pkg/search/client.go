package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "https://www.googleapis.com/customsearch/v1"

	// MaxResults caps how many hits are handed to the answer composer,
	// regardless of how many the provider returns.
	MaxResults = 3
)

// SearchResult is one hit from the scoped government index.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Searcher runs a single scoped web search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// GoogleCSEClient queries the Google Custom Search JSON API with an engine id
// restricted to government domains.
type GoogleCSEClient struct {
	apiKey  string
	cseID   string
	baseURL string
	client  *http.Client
}

var _ Searcher = (*GoogleCSEClient)(nil)

func NewGoogleCSEClient(apiKey, cseID, baseURL string, timeout time.Duration) *GoogleCSEClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &GoogleCSEClient{
		apiKey:  apiKey,
		cseID:   cseID,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type cseResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search issues one GET and returns at most MaxResults hits in provider order.
// On any transport, status or decoding failure it returns an empty slice
// together with an error wrapping ErrSearchUnavailable; callers treat that as
// "no results" plus a warning. A response without items is not an error.
func (c *GoogleCSEClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	ctx, span := otel.Tracer("askgov-sg/search").Start(ctx, "search.google_cse", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	results, err := c.search(ctx, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return []SearchResult{}, err
	}
	span.SetAttributes(attribute.Int("search.result_count", len(results)))
	return results, nil
}

func (c *GoogleCSEClient) search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("cx", c.cseID)
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", ErrSearchUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrSearchUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSearchUnavailable, resp.StatusCode)
	}

	var parsed cseResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchUnavailable, err)
	}

	items := parsed.Items
	if len(items) > MaxResults {
		items = items[:MaxResults]
	}

	results := make([]SearchResult, 0, len(items))
	for _, item := range items {
		results = append(results, SearchResult{
			Title:   item.Title,
			Snippet: item.Snippet,
			URL:     item.Link,
		})
	}
	return results, nil
}

// redact drops the request URL from transport errors; it carries the API key.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
