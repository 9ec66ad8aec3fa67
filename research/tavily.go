// Tavily search adapter.
//
// Information Hiding:
// - Endpoint, authentication and request body of the Tavily search API
// - Mapping of the raw result array into model.ResultItem
// - Per-call deadline

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/richinex/discoverylens/model"
)

// tavilyAPIURL is the Tavily search endpoint. Declared as a var so tests
// can substitute an httptest server.
var tavilyAPIURL = "https://api.tavily.com/search"

// DefaultMaxResults is the number of items requested per query.
const DefaultMaxResults = 5

// maxResponseBytes bounds how much of a provider response is read.
const maxResponseBytes = 4 << 20

// Searcher issues a single web search.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (model.SearchResult, error)
}

// TavilyClient searches the web through the Tavily API.
type TavilyClient struct {
	client  *http.Client
	apiKey  string
	timeout time.Duration
}

// NewTavilyClient creates a Tavily adapter. A zero timeout leaves the
// caller's context as the only bound on each call.
func NewTavilyClient(apiKey string, timeout time.Duration) *TavilyClient {
	return &TavilyClient{
		client:  &http.Client{},
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *TavilyClient) WithHTTPClient(client *http.Client) *TavilyClient {
	c.client = client
	return c
}

type tavilyRequest struct {
	APIKey            string   `json:"api_key"`
	Query             string   `json:"query"`
	SearchDepth       string   `json:"search_depth"`
	IncludeAnswer     bool     `json:"include_answer"`
	IncludeRawContent bool     `json:"include_raw_content"`
	MaxResults        int      `json:"max_results"`
	IncludeDomains    []string `json:"include_domains"`
	ExcludeDomains    []string `json:"exclude_domains"`
}

type tavilyResponse struct {
	Results *[]tavilyResult `json:"results"`
}

type tavilyResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Search issues one advanced-depth query and normalizes up to maxResults items.
// A non-positive maxResults uses DefaultMaxResults. Every failure is a *ProviderError.
func (c *TavilyClient) Search(ctx context.Context, query string, maxResults int) (model.SearchResult, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(tavilyRequest{
		APIKey:         c.apiKey,
		Query:          query,
		SearchDepth:    "advanced",
		IncludeAnswer:  true,
		MaxResults:     maxResults,
		IncludeDomains: []string{},
		ExcludeDomains: []string{},
	})
	if err != nil {
		return model.SearchResult{}, &ProviderError{Query: query, Err: fmt.Errorf("encoding request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyAPIURL, bytes.NewReader(payload))
	if err != nil {
		return model.SearchResult{}, &ProviderError{Query: query, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.SearchResult{}, &ProviderError{Query: query, Err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return model.SearchResult{}, &ProviderError{Query: query, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.SearchResult{}, &ProviderError{Query: query, StatusCode: resp.StatusCode, Err: fmt.Errorf("HTTP %s", resp.Status)}
	}

	var tr tavilyResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return model.SearchResult{}, &ProviderError{Query: query, StatusCode: resp.StatusCode, Err: fmt.Errorf("parsing response: %w", err)}
	}
	if tr.Results == nil {
		return model.SearchResult{}, &ProviderError{Query: query, StatusCode: resp.StatusCode, Err: fmt.Errorf("response has no results array")}
	}

	items := make([]model.ResultItem, 0, len(*tr.Results))
	for _, r := range *tr.Results {
		if len(items) == maxResults {
			break
		}
		items = append(items, model.ResultItem{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
			Score:   r.Score,
		})
	}

	return model.SearchResult{Query: query, Results: items}, nil
}

// Verify TavilyClient implements Searcher
var _ Searcher = (*TavilyClient)(nil)
