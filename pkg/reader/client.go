// Package reader provides a client for a reader-style rendering and search
// API (Jina AI Reader compatible). Read fetches a URL through a remote
// headless browser; Search performs a web search.
package reader

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Client defines the reader API operations.
type Client interface {
	// Read fetches a URL through the rendering service and returns the page
	// content in the requested format.
	Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error)
	// Search performs a web search and returns results.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error)
}

// ReadResponse is the parsed reader API response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the rendered content.
type ReadData struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	HTML    string `json:"html"`
}

// SearchResponse is the parsed search API response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult represents a single search result.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// ReadOption configures a read request.
type ReadOption func(*readOpts)

type readOpts struct {
	format      string
	waitForCSS  string
	timeoutSecs int
}

// WithFormat requests a specific return format ("html" or "markdown").
func WithFormat(format string) ReadOption {
	return func(o *readOpts) { o.format = format }
}

// WithWaitFor asks the renderer to wait for a CSS selector before capturing
// the page.
func WithWaitFor(selector string) ReadOption {
	return func(o *readOpts) { o.waitForCSS = selector }
}

// WithRenderTimeout bounds the render wait in seconds.
func WithRenderTimeout(secs int) ReadOption {
	return func(o *readOpts) { o.timeoutSecs = secs }
}

// SearchOption configures a search request.
type SearchOption func(*searchOpts)

type searchOpts struct {
	siteFilter string
}

// WithSiteFilter restricts search results to a specific domain.
func WithSiteFilter(domain string) SearchOption {
	return func(o *searchOpts) { o.siteFilter = domain }
}

// Option configures the reader client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithSearchBaseURL sets a custom search base URL (for testing).
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) { c.searchBaseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

type httpClient struct {
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
}

// NewClient creates a new reader client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       "https://r.jina.ai",
		searchBaseURL: "https://s.jina.ai",
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error) {
	var o readOpts
	for _, opt := range opts {
		opt(&o)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "reader: create read request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if o.format != "" {
		req.Header.Set("X-Return-Format", o.format)
	}
	if o.waitForCSS != "" {
		req.Header.Set("X-Wait-For-Selector", o.waitForCSS)
	}
	if o.timeoutSecs > 0 {
		req.Header.Set("X-Timeout", strconv.Itoa(o.timeoutSecs))
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "reader: read %s", targetURL)
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("reader: read %s: status %d", targetURL, status)
	}

	var parsed ReadResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "reader: decode read response")
	}
	return &parsed, nil
}

func (c *httpClient) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error) {
	var o searchOpts
	for _, opt := range opts {
		opt(&o)
	}

	q := query
	if o.siteFilter != "" {
		q += " site:" + o.siteFilter
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.searchBaseURL+"/?q="+url.QueryEscape(q), nil)
	if err != nil {
		return nil, eris.Wrap(err, "reader: create search request")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "reader: search %q", query)
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("reader: search %q: status %d", query, status)
	}

	var parsed SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "reader: decode search response")
	}
	return &parsed, nil
}

func (c *httpClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
