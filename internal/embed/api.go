package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/resilience"
)

// APIEmbedder calls an OpenAI-compatible /embeddings endpoint. It has no
// fitting phase; the vector dimension is pinned during Prepare by probing
// the endpoint once, unless configured up front.
type APIEmbedder struct {
	baseURL   string
	apiKey    string
	model     string
	dimension int

	http  *http.Client
	retry resilience.RetryConfig
}

// APIOption configures the API embedder.
type APIOption func(*APIEmbedder)

// WithDimension pins the expected vector dimension up front.
func WithDimension(dim int) APIOption {
	return func(e *APIEmbedder) { e.dimension = dim }
}

// WithEmbedHTTPClient sets a custom HTTP client.
func WithEmbedHTTPClient(hc *http.Client) APIOption {
	return func(e *APIEmbedder) { e.http = hc }
}

// NewAPI creates an embedder backed by a remote embeddings endpoint.
func NewAPI(baseURL, apiKey, model string, opts ...APIOption) *APIEmbedder {
	e := &APIEmbedder{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
		retry:   resilience.DefaultRetryConfig(),
	}
	if e.baseURL == "" {
		e.baseURL = "https://api.openai.com/v1"
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *APIEmbedder) Name() string { return "api" }

// Prepare needs no corpus fitting; it pins the vector dimension with a
// single probe request so later Embed calls never mutate the embedder.
func (e *APIEmbedder) Prepare(ctx context.Context, corpus []string) error {
	if e.dimension > 0 || len(corpus) == 0 {
		return nil
	}
	vec, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) ([]float64, error) {
		return e.embedOnce(ctx, corpus[0])
	})
	if err != nil {
		return eris.Wrap(err, "embed: probe dimension")
	}
	e.dimension = len(vec)
	return nil
}

func (e *APIEmbedder) Dimension() int { return e.dimension }

// Embed requests an embedding vector and L2-normalizes it so the index can
// rank by plain dot product.
func (e *APIEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	vec, err := resilience.DoVal(ctx, e.retry, func(ctx context.Context) ([]float64, error) {
		return e.embedOnce(ctx, text)
	})
	if err != nil {
		return nil, err
	}

	if e.dimension > 0 && len(vec) != e.dimension {
		return nil, eris.Errorf("embed: dimension mismatch: got %d, want %d", len(vec), e.dimension)
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum > 0 {
		inv := 1 / math.Sqrt(sum)
		for i := range vec {
			vec[i] *= inv
		}
	}

	return vec, nil
}

func (e *APIEmbedder) embedOnce(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(map[string]string{
		"input": text,
		"model": e.model,
	})
	if err != nil {
		return nil, eris.Wrap(err, "embed: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.baseURL+"/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "embed: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "embed: request")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "embed: read response")
	}
	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("embed: status %d", resp.StatusCode)
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	var parsed struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "embed: decode response")
	}
	if len(parsed.Data) == 0 || len(parsed.Data[0].Embedding) == 0 {
		return nil, eris.New("embed: empty embedding in response")
	}

	return parsed.Data[0].Embedding, nil
}
