// Package llm wraps the Anthropic SDK behind a small completion interface.
package llm

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options controls sampling for one completion call.
type Options struct {
	MaxTokens   int64
	Temperature *float64
	// Stream requests the response as a token stream; the client concatenates
	// the streamed deltas and returns the full text either way.
	Stream bool
}

// Client defines the text generation operations used by the RAG engine.
type Client interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// sdkClient implements Client using the official anthropic-sdk-go.
type sdkClient struct {
	client sdk.Client
	model  string
}

// ClientOption configures the SDK client.
type ClientOption func(*[]option.RequestOption)

// WithBaseURL points the client at a custom endpoint (for testing).
func WithBaseURL(u string) ClientOption {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithBaseURL(u))
	}
}

// NewClient creates a generation client for the given model.
func NewClient(apiKey, model string, opts ...ClientOption) Client {
	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	for _, o := range opts {
		o(&reqOpts)
	}
	return &sdkClient{
		client: sdk.NewClient(reqOpts...),
		model:  model,
	}
}

func (c *sdkClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: opts.MaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = 1024
	}
	if opts.Temperature != nil {
		params.Temperature = sdk.Float(*opts.Temperature)
	}

	if opts.Stream {
		return c.completeStreaming(ctx, params)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", eris.Wrap(err, "llm: create message")
	}

	return textFromMessage(msg), nil
}

func (c *sdkClient) completeStreaming(ctx context.Context, params sdk.MessageNewParams) (string, error) {
	stream := c.client.Messages.NewStreaming(ctx, params)

	msg := sdk.Message{}
	for stream.Next() {
		event := stream.Current()
		if err := msg.Accumulate(event); err != nil {
			return "", eris.Wrap(err, "llm: accumulate stream event")
		}
	}
	if err := stream.Err(); err != nil {
		return "", eris.Wrap(err, "llm: stream")
	}

	zap.L().Debug("llm: streamed completion",
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)

	return textFromMessage(&msg), nil
}

func textFromMessage(msg *sdk.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(b.String())
}
