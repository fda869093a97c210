package fetch

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/eapenjoshymuttom/Review-consolidator/pkg/reader"
)

type renderedFetcher struct {
	client  reader.Client
	waitFor string
	timeout time.Duration
}

// NewRendered builds a fetcher that retrieves fully rendered HTML through
// the reader service. waitFor is the selector the renderer blocks on
// before capturing the page.
func NewRendered(client reader.Client, waitFor string, timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &renderedFetcher{client: client, waitFor: waitFor, timeout: timeout}
}

func (f *renderedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	opts := []reader.ReadOption{
		reader.WithFormat("html"),
		reader.WithRenderTimeout(int(f.timeout.Seconds())),
	}
	if f.waitFor != "" {
		opts = append(opts, reader.WithWaitFor(f.waitFor))
	}
	resp, err := f.client.Read(ctx, url, opts...)
	if err != nil {
		return "", eris.Wrapf(err, "render %s", url)
	}
	if resp.Data.HTML != "" {
		return resp.Data.HTML, nil
	}
	return resp.Data.Content, nil
}
