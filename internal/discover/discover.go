// Package discover finds product listing URLs for a free-form product
// name via the reader service's search endpoint.
package discover

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/resilience"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/reader"
)

// Config bounds discovery.
type Config struct {
	Site     string
	MaxLinks int
	Retries  int
}

type Discoverer struct {
	client reader.Client
	cfg    Config
}

func New(client reader.Client, cfg Config) *Discoverer {
	if cfg.MaxLinks <= 0 {
		cfg.MaxLinks = 5
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 2
	}
	return &Discoverer{client: client, cfg: cfg}
}

// Links searches for product pages matching the product name, scoped to
// the configured site. Discovery failing entirely returns an empty slice
// rather than an error so the caller can fall back to explicit URLs.
func (d *Discoverer) Links(ctx context.Context, product string) []string {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = d.cfg.Retries
	retry.ShouldRetry = resilience.IsTransient
	retry.OnRetry = resilience.RetryLogger("discover", "search")

	resp, err := resilience.DoVal(ctx, retry, func(ctx context.Context) (*reader.SearchResponse, error) {
		return d.client.Search(ctx, product, reader.WithSiteFilter(d.cfg.Site))
	})
	if err != nil {
		zap.L().Warn("product discovery failed",
			zap.String("product", product),
			zap.Error(err))
		return nil
	}

	var links []string
	seen := make(map[string]bool)
	for _, r := range resp.Data {
		u := strings.TrimSpace(r.URL)
		if u == "" || seen[u] {
			continue
		}
		if d.cfg.Site != "" && !strings.Contains(u, d.cfg.Site) {
			continue
		}
		seen[u] = true
		links = append(links, u)
		if len(links) >= d.cfg.MaxLinks {
			break
		}
	}
	zap.L().Info("discovered product links",
		zap.String("product", product),
		zap.Int("count", len(links)))
	return links
}
