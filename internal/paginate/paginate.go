// Package paginate walks a review listing page by page until the listing
// ends, the page budget runs out, or a page fails past its retry budget.
package paginate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/extract"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/fetch"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/resilience"
)

// Status reports how one page of the walk ended.
type Status int

const (
	// StatusOK means the page yielded at least one review.
	StatusOK Status = iota
	// StatusEndOfPages means the page parsed cleanly but held no reviews,
	// which is how both supported sites signal the end of a listing.
	StatusEndOfPages
	// StatusFailed means the page could not be fetched or parsed after
	// exhausting retries.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEndOfPages:
		return "end_of_pages"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PageResult is the per-page record of a walk.
type PageResult struct {
	Page   int
	Status Status
	Count  int
	Err    error
}

// Walker drives a fetcher and an extractor across a paginated listing.
type Walker struct {
	fetcher   fetch.Fetcher
	extractor *extract.Extractor
	maxPages  int
	retry     resilience.RetryConfig
}

func New(fetcher fetch.Fetcher, extractor *extract.Extractor, maxPages int, retry resilience.RetryConfig) *Walker {
	if maxPages <= 0 {
		maxPages = 1
	}
	return &Walker{fetcher: fetcher, extractor: extractor, maxPages: maxPages, retry: retry}
}

// Walk collects reviews for one product URL. Reviews gathered before a
// failure are kept; the error is non-nil only when the walk produced
// nothing at all and ended in failure.
func (w *Walker) Walk(ctx context.Context, productURL string) ([]model.Review, []PageResult, error) {
	profile := w.extractor.Profile()
	listing := profile.ReviewURL(productURL)

	var (
		all     []model.Review
		results []PageResult
	)
	for page := 1; page <= w.maxPages; page++ {
		pageURL := profile.PageURL(listing, page)

		reviews, err := w.fetchPage(ctx, pageURL)
		if err != nil {
			results = append(results, PageResult{Page: page, Status: StatusFailed, Err: err})
			zap.L().Warn("listing page failed",
				zap.String("url", pageURL),
				zap.Int("page", page),
				zap.Error(err))
			if len(all) == 0 {
				return nil, results, eris.Wrapf(err, "page %d of %s", page, listing)
			}
			return all, results, nil
		}
		if len(reviews) == 0 {
			results = append(results, PageResult{Page: page, Status: StatusEndOfPages})
			break
		}

		results = append(results, PageResult{Page: page, Status: StatusOK, Count: len(reviews)})
		all = append(all, reviews...)
		zap.L().Debug("listing page scraped",
			zap.Int("page", page),
			zap.Int("reviews", len(reviews)))
	}
	return all, results, nil
}

// WalkAll aggregates reviews across several product URLs for the same
// product. Links that fail entirely are logged and skipped.
func (w *Walker) WalkAll(ctx context.Context, productURLs []string) ([]model.Review, error) {
	var all []model.Review
	for _, u := range productURLs {
		reviews, _, err := w.Walk(ctx, u)
		if err != nil {
			zap.L().Warn("product link yielded no reviews", zap.String("url", u), zap.Error(err))
			continue
		}
		all = append(all, reviews...)
	}
	if len(all) == 0 {
		return nil, eris.New("no reviews collected from any product link")
	}
	return all, nil
}

func (w *Walker) fetchPage(ctx context.Context, pageURL string) ([]model.Review, error) {
	cfg := w.retry
	cfg.ShouldRetry = resilience.IsTransient
	html, err := resilience.DoVal(ctx, cfg, func(ctx context.Context) (string, error) {
		return w.fetcher.Fetch(ctx, pageURL)
	})
	if err != nil {
		return nil, err
	}
	return w.extractor.Reviews(html)
}
