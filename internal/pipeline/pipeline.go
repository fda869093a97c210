// Package pipeline runs the full acquisition flow for one product:
// discover links, walk review listings, export, normalize, index, and
// assemble the persisted bundle.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/config"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/corpus"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/discover"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/embed"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/export"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/extract"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/fetch"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/index"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/model"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/normalize"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/paginate"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/resilience"
)

// ErrNoLinks reports that neither the caller nor discovery produced any
// product URLs.
var ErrNoLinks = eris.New("no product links to scrape")

// ErrNoReviews reports that the walk produced no usable review text.
var ErrNoReviews = eris.New("no reviews collected")

// EmbedderFactory returns a fresh embedder. Index building and snapshot
// loading each need their own instance.
type EmbedderFactory func() embed.Embedder

// Builder assembles bundles.
type Builder struct {
	cfg         *config.Config
	disc        *discover.Discoverer
	static      fetch.Fetcher
	rendered    fetch.Fetcher
	norm        *normalize.Normalizer
	exporter    *export.Exporter
	newEmbedder EmbedderFactory
}

// Deps carries the wired collaborators. disc and rendered may be nil
// when no reader service is configured.
type Deps struct {
	Discoverer  *discover.Discoverer
	Static      fetch.Fetcher
	Rendered    fetch.Fetcher
	Normalizer  *normalize.Normalizer
	Exporter    *export.Exporter
	NewEmbedder EmbedderFactory
}

func New(cfg *config.Config, deps Deps) *Builder {
	return &Builder{
		cfg:         cfg,
		disc:        deps.Discoverer,
		static:      deps.Static,
		rendered:    deps.Rendered,
		norm:        deps.Normalizer,
		exporter:    deps.Exporter,
		newEmbedder: deps.NewEmbedder,
	}
}

// BundleBuilder adapts Build into the corpus service's build-on-miss
// callback.
func (b *Builder) BundleBuilder(product string, urls []string) corpus.Builder {
	return func(ctx context.Context) (*corpus.Bundle, error) {
		return b.Build(ctx, product, urls)
	}
}

// Build scrapes, normalizes, and indexes one product's reviews.
func (b *Builder) Build(ctx context.Context, product string, urls []string) (*corpus.Bundle, error) {
	links := urls
	if len(links) == 0 && b.disc != nil {
		links = b.disc.Links(ctx, product)
	}
	if len(links) == 0 {
		return nil, ErrNoLinks
	}

	profile, err := extract.ProfileFor(links[0])
	if err != nil {
		return nil, err
	}
	fetcher, err := b.fetcherFor(profile)
	if err != nil {
		return nil, err
	}

	extractor := extract.New(profile)
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = b.cfg.Scrape.Retries
	if profile.Rendered && b.cfg.Scrape.RenderRetries > 0 {
		retry.MaxAttempts = b.cfg.Scrape.RenderRetries
	}
	retry.OnRetry = resilience.RetryLogger("scrape", "fetch_page")
	walker := paginate.New(fetcher, extractor, b.cfg.Scrape.MaxPages, retry)

	reviews, err := walker.WalkAll(ctx, links)
	if err != nil {
		return nil, eris.Wrap(ErrNoReviews, err.Error())
	}
	zap.L().Info("reviews collected",
		zap.String("product", product),
		zap.Int("count", len(reviews)))

	if b.exporter != nil {
		b.exportReviews(product, reviews)
	}

	bodies := make([]string, 0, len(reviews))
	for _, r := range reviews {
		bodies = append(bodies, r.Body)
	}
	passages := b.norm.Normalize(bodies)
	if len(passages) == 0 {
		return nil, ErrNoReviews
	}

	emb := b.newEmbedder()
	ix, err := index.Build(ctx, passages, index.ChunkConfig{
		Size:    b.cfg.Chunk.Size,
		Overlap: b.cfg.Chunk.Overlap,
	}, emb)
	if err != nil {
		return nil, eris.Wrap(err, "build index")
	}
	snapshot, err := ix.Marshal()
	if err != nil {
		return nil, eris.Wrap(err, "snapshot index")
	}

	bundle := &corpus.Bundle{
		ID:        uuid.New().String(),
		Product:   product,
		Links:     links,
		Price:     model.Sentinel,
		ImageURL:  model.Sentinel,
		Reviews:   reviews,
		Passages:  passages,
		Index:     snapshot,
		CreatedAt: time.Now().UTC(),
	}
	b.fillDetails(ctx, fetcher, extractor, links[0], bundle)
	return bundle, nil
}

// OpenIndex rebuilds the searchable index from a bundle's snapshot.
func (b *Builder) OpenIndex(bundle *corpus.Bundle) (*index.Index, error) {
	return index.Unmarshal(bundle.Index, b.newEmbedder())
}

func (b *Builder) fetcherFor(profile extract.Profile) (fetch.Fetcher, error) {
	if !profile.Rendered {
		return b.static, nil
	}
	if b.rendered == nil {
		return nil, eris.Errorf("site %s needs rendering but no reader service is configured", profile.Name)
	}
	return b.rendered, nil
}

// Details are best effort; a bundle without price or image is still
// fully queryable.
func (b *Builder) fillDetails(ctx context.Context, fetcher fetch.Fetcher, extractor *extract.Extractor, productURL string, bundle *corpus.Bundle) {
	html, err := fetcher.Fetch(ctx, productURL)
	if err != nil {
		zap.L().Warn("product page fetch failed", zap.String("url", productURL), zap.Error(err))
		return
	}
	bundle.Price = extractor.Price(html)
	bundle.ImageURL = extractor.ImageURL(html)
}

func (b *Builder) exportReviews(product string, reviews []model.Review) {
	var err error
	switch b.cfg.Export.Format {
	case "xlsx":
		_, err = b.exporter.XLSX(product, reviews)
	default:
		_, err = b.exporter.CSV(product, reviews)
	}
	if err != nil {
		zap.L().Warn("review export failed", zap.String("product", product), zap.Error(err))
	}
}
