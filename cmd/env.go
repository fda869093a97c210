package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/eapenjoshymuttom/Review-consolidator/internal/assist"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/corpus"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/discover"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/embed"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/export"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/fetch"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/normalize"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/pipeline"
	"github.com/eapenjoshymuttom/Review-consolidator/internal/rag"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/llm"
	"github.com/eapenjoshymuttom/Review-consolidator/pkg/reader"
)

// engineEnv holds the initialized store, builder, and query engine used
// by every command. Callers should defer env.Close().
type engineEnv struct {
	Service   *corpus.Service
	Builder   *pipeline.Builder
	Engine    *rag.Engine
	Assistant *assist.Assistant

	closeFns []func()
}

func (e *engineEnv) Close() {
	for _, fn := range e.closeFns {
		fn()
	}
}

func initEngine(ctx context.Context) (*engineEnv, error) {
	env := &engineEnv{}

	store, err := initStore(ctx, env)
	if err != nil {
		return nil, err
	}
	env.Service = corpus.NewService(store)

	norm, err := normalize.New(normalize.Config{
		MinTokens:      cfg.Normalize.MinTokens,
		SplitSentences: cfg.Normalize.SplitSentences,
		Dedup:          cfg.Normalize.Dedup,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init normalizer")
	}

	static := fetch.NewStatic(fetch.Config{
		Timeout:    time.Duration(cfg.Scrape.TimeoutSecs) * time.Second,
		RatePerSec: cfg.Scrape.RatePerSec,
		DelayMin:   time.Duration(cfg.Scrape.DelayMinMs) * time.Millisecond,
		DelayMax:   time.Duration(cfg.Scrape.DelayMaxMs) * time.Millisecond,
	})

	deps := pipeline.Deps{
		Static:      static,
		Normalizer:  norm,
		Exporter:    export.New(cfg.Export.Dir),
		NewEmbedder: newEmbedder,
	}

	if cfg.Reader.Key != "" {
		readerOpts := []reader.Option{reader.WithBaseURL(cfg.Reader.BaseURL)}
		if cfg.Reader.SearchBaseURL != "" {
			readerOpts = append(readerOpts, reader.WithSearchBaseURL(cfg.Reader.SearchBaseURL))
		}
		rc := reader.NewClient(cfg.Reader.Key, readerOpts...)
		deps.Rendered = fetch.NewRendered(rc, "", 30*time.Second)
		deps.Discoverer = discover.New(rc, discover.Config{
			Site:     cfg.Discover.Site,
			MaxLinks: cfg.Discover.MaxLinks,
			Retries:  cfg.Discover.Retries,
		})
	} else {
		zap.L().Debug("REVIEW_READER_KEY not set, rendered fetching and discovery disabled")
	}

	env.Builder = pipeline.New(cfg, deps)

	if cfg.Anthropic.Key != "" {
		client := llm.NewClient(cfg.Anthropic.Key, cfg.Anthropic.Model)
		env.Engine = rag.New(client, rag.Config{
			TopK:        cfg.RAG.TopK,
			SummaryTopK: cfg.RAG.SummaryTopK,
			MaxTokens:   cfg.Anthropic.MaxTokens,
			Temperature: cfg.RAG.Temperature,
			Stream:      cfg.RAG.Stream,
		})
		env.Assistant = assist.New(client, cfg.Anthropic.MaxTokens)
	}

	return env, nil
}

// requireEngine fails early for commands that cannot run without the
// Anthropic key.
func (e *engineEnv) requireEngine() error {
	if e.Engine == nil {
		return eris.New("REVIEW_ANTHROPIC_KEY is required for this command")
	}
	return nil
}

func initStore(ctx context.Context, env *engineEnv) (corpus.Store, error) {
	switch cfg.Store.Driver {
	case "", "file":
		return corpus.NewFileStore(cfg.Store.Dir)
	case "sqlite":
		s, err := corpus.NewSQLite(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		env.closeFns = append(env.closeFns, func() { _ = s.Close() })
		return s, nil
	case "postgres":
		s, err := corpus.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, err
		}
		env.closeFns = append(env.closeFns, s.Close)
		return s, nil
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func newEmbedder() embed.Embedder {
	if cfg.Embed.Provider == "api" {
		opts := []embed.APIOption{}
		if cfg.Embed.Dimension > 0 {
			opts = append(opts, embed.WithDimension(cfg.Embed.Dimension))
		}
		return embed.NewAPI(cfg.Embed.BaseURL, cfg.Embed.Key, cfg.Embed.Model, opts...)
	}
	return embed.NewTFIDF()
}
