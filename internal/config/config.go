// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Reader    ReaderConfig    `yaml:"reader" mapstructure:"reader"`
	Discover  DiscoverConfig  `yaml:"discover" mapstructure:"discover"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Embed     EmbedConfig     `yaml:"embed" mapstructure:"embed"`
	Chunk     ChunkConfig     `yaml:"chunk" mapstructure:"chunk"`
	Normalize NormalizeConfig `yaml:"normalize" mapstructure:"normalize"`
	RAG       RAGConfig       `yaml:"rag" mapstructure:"rag"`
	Export    ExportConfig    `yaml:"export" mapstructure:"export"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures bundle persistence.
type StoreConfig struct {
	// Driver selects the backend: "file", "sqlite" or "postgres".
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Dir         string `yaml:"dir" mapstructure:"dir"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ScrapeConfig configures review page fetching and pagination.
type ScrapeConfig struct {
	MaxPages      int     `yaml:"max_pages" mapstructure:"max_pages"`
	Retries       int     `yaml:"retries" mapstructure:"retries"`
	RenderRetries int     `yaml:"render_retries" mapstructure:"render_retries"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	DelayMinMs    int     `yaml:"delay_min_ms" mapstructure:"delay_min_ms"`
	DelayMaxMs    int     `yaml:"delay_max_ms" mapstructure:"delay_max_ms"`
	RatePerSec    float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// ReaderConfig holds the rendering/search reader API settings.
type ReaderConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// DiscoverConfig configures product link discovery.
type DiscoverConfig struct {
	Site     string `yaml:"site" mapstructure:"site"`
	MaxLinks int    `yaml:"max_links" mapstructure:"max_links"`
	Retries  int    `yaml:"retries" mapstructure:"retries"`
}

// AnthropicConfig holds Anthropic API settings for answer generation.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// EmbedConfig selects and configures the embedding provider.
type EmbedConfig struct {
	// Provider is "tfidf" (local, deterministic) or "api".
	Provider  string `yaml:"provider" mapstructure:"provider"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	Dimension int    `yaml:"dimension" mapstructure:"dimension"`
}

// ChunkConfig configures the sliding-window chunker.
type ChunkConfig struct {
	Size    int `yaml:"size" mapstructure:"size"`
	Overlap int `yaml:"overlap" mapstructure:"overlap"`
}

// NormalizeConfig configures the text normalization pipeline.
type NormalizeConfig struct {
	MinTokens      int  `yaml:"min_tokens" mapstructure:"min_tokens"`
	SplitSentences bool `yaml:"split_sentences" mapstructure:"split_sentences"`
	Dedup          bool `yaml:"dedup" mapstructure:"dedup"`
}

// RAGConfig configures retrieval and generation.
type RAGConfig struct {
	TopK        int     `yaml:"top_k" mapstructure:"top_k"`
	SummaryTopK int     `yaml:"summary_top_k" mapstructure:"summary_top_k"`
	Stream      bool    `yaml:"stream" mapstructure:"stream"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// ExportConfig configures raw review exports.
type ExportConfig struct {
	Dir    string `yaml:"dir" mapstructure:"dir"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.dir", "product_bundles")
	v.SetDefault("store.path", "bundles.db")
	v.SetDefault("scrape.max_pages", 15)
	v.SetDefault("scrape.retries", 3)
	v.SetDefault("scrape.render_retries", 3)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.delay_min_ms", 2000)
	v.SetDefault("scrape.delay_max_ms", 4000)
	v.SetDefault("scrape.rate_per_sec", 0.5)
	v.SetDefault("reader.base_url", "https://r.jina.ai")
	v.SetDefault("reader.search_base_url", "https://s.jina.ai")
	v.SetDefault("discover.site", "flipkart.com")
	v.SetDefault("discover.max_links", 5)
	v.SetDefault("discover.retries", 2)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("embed.provider", "tfidf")
	v.SetDefault("embed.dimension", 0)
	v.SetDefault("chunk.size", 100)
	v.SetDefault("chunk.overlap", 50)
	v.SetDefault("normalize.min_tokens", 3)
	v.SetDefault("normalize.split_sentences", false)
	v.SetDefault("normalize.dedup", true)
	v.SetDefault("rag.top_k", 8)
	v.SetDefault("rag.summary_top_k", 10)
	v.SetDefault("rag.stream", false)
	v.SetDefault("rag.temperature", 0.7)
	v.SetDefault("export.dir", "reviews")
	v.SetDefault("export.format", "csv")
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
