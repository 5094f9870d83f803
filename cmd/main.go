package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docindex/config"
	"docindex/crawler"
	"docindex/pkg/boltdb"
	"docindex/pkg/chunking"
	"docindex/pkg/embedding"
	"docindex/pkg/qdrantdb"
	"docindex/pkg/weaviatedb"
	"docindex/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile    string
	sitemapURL string
	collection string
	reset      bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "docindex",
	Short: "Index the pages of a sitemap into a vector store",
	Long: `docindex reads every page listed in a sitemap, extracts the readable
text, splits it into chunks, embeds each chunk and stores it with its
source URL in a vector collection for semantic search.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringVarP(&sitemapURL, "sitemap", "s", "", "sitemap URL (overrides sitemap_url)")
	rootCmd.Flags().StringVar(&collection, "collection", "", "target collection (overrides collection)")
	rootCmd.Flags().BoolVar(&reset, "reset", true, "drop and recreate the collection before ingesting")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	// =========
	// Config
	// =========
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if sitemapURL != "" {
		cfg.SitemapURL = sitemapURL
	}
	if collection != "" {
		cfg.Collection = collection
	}
	if cmd.Flags().Changed("reset") {
		cfg.Reset = reset
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// =========
	// Logging
	// =========
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========
	// Vector store
	// =========
	store, err := newStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to initialize vector store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
		return err
	}
	defer store.Close()

	// =========
	// Embedding client
	// =========
	embedder, err := newEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	inputType, err := embedding.ParseInputType(cfg.Embedding.InputType)
	if err != nil {
		return err
	}
	distance, err := repository.ParseDistance(cfg.Store.Distance)
	if err != nil {
		return err
	}

	// =========
	// Chunking, extraction, HTTP
	// =========
	splitter, err := chunking.NewSplitter(cfg.Chunking.Method, cfg.Chunking.MaxChars, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}
	extractor, err := crawler.NewExtractor(cfg.Extraction.Extractors, cfg.Extraction.Format, logger)
	if err != nil {
		return err
	}
	downloader, err := crawler.NewDownloader(crawler.DownloaderConfig{
		UserAgent:   cfg.HTTP.UserAgent,
		Timeout:     cfg.HTTP.Timeout,
		ProxyURL:    cfg.HTTP.ProxyURL,
		MaxBodySize: cfg.HTTP.MaxBodySize,
	})
	if err != nil {
		return err
	}

	// =========
	// Crawler
	// =========
	metrics := crawler.NewMetrics()
	c, err := crawler.NewCrawler(downloader, extractor, splitter, embedder, store, metrics, logger, crawler.Options{
		Collection: cfg.Collection,
		VectorSize: cfg.Embedding.Dimension,
		Distance:   distance,
		Reset:      cfg.Reset,
		InputType:  inputType,
	})
	if err != nil {
		return err
	}

	stats, err := c.Ingest(ctx, cfg.SitemapURL)
	if cfg.Metrics.Textfile != "" {
		if werr := metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("failed to write metrics", zap.Error(werr))
		}
	}
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if stats != nil {
			fields = append(fields, zap.Uint64("chunks_stored", stats.ChunksStored))
		}
		logger.Error("ingestion failed", fields...)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingestion completed. Total chunks stored: %d\n", stats.ChunksStored)
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func newStore(ctx context.Context, cfg config.StoreConfig) (repository.ChunkVectorRepo, error) {
	switch cfg.Backend {
	case config.BackendQdrant:
		return qdrantdb.NewClient(qdrantdb.Config{
			Host:   cfg.Qdrant.Host,
			Port:   cfg.Qdrant.Port,
			APIKey: cfg.Qdrant.APIKey,
			UseTLS: cfg.Qdrant.UseTLS,
		})
	case config.BackendWeaviate:
		return weaviatedb.NewClient(ctx, weaviatedb.Config{
			Host:   cfg.Weaviate.Host,
			APIKey: cfg.Weaviate.APIKey,
		})
	case config.BackendBolt:
		return boltdb.Open(cfg.Bolt.Path)
	default:
		return nil, fmt.Errorf("unknown vector store backend %q", cfg.Backend)
	}
}

func newEmbedder(cfg config.EmbeddingConfig) (embedding.Client, error) {
	switch cfg.Provider {
	case embedding.ProviderCohere:
		return embedding.NewCohere(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case embedding.ProviderTEI:
		return embedding.NewTEI(cfg.BaseURL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
