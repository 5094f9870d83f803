package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"docindex/pkg/chunking"
	"docindex/pkg/embedding"
	"docindex/repository"

	"go.uber.org/zap"
)

var errNoText = errors.New("no text extracted")

type Fetcher interface {
	Fetch(pageURL string) ([]byte, error)
}

type Options struct {
	Collection string
	VectorSize int
	Distance   repository.Distance
	// Reset drops and recreates the collection before ingesting. When false
	// the collection is created only if missing and existing points with the
	// same ids are overwritten.
	Reset     bool
	InputType embedding.InputType
}

type Stats struct {
	URLsFound     int
	URLsProcessed int
	URLsSkipped   int
	ChunksStored  uint64
}

// Crawler runs the ingestion pipeline: sitemap discovery, extraction,
// chunking, embedding and storage, one URL at a time.
type Crawler struct {
	fetcher   Fetcher
	extractor Extractor
	splitter  chunking.Splitter
	embedder  embedding.Client
	store     repository.ChunkVectorRepo
	metrics   *Metrics
	logger    *zap.Logger
	opts      Options
}

func NewCrawler(
	fetcher Fetcher,
	extractor Extractor,
	splitter chunking.Splitter,
	embedder embedding.Client,
	store repository.ChunkVectorRepo,
	metrics *Metrics,
	logger *zap.Logger,
	opts Options,
) (*Crawler, error) {
	if fetcher == nil || extractor == nil || splitter == nil || embedder == nil || store == nil {
		return nil, errors.New("crawler: fetcher, extractor, splitter, embedder and store are required")
	}
	if opts.Collection == "" {
		return nil, errors.New("crawler: collection name is required")
	}
	if opts.VectorSize <= 0 {
		return nil, fmt.Errorf("crawler: invalid vector size %d", opts.VectorSize)
	}
	if opts.Distance == "" {
		opts.Distance = repository.DistanceCosine
	}
	if opts.InputType == "" {
		opts.InputType = embedding.InputSearchDocument
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Crawler{
		fetcher:   fetcher,
		extractor: extractor,
		splitter:  splitter,
		embedder:  embedder,
		store:     store,
		metrics:   metrics,
		logger:    logger,
		opts:      opts,
	}, nil
}

// Ingest indexes every page listed by the sitemap. A page without extractable
// text is skipped; any other failure aborts the run and is returned together
// with the stats gathered so far.
func (c *Crawler) Ingest(ctx context.Context, sitemapURL string) (*Stats, error) {
	urls, err := c.CollectURLs(sitemapURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("found urls", zap.String("sitemap", sitemapURL), zap.Int("count", len(urls)))
	for _, u := range urls {
		c.logger.Info("found url", zap.String("url", u))
	}

	stats := &Stats{URLsFound: len(urls)}
	if err := c.prepareCollection(ctx); err != nil {
		return stats, err
	}

	nextID := uint64(1)
	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		c.logger.Info("processing", zap.String("url", pageURL))
		next, err := c.processURL(ctx, pageURL, nextID)
		switch {
		case errors.Is(err, errNoText):
			c.logger.Warn("no text extracted, skipping", zap.String("url", pageURL))
			c.metrics.urlsSkipped.Inc()
			stats.URLsSkipped++
			continue
		case err != nil:
			stats.ChunksStored = next - 1
			return stats, err
		}
		c.metrics.urlsProcessed.Inc()
		stats.URLsProcessed++
		nextID = next
	}

	stats.ChunksStored = nextID - 1
	c.metrics.lastSuccessSec.SetToCurrentTime()
	c.logger.Info("ingestion completed",
		zap.Int("urls_processed", stats.URLsProcessed),
		zap.Int("urls_skipped", stats.URLsSkipped),
		zap.Uint64("total_chunks_stored", stats.ChunksStored))
	return stats, nil
}

func (c *Crawler) prepareCollection(ctx context.Context) error {
	if c.opts.Reset {
		c.logger.Info("recreating collection",
			zap.String("collection", c.opts.Collection),
			zap.Int("vector_size", c.opts.VectorSize),
			zap.String("distance", string(c.opts.Distance)))
		return c.store.RecreateCollection(ctx, c.opts.Collection, c.opts.VectorSize, c.opts.Distance)
	}
	c.logger.Info("ensuring collection", zap.String("collection", c.opts.Collection))
	return c.store.EnsureCollection(ctx, c.opts.Collection, c.opts.VectorSize, c.opts.Distance)
}

// processURL stores the chunks of one page with ids starting at nextID and
// returns the id to use for the next chunk. On failure the returned id is one
// past the last chunk actually stored.
func (c *Crawler) processURL(ctx context.Context, pageURL string, nextID uint64) (uint64, error) {
	body, err := c.fetcher.Fetch(pageURL)
	if err != nil {
		return nextID, err
	}

	text, err := c.extractor.Extract(body, pageURL)
	if err != nil {
		return nextID, fmt.Errorf("extract %s: %w", pageURL, err)
	}
	if strings.TrimSpace(text) == "" {
		return nextID, errNoText
	}

	chunks, err := c.splitter.Split(text)
	if err != nil {
		return nextID, fmt.Errorf("chunk %s: %w", pageURL, err)
	}

	for _, chunk := range chunks {
		// Whitespace-only pieces carry nothing worth embedding.
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		vector, err := c.embed(ctx, chunk)
		if err != nil {
			return nextID, fmt.Errorf("embed chunk %d of %s: %w", nextID, pageURL, err)
		}

		record := repository.ChunkRecord{
			ID:     nextID,
			Vector: vector,
			Payload: repository.ChunkPayload{
				URL:     pageURL,
				Text:    chunk,
				ChunkID: nextID,
			},
		}
		if err := c.store.Upsert(ctx, c.opts.Collection, []repository.ChunkRecord{record}); err != nil {
			return nextID, fmt.Errorf("store chunk %d of %s: %w", nextID, pageURL, err)
		}

		c.logger.Info("saved chunk", zap.Uint64("chunk_id", nextID), zap.String("url", pageURL))
		c.metrics.chunksStored.Inc()
		nextID++
	}
	return nextID, nil
}

func (c *Crawler) embed(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vectors, err := c.embedder.GetEmbeddings(ctx, []string{text}, c.opts.InputType)
	c.metrics.embedDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(vectors))
	}
	if err := embedding.CheckDimension(vectors[0], c.opts.VectorSize); err != nil {
		return nil, err
	}
	return vectors[0], nil
}
