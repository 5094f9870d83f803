package crawler

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
)

type DownloaderConfig struct {
	UserAgent string
	Timeout   time.Duration
	ProxyURL  string
	// MaxBodySize caps a response body in bytes. Zero means unlimited, which
	// replaces colly's 10 MiB default so large pages are not cut silently.
	MaxBodySize int
}

// Downloader performs plain GET requests through a synchronous colly
// collector. Non-2xx responses are returned as errors.
type Downloader struct {
	collector *colly.Collector
}

func NewDownloader(cfg DownloaderConfig) (*Downloader, error) {
	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.MaxBodySize = cfg.MaxBodySize
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	if cfg.ProxyURL != "" {
		if err := c.SetProxy(cfg.ProxyURL); err != nil {
			return nil, fmt.Errorf("set proxy: %w", err)
		}
	}
	return &Downloader{collector: c}, nil
}

func (d *Downloader) Fetch(pageURL string) ([]byte, error) {
	var body []byte
	c := d.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	return body, nil
}
