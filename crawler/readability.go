package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

type ReadabilityExtractor struct {
	format string
	logger *zap.Logger
}

func NewReadabilityExtractor(format string, logger *zap.Logger) *ReadabilityExtractor {
	return &ReadabilityExtractor{format: format, logger: logger}
}

func (re *ReadabilityExtractor) Extract(body []byte, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		re.logger.Debug("readability: extraction failed", zap.String("url", pageURL), zap.Error(err))
		return "", nil
	}

	if re.format == FormatMarkdown && article.Content != "" {
		return toMarkdown(article.Content)
	}
	return strings.TrimSpace(article.TextContent), nil
}
