package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/markusmobius/go-trafilatura"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

const (
	FormatText     = "text"
	FormatMarkdown = "markdown"
)

const (
	ExtractorTrafilatura = "trafilatura"
	ExtractorReadability = "readability"
	ExtractorDOM         = "dom"
)

// Extractor pulls the main readable content out of an HTML page. An empty
// string with a nil error means the page had no extractable text.
type Extractor interface {
	Extract(body []byte, pageURL string) (string, error)
}

func NewExtractor(methods []string, format string, logger *zap.Logger) (Extractor, error) {
	if format == "" {
		format = FormatText
	}
	if format != FormatText && format != FormatMarkdown {
		return nil, fmt.Errorf("unsupported extraction format %q", format)
	}
	if len(methods) == 0 {
		methods = []string{ExtractorTrafilatura}
	}

	chain := &ChainExtractor{logger: logger}
	for _, m := range methods {
		var e Extractor
		switch m {
		case ExtractorTrafilatura:
			e = NewTrafilaturaExtractor(format, logger)
		case ExtractorReadability:
			e = NewReadabilityExtractor(format, logger)
		case ExtractorDOM:
			e = NewDOMExtractor(logger)
		default:
			return nil, fmt.Errorf("unsupported extractor %q", m)
		}
		chain.names = append(chain.names, m)
		chain.extractors = append(chain.extractors, e)
	}
	if len(chain.extractors) == 1 {
		return chain.extractors[0], nil
	}
	return chain, nil
}

// ChainExtractor returns the first non-blank result of its extractors.
type ChainExtractor struct {
	names      []string
	extractors []Extractor
	logger     *zap.Logger
}

func (c *ChainExtractor) Extract(body []byte, pageURL string) (string, error) {
	for i, e := range c.extractors {
		text, err := e.Extract(body, pageURL)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) != "" {
			c.logger.Debug("extracted",
				zap.String("url", pageURL),
				zap.String("extractor", c.names[i]))
			return text, nil
		}
	}
	return "", nil
}

type TrafilaturaExtractor struct {
	format string
	logger *zap.Logger
}

func NewTrafilaturaExtractor(format string, logger *zap.Logger) *TrafilaturaExtractor {
	return &TrafilaturaExtractor{format: format, logger: logger}
}

func (e *TrafilaturaExtractor) Extract(body []byte, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", pageURL, err)
	}

	opts := trafilatura.Options{
		OriginalURL:    parsedURL,
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(bytes.NewReader(body), opts)
	if err != nil {
		e.logger.Debug("trafilatura: extraction failed", zap.String("url", pageURL), zap.Error(err))
		return "", nil
	}

	if e.format == FormatMarkdown && result.ContentNode != nil {
		htmlStr, err := RenderNodeToString(result.ContentNode)
		if err != nil {
			return "", err
		}
		return toMarkdown(htmlStr)
	}

	e.logger.Debug("trafilatura_extraction_result",
		zap.String("url", pageURL),
		zap.String("title", result.Metadata.Title),
		zap.String("language", result.Metadata.Language),
		zap.Int("text_length", len(result.ContentText)),
	)
	return strings.TrimSpace(result.ContentText), nil
}

func toMarkdown(htmlStr string) (string, error) {
	md, err := htmltomarkdown.ConvertString(htmlStr)
	if err != nil {
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}

func RenderNodeToString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
