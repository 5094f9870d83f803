package crawler

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// DOMExtractor is the crudest extractor: it drops page chrome and joins the
// text of block-level content elements. Useful for pages the article
// heuristics reject, such as short reference pages.
type DOMExtractor struct {
	logger *zap.Logger
}

func NewDOMExtractor(logger *zap.Logger) *DOMExtractor {
	return &DOMExtractor{logger: logger}
}

func (de *DOMExtractor) Extract(body []byte, pageURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		de.logger.Debug("dom: parse failed", zap.String("url", pageURL), zap.Error(err))
		return "", nil
	}

	doc.Find("script, style, noscript, nav, header, footer, aside, form").Remove()

	var texts []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, pre, blockquote").Each(func(i int, s *goquery.Selection) {
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text != "" {
			texts = append(texts, text)
		}
	})

	return strings.Join(texts, "\n"), nil
}
