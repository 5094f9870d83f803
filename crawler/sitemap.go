package crawler

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"go.uber.org/zap"
)

const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// Nested sitemap indexes are followed at most this deep.
const maxSitemapDepth = 3

type SitemapKind string

const (
	SitemapURLSet SitemapKind = "urlset"
	SitemapIndex  SitemapKind = "sitemapindex"
)

var ErrNoRootElement = errors.New("sitemap has no root element")

type Sitemap struct {
	Kind SitemapKind
	Locs []string
}

// ParseSitemap reads a sitemap document. Every element child of the root that
// holds a <loc> in the sitemap namespace contributes one location, in document
// order.
func ParseSitemap(r io.Reader) (*Sitemap, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sitemap: %w", err)
	}

	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		if !hasElement(data) {
			return nil, fmt.Errorf("%w: %v", ErrNoRootElement, err)
		}
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}

	root := firstElement(doc)
	if root == nil {
		return nil, ErrNoRootElement
	}

	sm := &Sitemap{Kind: SitemapKind(root.Data)}
	for entry := firstElement(root); entry != nil; entry = nextElement(entry) {
		for child := firstElement(entry); child != nil; child = nextElement(child) {
			if child.Data == "loc" && child.NamespaceURI == SitemapNamespace {
				sm.Locs = append(sm.Locs, strings.TrimSpace(child.InnerText()))
				break
			}
		}
	}
	return sm, nil
}

// hasElement reports whether data opens at least one XML element before it
// ends or stops being well formed.
func hasElement(data []byte) bool {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			return false
		}
		if _, ok := tok.(xml.StartElement); ok {
			return true
		}
	}
}

func firstElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

func nextElement(n *xmlquery.Node) *xmlquery.Node {
	for c := n.NextSibling; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return c
		}
	}
	return nil
}

// CollectURLs returns the page URLs listed by the sitemap at sitemapURL,
// following sitemap indexes depth-first.
func (c *Crawler) CollectURLs(sitemapURL string) ([]string, error) {
	seen := make(map[string]struct{})
	var urls []string
	if err := c.collectURLs(sitemapURL, 0, seen, &urls); err != nil {
		return nil, err
	}
	return urls, nil
}

func (c *Crawler) collectURLs(sitemapURL string, depth int, seen map[string]struct{}, urls *[]string) error {
	if depth > maxSitemapDepth {
		return fmt.Errorf("sitemap %s: nested deeper than %d levels", sitemapURL, maxSitemapDepth)
	}
	if _, ok := seen[sitemapURL]; ok {
		return nil
	}
	seen[sitemapURL] = struct{}{}

	body, err := c.fetcher.Fetch(sitemapURL)
	if err != nil {
		return err
	}
	sm, err := ParseSitemap(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sitemap %s: %w", sitemapURL, err)
	}

	if sm.Kind != SitemapIndex {
		*urls = append(*urls, sm.Locs...)
		return nil
	}

	c.logger.Info("sitemap index", zap.String("url", sitemapURL), zap.Int("sitemaps", len(sm.Locs)))
	for _, loc := range sm.Locs {
		if err := c.collectURLs(loc, depth+1, seen, urls); err != nil {
			return err
		}
	}
	return nil
}
