package crawler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const urlsetXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc> https://docs.example.com/intro </loc>
    <lastmod>2025-01-01</lastmod>
  </url>
  <url><loc>https://docs.example.com/chapter-1</loc></url>
  <url><lastmod>2025-01-01</lastmod></url>
</urlset>`

func TestParseSitemap_URLSet(t *testing.T) {
	sm, err := ParseSitemap(strings.NewReader(urlsetXML))
	require.NoError(t, err)

	assert.Equal(t, SitemapURLSet, sm.Kind)
	assert.Equal(t, []string{"https://docs.example.com/intro", "https://docs.example.com/chapter-1"}, sm.Locs)
}

func TestParseSitemap_Index(t *testing.T) {
	xml := `<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://docs.example.com/sitemap-1.xml</loc></sitemap>
</sitemapindex>`

	sm, err := ParseSitemap(strings.NewReader(xml))
	require.NoError(t, err)

	assert.Equal(t, SitemapIndex, sm.Kind)
	assert.Equal(t, []string{"https://docs.example.com/sitemap-1.xml"}, sm.Locs)
}

func TestParseSitemap_IgnoresForeignNamespace(t *testing.T) {
	xml := `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc xmlns="http://example.com/other">https://docs.example.com/x</loc></url>
  <url><loc>https://docs.example.com/y</loc></url>
</urlset>`

	sm, err := ParseSitemap(strings.NewReader(xml))
	require.NoError(t, err)
	assert.Equal(t, []string{"https://docs.example.com/y"}, sm.Locs)
}

func TestParseSitemap_Malformed(t *testing.T) {
	_, err := ParseSitemap(strings.NewReader(`<urlset><url><loc>x</url></urlset>`))
	assert.Error(t, err)
}

func TestParseSitemap_NoRoot(t *testing.T) {
	inputs := map[string]string{
		"empty":        "",
		"blank":        "   ",
		"text":         "just some text",
		"declaration":  `<?xml version="1.0"?>`,
		"comment only": `<?xml version="1.0"?><!-- nothing here -->`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := ParseSitemap(strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNoRootElement), "got %v", err)
		})
	}
}

func TestParseSitemap_MalformedIsNotNoRoot(t *testing.T) {
	_, err := ParseSitemap(strings.NewReader(`<urlset><url><loc>x</url></urlset>`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoRootElement))
}

func TestCollectURLs_FollowsIndex(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<sitemapindex xmlns="%s">
  <sitemap><loc>%s/a.xml</loc></sitemap>
  <sitemap><loc>%s/b.xml</loc></sitemap>
  <sitemap><loc>%s/a.xml</loc></sitemap>
</sitemapindex>`, SitemapNamespace, srv.URL, srv.URL, srv.URL)
	})
	mux.HandleFunc("/a.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset xmlns="%s"><url><loc>%s/p1</loc></url><url><loc>%s/p2</loc></url></urlset>`,
			SitemapNamespace, srv.URL, srv.URL)
	})
	mux.HandleFunc("/b.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset xmlns="%s"><url><loc>%s/p3</loc></url></urlset>`, SitemapNamespace, srv.URL)
	})

	c := newTestCrawler(t, zaptest.NewLogger(t), nil, nil, nil, nil)
	urls, err := c.CollectURLs(srv.URL + "/sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/p1", srv.URL + "/p2", srv.URL + "/p3"}, urls)
}

func TestCollectURLs_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	c := newTestCrawler(t, zaptest.NewLogger(t), nil, nil, nil, nil)
	_, err := c.CollectURLs(srv.URL + "/sitemap.xml")
	assert.Error(t, err)
}
