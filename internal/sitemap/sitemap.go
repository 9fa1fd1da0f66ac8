// Package sitemap explores the site's sitemap index and parses child sitemaps.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/culinary-data/recipe-crawler/internal/fetch"
)

// Fetcher retrieves a raw document for the given URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (fetch.Page, error)
}

// Index represents an XML sitemap index document.
type Index struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []Ref    `xml:"sitemap"`
}

// Ref is one child sitemap listed by an index.
type Ref struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// URLSet represents an XML sitemap document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []Entry  `xml:"url"`
}

// Entry is a single URL entry in a sitemap.
type Entry struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Explorer fetches and parses sitemap documents.
type Explorer struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewExplorer builds an Explorer on top of the given fetcher.
func NewExplorer(fetcher Fetcher, logger *zap.Logger) *Explorer {
	return &Explorer{fetcher: fetcher, logger: logger}
}

// FetchIndex downloads the sitemap index and returns its child references.
func (e *Explorer) FetchIndex(ctx context.Context, indexURL string) ([]Ref, error) {
	page, err := e.fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap index %s: %w", indexURL, err)
	}
	var idx Index
	if err := xml.Unmarshal(page.Body, &idx); err != nil {
		return nil, fmt.Errorf("parse sitemap index %s: %w", indexURL, err)
	}
	return idx.Sitemaps, nil
}

// FetchURLSet downloads one sitemap and returns its URL entries.
func (e *Explorer) FetchURLSet(ctx context.Context, sitemapURL string) ([]Entry, error) {
	page, err := e.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap %s: %w", sitemapURL, err)
	}
	var set URLSet
	if err := xml.Unmarshal(page.Body, &set); err != nil {
		return nil, fmt.Errorf("parse sitemap %s: %w", sitemapURL, err)
	}
	return set.URLs, nil
}

// RecipeURLs walks the index, keeps children whose URL contains filter, and
// collects page URLs under pathFilter until limit is reached. Image entries
// are skipped.
func (e *Explorer) RecipeURLs(ctx context.Context, indexURL, filter, pathFilter string, limit int) ([]string, error) {
	refs, err := e.FetchIndex(ctx, indexURL)
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, limit)
	for _, ref := range refs {
		if filter != "" && !strings.Contains(ref.Loc, filter) {
			continue
		}
		entries, err := e.FetchURLSet(ctx, ref.Loc)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !keepEntry(entry.Loc, pathFilter) {
				continue
			}
			urls = append(urls, entry.Loc)
			if limit > 0 && len(urls) >= limit {
				e.logger.Debug("recipe URL limit reached",
					zap.String("sitemap", ref.Loc),
					zap.Int("limit", limit),
				)
				return urls, nil
			}
		}
	}
	return urls, nil
}

func keepEntry(loc, pathFilter string) bool {
	if loc == "" {
		return false
	}
	if pathFilter != "" && !strings.Contains(loc, pathFilter) {
		return false
	}
	return !isImageURL(loc)
}

func isImageURL(loc string) bool {
	lower := strings.ToLower(loc)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
