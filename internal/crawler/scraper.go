package crawler

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
)

// Scraper fetches article pages and extracts records from them.
type Scraper struct {
	client providers.HTTPClient
	log    logger.Logger
}

// NewScraper creates a new Scraper with the given HTTP client and logger.
func NewScraper(client providers.HTTPClient, log logger.Logger) *Scraper {
	if client == nil {
		client = providers.DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scraper{client: client, log: log}
}

// Scrape fetches url and parses it with site. The returned record carries id and url.
func (s *Scraper) Scrape(ctx context.Context, site providers.Site, cfg providers.Provider, id int, url string) (domain.ArticleRecord, error) {
	s.log.DebugObj("scraping article", "scrape_start", map[string]any{
		"provider_id": cfg.ID,
		"article_id":  id,
		"url":         url,
	})

	doc, err := providers.FetchDocument(ctx, s.client, url, providers.Headers(cfg))
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("article %d: %w", id, err)
	}

	rec, err := site.ParseArticle(doc, cfg)
	if err != nil {
		return domain.ArticleRecord{}, fmt.Errorf("article %d (%s): %w", id, url, err)
	}

	rec.ID = id
	rec.URL = url
	return rec, nil
}
