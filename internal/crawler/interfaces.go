package crawler

import (
	"context"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
	"github.com/Adda-Baaj/k1news-harvester/pkg/publishers"
)

// URLDiscoverer collects article URLs from listing pages.
type URLDiscoverer interface {
	Discover(ctx context.Context, site providers.Site, cfg providers.Provider, seedURLs []string, maxArticles int) ([]string, error)
}

// ArticleScraper fetches one article page and turns it into a record.
type ArticleScraper interface {
	Scrape(ctx context.Context, site providers.Site, cfg providers.Provider, id int, url string) (domain.ArticleRecord, error)
}

// ArticleStore persists parsed records.
type ArticleStore interface {
	Save(rec domain.ArticleRecord) error
}

// EventPublisher publishes parsed articles downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) error
}
