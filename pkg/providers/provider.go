package providers

import (
	"strings"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
	"github.com/Adda-Baaj/k1news-harvester/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// HTTPClient is the client providers fetch pages with.
type HTTPClient = httpclient.Client

// Provider describes a configured news site.
type Provider struct {
	ID             string
	Name           string
	ArticleBaseURL string
	Headers        map[string]string
	Location       *time.Location
}

// Site knows the markup of one news site.
type Site interface {
	ID() string
	// ExtractLinks returns absolute article URLs from a listing page in document order.
	ExtractLinks(doc *goquery.Document, cfg Provider) []string
	// ParseArticle builds a record from an article page. ID and URL are left for the caller.
	ParseArticle(doc *goquery.Document, cfg Provider) (domain.ArticleRecord, error)
}

// SiteRegistry resolves the Site for a provider.
type SiteRegistry interface {
	SiteFor(cfg Provider) (Site, error)
}

// Headers returns the request headers configured for the provider.
func Headers(cfg Provider) map[string]string {
	if len(cfg.Headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	return out
}

// location returns the zone article dates are interpreted in.
func (cfg Provider) location() *time.Location {
	if cfg.Location == nil {
		return time.UTC
	}
	return cfg.Location
}
