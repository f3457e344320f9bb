package crawler

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
)

// Frontier discovers article URLs from seed listing pages.
type Frontier struct {
	client providers.HTTPClient
	log    logger.Logger

	// FetchAllSeeds keeps fetching every seed page after the bound is
	// reached. Pages fetched that way contribute nothing.
	FetchAllSeeds bool
}

// NewFrontier creates a Frontier with the given HTTP client and logger.
func NewFrontier(client providers.HTTPClient, log logger.Logger) *Frontier {
	if client == nil {
		client = providers.DefaultHTTPClient()
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Frontier{client: client, log: log}
}

// Discover walks the seeds in order and returns at most maxArticles unique
// article URLs in first-discovery order. A failed seed fetch aborts discovery.
func (f *Frontier) Discover(ctx context.Context, site providers.Site, cfg providers.Provider, seedURLs []string, maxArticles int) ([]string, error) {
	if maxArticles <= 0 {
		return nil, fmt.Errorf("max articles must be positive, got %d", maxArticles)
	}
	if site == nil {
		return nil, fmt.Errorf("no site for provider %q", cfg.ID)
	}

	set := newURLSet(maxArticles)
	headers := providers.Headers(cfg)

	for idx, seed := range seedURLs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if set.full() && !f.FetchAllSeeds {
			f.log.DebugObj("article bound reached, skipping remaining seeds", "frontier_full", map[string]any{
				"provider_id": cfg.ID,
				"skipped":     len(seedURLs) - idx,
			})
			break
		}

		doc, err := providers.FetchDocument(ctx, f.client, seed, headers)
		if err != nil {
			return nil, fmt.Errorf("seed %d: %w", idx+1, err)
		}

		links := site.ExtractLinks(doc, cfg)
		added := 0
		for _, link := range links {
			if set.full() {
				break
			}
			if set.add(link) {
				added++
			}
		}

		f.log.DebugObj("seed page processed", "seed_processed", map[string]any{
			"provider_id": cfg.ID,
			"seed":        seed,
			"links":       len(links),
			"added":       added,
			"total":       set.len(),
		})
	}

	return set.list(), nil
}

// urlSet is an insertion-ordered set of URLs with a size bound.
type urlSet struct {
	limit int
	urls  []string
	seen  map[string]struct{}
}

func newURLSet(limit int) *urlSet {
	return &urlSet{
		limit: limit,
		urls:  make([]string, 0, limit),
		seen:  make(map[string]struct{}, limit),
	}
}

// add appends u unless the set is full or already holds it.
func (s *urlSet) add(u string) bool {
	if s.full() {
		return false
	}
	if _, ok := s.seen[u]; ok {
		return false
	}
	s.seen[u] = struct{}{}
	s.urls = append(s.urls, u)
	return true
}

func (s *urlSet) full() bool { return len(s.urls) >= s.limit }

func (s *urlSet) len() int { return len(s.urls) }

func (s *urlSet) list() []string {
	out := make([]string, len(s.urls))
	copy(out, s.urls)
	return out
}
