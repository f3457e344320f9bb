package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
	"github.com/Adda-Baaj/k1news-harvester/pkg/publishers"
)

// Options controls one harvest run.
type Options struct {
	Provider    providers.Provider
	SeedURLs    []string
	MaxArticles int

	// SkipFailedArticles logs and counts articles that fail to fetch or parse
	// instead of aborting the run.
	SkipFailedArticles bool
}

// Deps are the collaborators a Harvester drives.
type Deps struct {
	Site       providers.Site
	Frontier   URLDiscoverer
	Scraper    ArticleScraper
	Store      ArticleStore
	Publishers []EventPublisher
	Log        logger.Logger
}

// Summary reports what a run did.
type Summary struct {
	Discovered int
	Saved      int
	Failed     int
}

// Harvester discovers article URLs, scrapes them one by one and hands every
// record to the store and the publishers.
type Harvester struct {
	opts Options
	deps Deps
}

// NewHarvester validates deps and returns a ready Harvester.
func NewHarvester(opts Options, deps Deps) (*Harvester, error) {
	switch {
	case deps.Site == nil:
		return nil, errors.New("harvester: site is required")
	case deps.Frontier == nil:
		return nil, errors.New("harvester: frontier is required")
	case deps.Scraper == nil:
		return nil, errors.New("harvester: scraper is required")
	case deps.Store == nil:
		return nil, errors.New("harvester: store is required")
	}
	if opts.MaxArticles <= 0 {
		return nil, fmt.Errorf("harvester: max articles must be positive, got %d", opts.MaxArticles)
	}
	if deps.Log == nil {
		deps.Log = logger.NopLogger{}
	}
	return &Harvester{opts: opts, deps: deps}, nil
}

// Run performs one harvest. Records are numbered from 1 in the order they are
// saved. A store failure always aborts; a scrape failure aborts unless
// SkipFailedArticles is set. Publish failures are logged only.
func (h *Harvester) Run(ctx context.Context) (Summary, error) {
	cfg := h.opts.Provider
	log := h.deps.Log

	urls, err := h.deps.Frontier.Discover(ctx, h.deps.Site, cfg, h.opts.SeedURLs, h.opts.MaxArticles)
	if err != nil {
		return Summary{}, fmt.Errorf("discover articles: %w", err)
	}

	summary := Summary{Discovered: len(urls)}
	log.InfoObj("article urls discovered", "discovery_done", map[string]any{
		"provider_id": cfg.ID,
		"seeds":       len(h.opts.SeedURLs),
		"discovered":  len(urls),
		"max":         h.opts.MaxArticles,
	})

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		id := summary.Saved + 1
		rec, err := h.deps.Scraper.Scrape(ctx, h.deps.Site, cfg, id, url)
		if err != nil {
			if !h.opts.SkipFailedArticles || ctx.Err() != nil {
				return summary, err
			}
			summary.Failed++
			log.WarnObj("article skipped", "article_failed", map[string]any{
				"provider_id": cfg.ID,
				"url":         url,
				"error":       err.Error(),
			})
			continue
		}

		if err := h.deps.Store.Save(rec); err != nil {
			return summary, fmt.Errorf("save article %d: %w", rec.ID, err)
		}
		summary.Saved++

		log.InfoObj("article saved", "article_saved", map[string]any{
			"provider_id": cfg.ID,
			"article_id":  rec.ID,
			"url":         rec.URL,
		})

		h.publish(ctx, publishers.NewArticleEvent(cfg.ID, rec))
	}

	log.InfoObj("harvest finished", "harvest_done", map[string]any{
		"provider_id": cfg.ID,
		"discovered":  summary.Discovered,
		"saved":       summary.Saved,
		"failed":      summary.Failed,
	})
	return summary, nil
}

func (h *Harvester) publish(ctx context.Context, evt publishers.Event) {
	for _, pub := range h.deps.Publishers {
		if err := pub.Publish(ctx, evt); err != nil {
			h.deps.Log.WarnObj("event publish failed", "publish_error", map[string]any{
				"provider_id": evt.ProviderID,
				"article_id":  evt.Article.ID,
				"event_id":    evt.ID,
				"error":       err.Error(),
			})
		}
	}
}
