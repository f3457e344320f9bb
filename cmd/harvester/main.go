package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/k1news-harvester/internal/config"
	"github.com/Adda-Baaj/k1news-harvester/internal/crawler"
	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/internal/storage"
	"github.com/Adda-Baaj/k1news-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
	"github.com/Adda-Baaj/k1news-harvester/pkg/publishers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "harvester:", err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDevelopment,
		OutputPaths: cfg.LogOutputPaths,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := storage.PrepareEnvironment(cfg.AssetsPath); err != nil {
		return err
	}
	files, err := storage.NewFileStore(cfg.AssetsPath)
	if err != nil {
		return err
	}

	var (
		store   crawler.ArticleStore = files
		archive *storage.Archive
	)
	if cfg.ArchivePath != "" {
		opened, openErr := storage.OpenArchive(cfg.ArchivePath)
		if openErr != nil {
			return openErr
		}
		archive = opened
		defer func() { err = errors.Join(err, opened.Close()) }()
		store = storage.Chain(files, archive)
	}

	var sinks []crawler.EventPublisher
	if cfg.PublishersFile != "" {
		pubs, buildErr := publishers.FromFile(ctx, cfg.PublishersFile, log)
		if buildErr != nil {
			return buildErr
		}
		defer func() { err = errors.Join(err, publishers.CloseAll(pubs)) }()
		for _, p := range pubs {
			sinks = append(sinks, p)
		}
	}

	provider := cfg.Provider()
	site, err := providers.DefaultSiteRegistry().SiteFor(provider)
	if err != nil {
		return err
	}

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	frontier := crawler.NewFrontier(client, log)
	frontier.FetchAllSeeds = cfg.FetchAllSeeds

	harvester, err := crawler.NewHarvester(crawler.Options{
		Provider:           provider,
		SeedURLs:           cfg.SeedURLs,
		MaxArticles:        cfg.MaxArticles,
		SkipFailedArticles: cfg.SkipFailedArticles,
	}, crawler.Deps{
		Site:       site,
		Frontier:   frontier,
		Scraper:    crawler.NewScraper(client, log),
		Store:      store,
		Publishers: sinks,
		Log:        log,
	})
	if err != nil {
		return err
	}

	summary, err := harvester.Run(ctx)
	if err != nil {
		log.ErrorObj("harvest failed", "harvest_error", map[string]any{
			"provider_id": provider.ID,
			"saved":       summary.Saved,
			"error":       err.Error(),
		})
		return err
	}

	if summary.Saved == 0 {
		log.WarnObj("no articles saved", "harvest_empty", map[string]any{
			"provider_id": provider.ID,
			"discovered":  summary.Discovered,
		})
		return nil
	}

	if err := storage.ValidateDataset(cfg.AssetsPath); err != nil {
		return fmt.Errorf("validate dataset: %w", err)
	}
	ids, err := storage.ScanDataset(cfg.AssetsPath)
	if err != nil {
		return fmt.Errorf("scan dataset: %w", err)
	}
	log.InfoObj("dataset validated", "dataset_ok", map[string]any{
		"path":     cfg.AssetsPath,
		"articles": len(ids),
		"first_id": ids[0],
		"last_id":  ids[len(ids)-1],
	})

	if archive != nil {
		if err := storage.VerifyArchive(files, archive, ids); err != nil {
			return fmt.Errorf("verify archive: %w", err)
		}
		archived, err := archive.Count()
		if err != nil {
			return fmt.Errorf("count archive: %w", err)
		}
		log.InfoObj("archive verified", "archive_ok", map[string]any{
			"path":     cfg.ArchivePath,
			"archived": archived,
		})
	}
	return nil
}
