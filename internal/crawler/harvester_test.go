package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
	"github.com/Adda-Baaj/k1news-harvester/pkg/publishers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memoryStore struct {
	records []domain.ArticleRecord
	err     error
}

func (m *memoryStore) Save(rec domain.ArticleRecord) error {
	if m.err != nil {
		return m.err
	}
	m.records = append(m.records, rec)
	return nil
}

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt publishers.Event) error {
	p.events = append(p.events, evt)
	return p.err
}

func newTestHarvester(t *testing.T, fs *fakeSite, opts Options, store ArticleStore, pubs []EventPublisher, log logger.Logger) *Harvester {
	t.Helper()
	opts.Provider = fs.provider()
	h, err := NewHarvester(opts, Deps{
		Site:       providers.NewK1NewsSite(),
		Frontier:   NewFrontier(fs.client(), log),
		Scraper:    NewScraper(fs.client(), log),
		Store:      store,
		Publishers: pubs,
		Log:        log,
	})
	require.NoError(t, err)
	return h
}

func TestHarvesterRun(t *testing.T) {
	fs := newFakeSite(t)
	fs.article("a", "A", "<p>alpha</p>")
	fs.article("b", "B", "<p>beta</p>")
	fs.article("c", "C", "<p>gamma</p>")
	seeds := []string{fs.listing("one", "a", "b"), fs.listing("two", "b", "c")}

	store := &memoryStore{}
	pub := &recordingPublisher{}
	h := newTestHarvester(t, fs, Options{SeedURLs: seeds, MaxArticles: 3}, store, []EventPublisher{pub}, nil)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Discovered: 3, Saved: 3}, summary)

	require.Len(t, store.records, 3)
	for i, rec := range store.records {
		assert.Equal(t, i+1, rec.ID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, []string{store.records[0].Title, store.records[1].Title, store.records[2].Title})
	assert.Equal(t, fs.articleURL("c"), store.records[2].URL)

	require.Len(t, pub.events, 3)
	assert.Equal(t, publishers.EventArticleParsed, pub.events[0].Type)
	assert.Equal(t, "k1news", pub.events[0].ProviderID)
	assert.Equal(t, store.records[0], pub.events[0].Article)
	assert.NotEqual(t, pub.events[0].ID, pub.events[1].ID)
}

func TestHarvesterAbortsOnExtractionFailure(t *testing.T) {
	fs := newFakeSite(t)
	fs.article("a", "A", "<p>alpha</p>")
	fs.articles["broken"] = `<html><body><div class="news__date">14:30, 5 марта 2023</div></body></html>`
	fs.article("c", "C", "<p>gamma</p>")
	seeds := []string{fs.listing("one", "a", "broken", "c")}

	store := &memoryStore{}
	h := newTestHarvester(t, fs, Options{SeedURLs: seeds, MaxArticles: 3}, store, nil, nil)

	summary, err := h.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, providers.ErrMissingField)
	assert.Equal(t, Summary{Discovered: 3, Saved: 1}, summary)
	assert.Len(t, store.records, 1)
	assert.Zero(t, fs.hitCount("/news/c"))
}

func TestHarvesterSkipsFailedArticles(t *testing.T) {
	fs := newFakeSite(t)
	fs.article("a", "A", "<p>alpha</p>")
	fs.article("c", "C", "<p>gamma</p>")
	seeds := []string{fs.listing("one", "a", "gone", "c")}

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	store := &memoryStore{}
	h := newTestHarvester(t, fs, Options{SeedURLs: seeds, MaxArticles: 3, SkipFailedArticles: true}, store, nil, log)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Summary{Discovered: 3, Saved: 2, Failed: 1}, summary)

	require.Len(t, store.records, 2)
	assert.Equal(t, 1, store.records[0].ID)
	assert.Equal(t, 2, store.records[1].ID)
	assert.Equal(t, "C", store.records[1].Title)

	skipped := logs.FilterMessage("article skipped").All()
	require.Len(t, skipped, 1)
	assert.Equal(t, fs.articleURL("gone"), skipped[0].ContextMap()["url"])
}

func TestHarvesterStoreFailureAborts(t *testing.T) {
	fs := newFakeSite(t)
	fs.article("a", "A", "<p>alpha</p>")
	seeds := []string{fs.listing("one", "a")}

	diskFull := errors.New("disk full")
	h := newTestHarvester(t, fs, Options{SeedURLs: seeds, MaxArticles: 1, SkipFailedArticles: true}, &memoryStore{err: diskFull}, nil, nil)

	_, err := h.Run(context.Background())
	assert.ErrorIs(t, err, diskFull)
}

func TestHarvesterPublishFailureIsLogged(t *testing.T) {
	fs := newFakeSite(t)
	fs.article("a", "A", "<p>alpha</p>")
	seeds := []string{fs.listing("one", "a")}

	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.FromZap(zap.New(core))

	store := &memoryStore{}
	failing := &recordingPublisher{err: errors.New("queue down")}
	healthy := &recordingPublisher{}
	h := newTestHarvester(t, fs, Options{SeedURLs: seeds, MaxArticles: 1}, store, []EventPublisher{failing, healthy}, log)

	summary, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Saved)
	assert.Len(t, healthy.events, 1)
	assert.Equal(t, 1, logs.FilterMessage("event publish failed").Len())
}

func TestHarvesterDiscoveryFailure(t *testing.T) {
	fs := newFakeSite(t)
	h := newTestHarvester(t, fs, Options{SeedURLs: []string{fs.srv.URL + "/list/missing"}, MaxArticles: 2}, &memoryStore{}, nil, nil)

	summary, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Zero(t, summary)
}

func TestNewHarvesterValidates(t *testing.T) {
	site := providers.NewK1NewsSite()
	deps := Deps{Site: site, Frontier: NewFrontier(nil, nil), Scraper: NewScraper(nil, nil), Store: &memoryStore{}}

	_, err := NewHarvester(Options{MaxArticles: 0}, deps)
	assert.Error(t, err)

	noStore := deps
	noStore.Store = nil
	_, err = NewHarvester(Options{MaxArticles: 1}, noStore)
	assert.Error(t, err)

	_, err = NewHarvester(Options{MaxArticles: 1}, deps)
	assert.NoError(t, err)
}
