package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Adda-Baaj/k1news-harvester/internal/logger"
	"github.com/Adda-Baaj/k1news-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverUniqueInOrder(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "a", "b", "a"),
		fs.listing("two", "b", "c", "d"),
	}

	urls, err := NewFrontier(fs.client(), logger.NopLogger{}).
		Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{
		fs.articleURL("a"),
		fs.articleURL("b"),
		fs.articleURL("c"),
		fs.articleURL("d"),
	}, urls)
}

func TestDiscoverBound(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "a", "b", "c"),
		fs.listing("two", "d", "e"),
	}

	urls, err := NewFrontier(fs.client(), nil).
		Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{
		fs.articleURL("a"),
		fs.articleURL("b"),
		fs.articleURL("c"),
		fs.articleURL("d"),
	}, urls)
}

func TestDiscoverSingleArticleTakesFirstLink(t *testing.T) {
	for _, fetchAll := range []bool{false, true} {
		t.Run(fmt.Sprintf("fetch_all_seeds=%t", fetchAll), func(t *testing.T) {
			fs := newFakeSite(t)
			seeds := []string{
				fs.listing("one", "first", "second"),
				fs.listing("two", "third", "fourth"),
			}

			f := NewFrontier(fs.client(), nil)
			f.FetchAllSeeds = fetchAll
			urls, err := f.Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 1)
			require.NoError(t, err)
			assert.Equal(t, []string{fs.articleURL("first")}, urls)

			assert.Equal(t, 1, fs.hitCount("/list/one"))
			if fetchAll {
				assert.Equal(t, 1, fs.hitCount("/list/two"))
			} else {
				assert.Zero(t, fs.hitCount("/list/two"))
			}
		})
	}
}

func TestDiscoverIsDeterministic(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "x", "y"),
		fs.listing("two", "y", "z"),
	}
	f := NewFrontier(fs.client(), nil)
	site := providers.NewK1NewsSite()

	first, err := f.Discover(context.Background(), site, fs.provider(), seeds, 5)
	require.NoError(t, err)
	second, err := f.Discover(context.Background(), site, fs.provider(), seeds, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscoverEmptyListing(t *testing.T) {
	fs := newFakeSite(t)

	urls, err := NewFrontier(fs.client(), nil).
		Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), []string{fs.listing("empty")}, 3)
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestDiscoverStopsFetchingOnceFull(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "a", "b"),
		fs.listing("two", "c"),
	}

	f := NewFrontier(fs.client(), nil)
	_, err := f.Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, fs.hitCount("/list/one"))
	assert.Zero(t, fs.hitCount("/list/two"))
}

func TestDiscoverFetchAllSeeds(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "a", "b"),
		fs.listing("two", "c"),
	}

	f := NewFrontier(fs.client(), nil)
	f.FetchAllSeeds = true
	urls, err := f.Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{fs.articleURL("a"), fs.articleURL("b")}, urls)
	assert.Equal(t, 1, fs.hitCount("/list/two"))
}

func TestDiscoverSeedFailure(t *testing.T) {
	fs := newFakeSite(t)
	seeds := []string{
		fs.listing("one", "a"),
		fs.srv.URL + "/list/broken",
	}

	_, err := NewFrontier(fs.client(), nil).
		Discover(context.Background(), providers.NewK1NewsSite(), fs.provider(), seeds, 5)
	require.Error(t, err)

	var fetchErr *httpclient.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
}

func TestDiscoverRejectsBadInput(t *testing.T) {
	f := NewFrontier(nil, nil)

	_, err := f.Discover(context.Background(), providers.NewK1NewsSite(), providers.Provider{}, []string{"https://k1news.ru/news/"}, 0)
	assert.Error(t, err)

	_, err = f.Discover(context.Background(), nil, providers.Provider{}, []string{"https://k1news.ru/news/"}, 3)
	assert.Error(t, err)
}

func TestDiscoverHonorsCancelledContext(t *testing.T) {
	fs := newFakeSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFrontier(fs.client(), nil).
		Discover(ctx, providers.NewK1NewsSite(), fs.provider(), []string{fs.listing("one", "a")}, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fs.hitCount("/list/one"))
}
