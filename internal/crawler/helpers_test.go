package crawler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/pkg/httpclient"
	"github.com/Adda-Baaj/k1news-harvester/pkg/providers"
)

// fakeSite serves listing pages under /list/<name> and article pages under
// /news/<slug>, counting hits per path.
type fakeSite struct {
	srv      *httptest.Server
	mu       sync.Mutex
	hits     map[string]int
	listings map[string][]string
	articles map[string]string
}

func newFakeSite(t *testing.T) *fakeSite {
	t.Helper()
	fs := &fakeSite{
		hits:     map[string]int{},
		listings: map[string][]string{},
		articles: map[string]string{},
	}
	fs.srv = httptest.NewServer(http.HandlerFunc(fs.serve))
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeSite) serve(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	fs.hits[r.URL.Path]++
	fs.mu.Unlock()

	switch {
	case strings.HasPrefix(r.URL.Path, "/list/"):
		slugs, ok := fs.listings[strings.TrimPrefix(r.URL.Path, "/list/")]
		if !ok {
			http.Error(w, "no such listing", http.StatusInternalServerError)
			return
		}
		var b strings.Builder
		b.WriteString("<html><body>")
		for _, slug := range slugs {
			fmt.Fprintf(&b, `<a class="new__thumb" href="%s">%s</a>`, slug, slug)
		}
		b.WriteString("</body></html>")
		_, _ = w.Write([]byte(b.String()))
	case strings.HasPrefix(r.URL.Path, "/news/"):
		page, ok := fs.articles[strings.TrimPrefix(r.URL.Path, "/news/")]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(page))
	default:
		http.NotFound(w, r)
	}
}

func (fs *fakeSite) listing(name string, slugs ...string) string {
	fs.listings[name] = slugs
	return fs.srv.URL + "/list/" + name
}

func (fs *fakeSite) article(slug, title, body string) string {
	fs.articles[slug] = `<html><body><h1>` + title + `</h1>` +
		`<div class="news__date">14:30, 5 марта 2023</div>` +
		`<div class="article__body">` + body + `</div></body></html>`
	return fs.articleURL(slug)
}

func (fs *fakeSite) articleURL(slug string) string {
	return fs.srv.URL + "/news/" + slug
}

func (fs *fakeSite) hitCount(path string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.hits[path]
}

func (fs *fakeSite) provider() providers.Provider {
	return providers.Provider{ID: "k1news", ArticleBaseURL: fs.srv.URL + "/news/"}
}

func (fs *fakeSite) client() providers.HTTPClient {
	return httpclient.NewRestyClient(5 * time.Second)
}
