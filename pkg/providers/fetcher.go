package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/pkg/httpclient"

	"github.com/PuerkitoBio/goquery"
)

// maxHTMLBodyBytes bounds a fetched page. Larger pages are rejected, never cut.
var maxHTMLBodyBytes = 16 << 20 // 16 MiB

// ErrBodyTooLarge reports a page above maxHTMLBodyBytes.
var ErrBodyTooLarge = errors.New("response body too large")

type siteRegistry struct {
	sites map[string]Site
	mu    sync.RWMutex
}

// NewSiteRegistry builds a registry for the provided site implementations.
func NewSiteRegistry(sites ...Site) SiteRegistry {
	reg := &siteRegistry{
		sites: make(map[string]Site, len(sites)),
	}

	for _, s := range sites {
		if s == nil {
			continue
		}
		reg.sites[strings.ToLower(strings.TrimSpace(s.ID()))] = s
	}

	return reg
}

// SiteFor selects the site for the given provider based on its id.
func (r *siteRegistry) SiteFor(cfg Provider) (Site, error) {
	if cfg.ID == "" {
		return nil, fmt.Errorf("provider id is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(cfg.ID))
	if s, ok := r.sites[key]; ok {
		return s, nil
	}

	return nil, fmt.Errorf("no site registered for provider %q", cfg.ID)
}

// DefaultHTTPClient returns the resty client used when none is supplied.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }

// DefaultSiteRegistry wires up the known sites.
func DefaultSiteRegistry() SiteRegistry {
	return NewSiteRegistry(
		NewK1NewsSite(),
	)
}

// FetchDocument downloads url and parses it as HTML. Transport failures and
// non-200 responses are reported as *httpclient.FetchError; a page above the
// size limit wraps ErrBodyTooLarge.
func FetchDocument(ctx context.Context, client HTTPClient, url string, headers map[string]string) (*goquery.Document, error) {
	if client == nil {
		return nil, errors.New("http client is nil")
	}

	resp, err := client.Get(ctx, url, headers)
	if err != nil {
		return nil, &httpclient.FetchError{URL: url, Err: err}
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, &httpclient.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status, body: %s", responseSnippet(body)),
		}
	}

	if len(body) > maxHTMLBodyBytes {
		return nil, &httpclient.FetchError{
			URL:        url,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("%w: %d bytes, limit %d", ErrBodyTooLarge, len(body), maxHTMLBodyBytes),
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", url, err)
	}
	return doc, nil
}
