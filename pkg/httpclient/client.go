// Package httpclient is the thin HTTP layer used by providers and publishers.
package httpclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultUserAgent = "k1news-harvester/1.0"

// Client performs HTTP requests on behalf of providers and publishers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error)
	Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*resty.Response, error)
}

type restyClient struct {
	c *resty.Client
}

// NewRestyClient returns a Client backed by resty with the given request timeout.
func NewRestyClient(timeout time.Duration) Client {
	c := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", defaultUserAgent)
	return &restyClient{c: c}
}

// Get issues a GET request with the given headers.
func (r *restyClient) Get(ctx context.Context, url string, headers map[string]string) (*resty.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return r.c.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
}

// Send issues a request with a raw body.
func (r *restyClient) Send(ctx context.Context, method, url string, headers map[string]string, body []byte) (*resty.Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := r.c.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetBody(body).
		Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	return resp, nil
}
