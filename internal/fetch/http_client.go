// FILE: internal/fetch/http_client.go
package fetch

import (
	"context"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"activityfeed/internal/logger"
)

// ClientOptions for the fetch client.
type ClientOptions struct {
	Timeout   time.Duration
	UserAgent string
	// RetryMax of zero sends each request once.
	RetryMax int
	Logger   *zap.Logger
}

// Client is a small wrapper around retryablehttp to provide timeouts and UA.
type Client struct {
	inner     *retryablehttp.Client
	userAgent string
}

// NewClient creates a new Client.
func NewClient(opts ClientOptions) *Client {
	r := retryablehttp.NewClient()
	r.RetryMax = opts.RetryMax
	r.HTTPClient.Timeout = opts.Timeout
	if opts.Logger != nil {
		r.Logger = logger.NewLeveled(opts.Logger)
	} else {
		r.Logger = nil
	}
	// hand non-2xx responses back to the caller instead of an opaque "giving up" error
	r.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{inner: r, userAgent: opts.UserAgent}
}

// Get issues a GET with the configured user agent plus any extra headers.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.inner.Do(req)
}

// StandardClient returns a plain *http.Client backed by the retrying transport.
func (c *Client) StandardClient() *http.Client {
	return c.inner.StandardClient()
}
