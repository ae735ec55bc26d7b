package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/kitops-ml/blogdata/internal/cache"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/utils"
)

// MaxBodySize caps how much of a page is read
const MaxBodySize = 10 << 20

// Client fetches post pages through tls-client with a browser TLS profile
type Client struct {
	tlsClient    tls_client.HttpClient
	userAgent    string
	retrier      *Retrier
	cache        domain.Cache
	cacheEnabled bool
	cacheRefresh bool
	cacheTTL     time.Duration
	logger       *utils.Logger
}

// ClientOptions contains options for creating a Client
type ClientOptions struct {
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
	EnableCache   bool
	CacheTTL      time.Duration
	Cache         domain.Cache
	UserAgent     string
	ProxyURL      string
	Logger        *utils.Logger
}

// DefaultClientOptions returns default client options
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Timeout:       30 * time.Second,
		MaxRetries:    2,
		RetryInterval: 1 * time.Second,
		EnableCache:   false,
		CacheTTL:      24 * time.Hour,
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ClientOptions) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	logger := opts.Logger.WithComponent("fetcher")

	tlsOpts := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(opts.Timeout.Seconds())),
		tls_client.WithClientProfile(profiles.Chrome_131),
		tls_client.WithRandomTLSExtensionOrder(),
	}

	if opts.ProxyURL != "" {
		tlsOpts = append(tlsOpts, tls_client.WithProxyUrl(opts.ProxyURL))
	}

	tlsClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), tlsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	retrier := NewRetrier(RetrierOptions{
		MaxRetries:      opts.MaxRetries,
		InitialInterval: opts.RetryInterval,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		Logger:          logger,
	})

	return &Client{
		tlsClient:    tlsClient,
		userAgent:    opts.UserAgent,
		retrier:      retrier,
		cache:        opts.Cache,
		cacheEnabled: opts.EnableCache,
		cacheTTL:     opts.CacheTTL,
		logger:       logger,
	}, nil
}

// Get fetches a page. Redirects are followed and non-2xx statuses are errors.
func (c *Client) Get(ctx context.Context, url string) (*domain.Response, error) {
	if c.cacheEnabled && c.cache != nil && !c.cacheRefresh {
		if cached, err := c.getFromCache(ctx, url); err == nil {
			c.logger.Debug().Str("url", url).Msg("Page cache hit")
			return cached, nil
		}
	}

	resp, err := RetryWithValue(ctx, c.retrier, func() (*domain.Response, error) {
		return c.doRequest(ctx, url)
	})
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && c.cache != nil {
		if err := c.saveToCache(ctx, url, resp); err != nil {
			c.logger.Warn().Err(err).Str("url", url).Msg("Failed to cache page")
		}
	}

	return resp, nil
}

// doRequest performs a single GET request
func (c *Client) doRequest(ctx context.Context, targetURL string) (*domain.Response, error) {
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, targetURL, nil)
	if err != nil {
		return nil, domain.NewFetchError(targetURL, 0, fmt.Errorf("%w: %v", domain.ErrInvalidURL, err))
	}

	for k, v := range RequestHeaders(c.userAgent) {
		req.Header.Set(k, v)
	}

	resp, err := c.tlsClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, domain.NewFetchError(targetURL, 0, ctxErr)
		}
		return nil, domain.NewFetchError(targetURL, 0, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fetchErr := domain.NewFetchError(targetURL, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
		if ShouldRetryStatus(resp.StatusCode) {
			return nil, &domain.RetryableError{
				Err:        fetchErr,
				RetryAfter: int(ParseRetryAfter(resp.Header.Get("Retry-After")).Seconds()),
			}
		}
		return nil, fetchErr
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize))
	if err != nil {
		return nil, domain.NewFetchError(targetURL, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err))
	}

	headers := make(http.Header, len(resp.Header))
	for k, v := range resp.Header {
		headers[k] = v
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &domain.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Headers:     headers,
		ContentType: resp.Header.Get("Content-Type"),
		URL:         finalURL,
	}, nil
}

// Close releases client resources. tls-client has nothing to release.
func (c *Client) Close() error {
	return nil
}

// getFromCache retrieves a page from the page cache
func (c *Client) getFromCache(ctx context.Context, url string) (*domain.Response, error) {
	data, err := c.cache.Get(ctx, cache.PageKey(url))
	if err != nil {
		return nil, err
	}

	return &domain.Response{
		StatusCode:  http.StatusOK,
		Body:        data,
		ContentType: "text/html",
		URL:         url,
		FromCache:   true,
	}, nil
}

// saveToCache stores a fetched page in the page cache
func (c *Client) saveToCache(ctx context.Context, url string, resp *domain.Response) error {
	return c.cache.Set(ctx, cache.PageKey(url), resp.Body, c.cacheTTL)
}

// SetCache sets the page cache implementation
func (c *Client) SetCache(cache domain.Cache) {
	c.cache = cache
}

// SetCacheEnabled enables or disables the page cache
func (c *Client) SetCacheEnabled(enabled bool) {
	c.cacheEnabled = enabled
}

// SetCacheRefresh makes Get skip cached pages. Fetched pages are still
// written to the cache.
func (c *Client) SetCacheRefresh(refresh bool) {
	c.cacheRefresh = refresh
}
