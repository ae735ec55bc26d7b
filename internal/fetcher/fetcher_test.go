package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kitops-ml/blogdata/internal/cache"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory domain.Cache
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return v, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memCache) Has(ctx context.Context, key string) bool {
	_, err := m.Get(ctx, key)
	return err == nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

func newTestClient(t *testing.T, opts ClientOptions) *Client {
	t.Helper()
	if opts.RetryInterval == 0 {
		opts.RetryInterval = 10 * time.Millisecond
	}
	client, err := NewClient(opts)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 2, opts.MaxRetries)
	assert.False(t, opts.EnableCache)
	assert.Equal(t, 24*time.Hour, opts.CacheTTL)
	assert.Empty(t, opts.UserAgent)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name  string
		opts  ClientOptions
		check func(t *testing.T, c *Client)
	}{
		{
			name: "with default options",
			opts: DefaultClientOptions(),
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c.tlsClient)
				assert.NotNil(t, c.retrier)
				assert.NotNil(t, c.logger)
			},
		},
		{
			name: "zero cache TTL defaults to 24h",
			opts: ClientOptions{},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, 24*time.Hour, c.cacheTTL)
			},
		},
		{
			name: "with custom user agent",
			opts: ClientOptions{UserAgent: "blogdata-test/1.0"},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, "blogdata-test/1.0", c.userAgent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)
			require.NoError(t, err)
			defer client.Close()
			tt.check(t, client)
		})
	}
}

func TestClient_Get(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte("<html><title>Post</title></html>"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []byte("<html><title>Post</title></html>"), resp.Body)
		assert.Equal(t, "text/html; charset=utf-8", resp.ContentType)
		assert.False(t, resp.FromCache)
	})

	t.Run("sends configured user agent and accept header", func(t *testing.T) {
		var gotUA, gotAccept string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{UserAgent: "blogdata-test/1.0"})
		_, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "blogdata-test/1.0", gotUA)
		assert.Equal(t, AcceptHTML, gotAccept)
	})

	t.Run("follows redirects", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/new", http.StatusMovedPermanently)
		})
		mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("moved"))
		})
		server := httptest.NewServer(mux)
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		resp, err := client.Get(context.Background(), server.URL+"/old")
		require.NoError(t, err)
		assert.Equal(t, []byte("moved"), resp.Body)
		assert.Equal(t, server.URL+"/new", resp.URL)
	})

	t.Run("not found is not retried", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 2})
		resp, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.Nil(t, resp)

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("retries service unavailable", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("ok"))
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 2})
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte("ok"), resp.Body)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{MaxRetries: 1})
		_, err := client.Get(context.Background(), server.URL)
		require.Error(t, err)
		assert.True(t, domain.IsRetryable(err))
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("context deadline", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer server.Close()

		client := newTestClient(t, ClientOptions{})
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		_, err := client.Get(ctx, server.URL)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("invalid URL", func(t *testing.T) {
		client := newTestClient(t, ClientOptions{})
		_, err := client.Get(context.Background(), "://bad")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidURL)
	})
}

func TestClient_PageCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("fresh content"))
	}))
	defer server.Close()

	t.Run("stores and serves pages", func(t *testing.T) {
		pages := newMemCache()
		client := newTestClient(t, ClientOptions{EnableCache: true, Cache: pages})

		first, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, first.FromCache)
		assert.True(t, pages.Has(context.Background(), cache.PageKey(server.URL)))

		second, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, []byte("fresh content"), second.Body)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("refresh skips reads and writes back", func(t *testing.T) {
		pages := newMemCache()
		require.NoError(t, pages.Set(context.Background(), cache.PageKey(server.URL), []byte("stale"), 0))

		client := newTestClient(t, ClientOptions{EnableCache: true, Cache: pages})
		client.SetCacheRefresh(true)

		before := hits.Load()
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
		assert.Equal(t, []byte("fresh content"), resp.Body)
		assert.Equal(t, before+1, hits.Load())

		client.SetCacheRefresh(false)
		cached, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.True(t, cached.FromCache)
		assert.Equal(t, []byte("fresh content"), cached.Body)
		assert.Equal(t, before+1, hits.Load())
	})

	t.Run("disabled cache is bypassed", func(t *testing.T) {
		pages := newMemCache()
		require.NoError(t, pages.Set(context.Background(), cache.PageKey(server.URL), []byte("stale"), 0))

		client := newTestClient(t, ClientOptions{EnableCache: false, Cache: pages})
		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.False(t, resp.FromCache)
		assert.Equal(t, []byte("fresh content"), resp.Body)
	})
}

func TestClient_SetCache(t *testing.T) {
	client := newTestClient(t, DefaultClientOptions())

	pages := newMemCache()
	client.SetCache(pages)
	assert.Equal(t, pages, client.cache)

	client.SetCacheEnabled(true)
	assert.True(t, client.cacheEnabled)
	client.SetCacheEnabled(false)
	assert.False(t, client.cacheEnabled)
}

func TestRequestHeaders(t *testing.T) {
	t.Run("custom user agent", func(t *testing.T) {
		headers := RequestHeaders("blogdata/1.0")
		assert.Equal(t, "blogdata/1.0", headers["User-Agent"])
		assert.Equal(t, AcceptHTML, headers["Accept"])
		assert.NotContains(t, headers, "Sec-Fetch-Mode")
	})

	t.Run("random user agent from pool", func(t *testing.T) {
		headers := RequestHeaders("")
		assert.Contains(t, DefaultUserAgents, headers["User-Agent"])
	})

	t.Run("chrome navigation headers", func(t *testing.T) {
		headers := RequestHeaders(DefaultUserAgents[0])
		assert.Equal(t, "navigate", headers["Sec-Fetch-Mode"])
	})
}
