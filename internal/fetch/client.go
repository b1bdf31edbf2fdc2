package fetch

import (
	"log/slog"
	"net/http"
	"time"
)

// Default client settings.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxAttempts  = 3
	DefaultRetryBackoff = 60 * time.Second
	DefaultPace         = 500 * time.Millisecond
	DefaultCacheTTL     = 30 * 24 * time.Hour
)

// Client issues GET requests against one upstream base URL.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
	logger     *slog.Logger

	maxAttempts  int
	retryBackoff time.Duration
	pace         time.Duration

	cache    Cache
	cacheTTL time.Duration

	// sleep is replaced in tests.
	sleep func(d time.Duration) <-chan time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		headers: http.Header{"Accept": []string{"application/json"}},
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:       slog.Default(),
		maxAttempts:  DefaultMaxAttempts,
		retryBackoff: DefaultRetryBackoff,
		pace:         DefaultPace,
		cacheTTL:     DefaultCacheTTL,
		sleep:        time.After,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the per-call HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the total number of attempts made on 429 and the fixed
// wait between them.
func WithRetries(maxAttempts int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		if maxAttempts < 1 {
			maxAttempts = 1
		}
		c.maxAttempts = maxAttempts
		c.retryBackoff = backoff
	}
}

// WithPace sets the delay after each server round trip. Zero disables it.
func WithPace(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pace = d
	}
}

// WithHeaders adds default headers sent on every request.
func WithHeaders(h http.Header) ClientOption {
	return func(c *Client) {
		for k, vs := range h {
			for _, v := range vs {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.headers.Set("User-Agent", ua)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache enables response caching.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithCacheTTL sets how long cached bodies live.
func WithCacheTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}
