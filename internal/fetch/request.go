package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// credentialParams are stripped from cache keys and log lines.
var credentialParams = []string{"apiKey", "api_key"}

// Get fetches path with query and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.GetRaw(ctx, path, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, path, err)
	}

	return nil
}

// GetRaw fetches path with query and returns the response body.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	key := CacheKey(path, query)

	if c.cache != nil {
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Debug("cache get failed", "key", key, "error", err)
		}
		if ok {
			return body, nil
		}
	}

	body, err := c.doWithRetry(ctx, path, query)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			c.wait(ctx)
		}
		return nil, err
	}
	c.wait(ctx)

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrNoData
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
			c.logger.Debug("cache set failed", "key", key, "error", err)
		}
	}

	return body, nil
}

// doRequest performs one GET round trip.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s returned %d", ErrNoData, path, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry retries only on 429, waiting the fixed backoff between attempts.
func (c *Client) doWithRetry(ctx context.Context, path string, query url.Values) ([]byte, error) {
	var lastErr *APIError

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		body, err := c.doRequest(ctx, path, query)
		if err == nil {
			return body, nil
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRateLimited() {
			return nil, err
		}
		lastErr = apiErr

		if attempt == c.maxAttempts {
			break
		}

		c.logger.Debug("rate limited, backing off",
			"attempt", attempt,
			"backoff", c.retryBackoff,
			"path", path,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-c.sleep(c.retryBackoff):
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRateLimited, c.maxAttempts, lastErr)
}

// wait applies the pacing delay. Cancellation cuts it short.
func (c *Client) wait(ctx context.Context) {
	if c.pace <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-c.sleep(c.pace):
	}
}

// CacheKey derives a cache key from path and query with credentials removed.
func CacheKey(path string, query url.Values) string {
	if len(query) == 0 {
		return path
	}
	q := make(url.Values, len(query))
	for k, v := range query {
		q[k] = v
	}
	for _, p := range credentialParams {
		q.Del(p)
	}
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
