// Package httpclient wraps net/http with request rate limiting and retry
// with exponential backoff for talking to the market-data provider.
package httpclient

import (
	"context"
	"net/http"
	"slices"
	"time"

	"golang.org/x/time/rate"
)

// Doer is satisfied by Client and by test doubles.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

type RetryConfig struct {
	MaxRetries    uint
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	RetryOnStatus []int
}

type ClientConfig struct {
	HttpClient      *http.Client
	RateLimitConfig RateLimitConfig
	RetryConfig     RetryConfig
}

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      RetryConfig
}

func NewClient(config ClientConfig) *Client {
	if config.HttpClient == nil {
		config.HttpClient = &http.Client{Timeout: 30 * time.Second}
	}
	limit := rate.Inf
	if config.RateLimitConfig.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RateLimitConfig.RequestsPerSecond)
	}
	burst := config.RateLimitConfig.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		httpClient: config.HttpClient,
		limiter:    rate.NewLimiter(limit, burst),
		retry:      config.RetryConfig,
	}
}

// Do sends req, retrying transport errors and the configured status codes.
// When retries are exhausted on a retryable status the last response is
// returned as-is so the caller can inspect it.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	var lastErr error
	for attempt := uint(0); attempt <= c.retry.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req.Clone(ctx))
		last := attempt == c.retry.MaxRetries
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
		case slices.Contains(c.retry.RetryOnStatus, resp.StatusCode) && !last:
			resp.Body.Close()
			lastErr = nil
		default:
			return resp, nil
		}

		if last {
			break
		}
		select {
		case <-time.After(c.backoff(attempt)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

func (c *Client) backoff(attempt uint) time.Duration {
	delay := c.retry.BaseDelay * (1 << attempt)
	if c.retry.MaxDelay > 0 {
		return min(delay, c.retry.MaxDelay)
	}
	return delay
}
