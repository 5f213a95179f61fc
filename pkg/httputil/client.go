package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ShrayBagga/StockAnalysis/pkg/config"
	"github.com/ShrayBagga/StockAnalysis/pkg/logger"
	"github.com/ShrayBagga/StockAnalysis/pkg/redis"
)

const userAgent = "Mozilla/5.0 (compatible; stockanalysis/1.0)"

// Client is an HTTP client wrapper with retry logic and logging
// ⭐ SSOT: every outbound HTTP request goes through this client
type Client struct {
	rc           *resty.Client
	logger       *logger.Logger
	rateLimiter  *redis.RateLimiter
	rateLimitCfg *redis.RateLimitConfig
}

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// RateLimited reports whether the upstream throttled the request
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// New creates a new HTTP client from config.
// Retry/backoff follows the Yahoo settings: resty waits between RetryWait
// and RetryMaxWait with exponential backoff.
func New(cfg *config.Config, log *logger.Logger) *Client {
	c := &Client{logger: log}

	c.rc = resty.New().
		SetTimeout(cfg.Yahoo.Timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Yahoo.MaxRetries).
		SetRetryWaitTime(cfg.Yahoo.RetryWait).
		SetRetryMaxWaitTime(cfg.Yahoo.RetryMaxWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp != nil && IsRetryableError(resp.StatusCode())
		}).
		AddRetryHook(func(resp *resty.Response, err error) {
			fields := map[string]interface{}{}
			if resp != nil && resp.Request != nil {
				fields["attempt"] = resp.Request.Attempt
				fields["url"] = resp.Request.URL
			}
			if err != nil {
				fields["error"] = err.Error()
			} else {
				fields["status_code"] = resp.StatusCode()
			}
			c.logger.WithFields(fields).Warn("Retrying HTTP request")
		})

	c.rc.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if c.rateLimiter != nil && c.rateLimitCfg != nil {
			if err := c.rateLimiter.Wait(req.Context(), *c.rateLimitCfg); err != nil {
				return fmt.Errorf("rate limit wait failed: %w", err)
			}
		}
		return nil
	})

	return c
}

// NewWithTimeout creates a client with custom timeout
func NewWithTimeout(cfg *config.Config, log *logger.Logger, timeout time.Duration) *Client {
	client := New(cfg, log)
	client.rc.SetTimeout(timeout)
	return client
}

// WithRetry configures retry behavior
func (c *Client) WithRetry(maxRetries int, initialDelay, maxDelay time.Duration) *Client {
	c.rc.SetRetryCount(maxRetries).
		SetRetryWaitTime(initialDelay).
		SetRetryMaxWaitTime(maxDelay)
	return c
}

// DisableRetry disables automatic retry
func (c *Client) DisableRetry() *Client {
	c.rc.SetRetryCount(0)
	return c
}

// WithRateLimiter sets the distributed rate limiter for this client
func (c *Client) WithRateLimiter(limiter *redis.RateLimiter, cfg redis.RateLimitConfig) *Client {
	c.rateLimiter = limiter
	c.rateLimitCfg = &cfg
	return c
}

// Get performs a GET request with query parameters.
// Non-2xx responses are returned as *StatusError after retries are exhausted.
func (c *Client) Get(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	start := time.Now()

	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)

	duration := time.Since(start)

	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"method":   http.MethodGet,
			"url":      url,
			"duration": duration,
			"error":    err.Error(),
		}).Error("HTTP request failed")
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"method":      http.MethodGet,
		"url":         url,
		"status_code": resp.StatusCode(),
		"attempts":    resp.Request.Attempt,
		"duration":    duration,
	}).Debug("HTTP request completed")

	if resp.IsError() {
		return nil, &StatusError{
			StatusCode: resp.StatusCode(),
			URL:        url,
			Body:       truncate(resp.String(), 256),
		}
	}

	return resp.Body(), nil
}

// GetJSON performs a GET request and decodes the JSON body into dest
func (c *Client) GetJSON(ctx context.Context, url string, query map[string]string, dest interface{}) error {
	body, err := c.Get(ctx, url, query)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode JSON from %s: %w", url, err)
	}

	return nil
}

// IsRetryableError checks if a status code should be retried
func IsRetryableError(statusCode int) bool {
	// Retry on 5xx server errors and 429 Too Many Requests
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
