// Package gee provides a client for fetching Google Earth Engine CSV
// exports from an HTTP export bucket.
package gee

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"landscape-monitor/internal/config"
)

// ErrExportNotFound is returned when the bucket has no export for the
// requested dataset and period. Callers treat this as a data-quality
// warning, not a fatal error.
var ErrExportNotFound = errors.New("export not found")

// Client is a client for an HTTP GEE export bucket.
type Client struct {
	endpoint   string             // Bucket endpoint
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
}

// NewClient creates a new GEE export bucket client.
func NewClient(cfg *config.ExportsConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	// Create resty client
	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	return &Client{
		endpoint:   cfg.Endpoint,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "gee-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	// Retry on error (timeout, connection failure, etc.)
	if err != nil {
		return true
	}

	// Retry on 5xx server errors
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	// Do not retry on 4xx client errors
	return false
}

// Fetch downloads one export CSV by filename (e.g. "ndvi_evi_2025_07.csv")
// and returns its raw bytes. A 404 maps to ErrExportNotFound.
func (c *Client) Fetch(ctx context.Context, filename string) ([]byte, error) {
	c.logger.Debug().
		Str("filename", filename).
		Msg("fetching GEE export")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/" + filename)

	if err != nil {
		c.logger.Error().Err(err).Str("filename", filename).Msg("failed to fetch export")
		return nil, fmt.Errorf("failed to fetch export %s: %w", filename, err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		c.logger.Warn().Str("filename", filename).Msg("export not present in bucket")
		return nil, fmt.Errorf("export %s: %w", filename, ErrExportNotFound)
	}

	if resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Str("filename", filename).
			Msg("export bucket returned non-200 status")
		return nil, fmt.Errorf("export bucket returned status %d for %s", resp.StatusCode(), filename)
	}

	c.logger.Debug().
		Str("filename", filename).
		Int("bytes", len(resp.Body())).
		Msg("export fetched successfully")

	return resp.Body(), nil
}
