// Package oracle provides the HTTP transport behind the draft quote oracle.
// This adapter only moves bytes; all pricing semantics live in core/quote.
package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"workorder-pricing/core/quote"
	"workorder-pricing/core/types"
	"workorder-pricing/internal/errors"
	"workorder-pricing/internal/logging"
)

// Config configures the HTTP oracle client
type Config struct {
	// URL is the draft quote endpoint
	URL string

	// Token is the bearer token sent with each request (empty = none)
	Token string

	// Timeout bounds a single round trip
	Timeout time.Duration

	// MaxResponseBytes limits response body size
	MaxResponseBytes int64
}

// DefaultConfig returns production defaults
func DefaultConfig(url string) *Config {
	return &Config{
		URL:              url,
		Timeout:          30 * time.Second,
		MaxResponseBytes: 4 * 1024 * 1024,
	}
}

// Client is an HTTP implementation of quote.Oracle
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new oracle client
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// draftQuoteRequest is the wire request
type draftQuoteRequest struct {
	Lines    []quote.DraftLine `json:"lines"`
	Discount *types.Discount   `json:"discount,omitempty"`
}

// PriceDraft implements quote.Oracle
func (c *Client) PriceDraft(ctx context.Context, lines []quote.DraftLine, discount *types.Discount) (*quote.DraftQuote, error) {
	body, err := json.Marshal(draftQuoteRequest{Lines: lines, Discount: discount})
	if err != nil {
		return nil, errors.Internal("failed to encode draft quote request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Internal("failed to build draft quote request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "draft quote call failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "failed to read draft quote response", err)
	}

	logging.Debug("draft quote round trip",
		zap.Int("lines", len(lines)),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.TypeNetwork, "draft quote returned status %d: %s",
			resp.StatusCode, truncate(data, 256))
	}
	if len(data) == 0 {
		return nil, nil
	}

	var result quote.DraftQuote
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(errors.TypeNetwork, "failed to decode draft quote response", err)
	}

	return &result, nil
}

func truncate(data []byte, max int) string {
	if len(data) <= max {
		return string(data)
	}
	return fmt.Sprintf("%s... (%d bytes)", data[:max], len(data))
}
