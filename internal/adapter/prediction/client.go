// Package prediction forwards the flat table to the downstream prediction
// system over HTTP.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/weather-flat-etl/internal/config"
	"github.com/couchcryptid/weather-flat-etl/internal/domain"
)

// Client POSTs the flat table as a JSON array to the prediction system.
// It implements pipeline.Hook.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a prediction system forwarder.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		url:        cfg.PredictionURL,
		httpClient: &http.Client{Timeout: cfg.PredictionTimeout},
		logger:     logger,
	}
}

// Name identifies the hook in logs and metrics.
func (c *Client) Name() string { return "prediction" }

// Publish transmits the table. The table is never mutated.
func (c *Client) Publish(ctx context.Context, rows []domain.FlatRow) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("serialize flat table: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("prediction system request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("prediction system error: status %d: %s", resp.StatusCode, body)
	}

	c.logger.Info("flat table transmitted", "rows", len(rows), "url", c.url)
	return nil
}
