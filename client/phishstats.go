// client/phishstats.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/phishnheat/backend/config"
	apperrors "github.com/phishnheat/backend/errors"
	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

// PhishStatsClient performs a single GET against the PhishStats API and maps
// failures onto the upstream error taxonomy. Caching, retries and budget
// enforcement all live in the fetch coordinator, not here.
type PhishStatsClient struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

func NewPhishStatsClient() *PhishStatsClient {
	c := &PhishStatsClient{
		baseURL:   config.GetString("phishstats.url"),
		apiKey:    config.GetString("phishstats.apiKey"),
		userAgent: "phishnheat-backend/1.0",
		// Per-attempt timeouts come from the caller's context.
		httpClient: &http.Client{},
	}
	logger.Info("PhishStatsClient initialized", zap.String("url", c.baseURL))
	return c
}

// Call fetches the current incident list from PhishStats.
func (c *PhishStatsClient) Call(ctx context.Context) ([]model.PhishingIncident, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: upstream returned 429", apperrors.ErrUpstreamQuotaExceeded)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: upstream returned %d", apperrors.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var incidents []model.PhishingIncident
	if err := json.NewDecoder(resp.Body).Decode(&incidents); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedResponse, err)
	}

	logger.Info("Received records from PhishStats", zap.Int("count", len(incidents)))
	return incidents, nil
}
