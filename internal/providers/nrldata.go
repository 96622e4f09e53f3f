// Package providers wraps external NRL data sources. The primary feed is the
// community NRL-Data repository, served as raw JSON files per season.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// NRLDataClient fetches season match and player-stat feeds. Requests are
// rate limited and guarded by a circuit breaker so a dead upstream fails
// fast instead of stalling import jobs.
type NRLDataClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

// NewNRLDataClient creates a feed client for the given base URL.
func NewNRLDataClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *NRLDataClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nrl-data",
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &NRLDataClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(2), 5),
		breaker:    breaker,
		logger:     logger,
	}
}

// FetchSeasonMatches returns all match records for a season.
func (c *NRLDataClient) FetchSeasonMatches(ctx context.Context, season int) ([]MatchRecord, error) {
	url := fmt.Sprintf("%s/NRL/NRL_data_%d.json", c.baseURL, season)

	var matches []MatchRecord
	if err := c.getJSON(ctx, url, &matches); err != nil {
		return nil, fmt.Errorf("failed to fetch %d matches: %w", season, err)
	}

	c.logger.Infof("Fetched %d match records for season %d", len(matches), season)
	return matches, nil
}

// FetchSeasonPlayerStats returns all per-player match stat lines for a season.
func (c *NRLDataClient) FetchSeasonPlayerStats(ctx context.Context, season int) ([]PlayerStatsRecord, error) {
	url := fmt.Sprintf("%s/NRL/NRL_detailed_match_data_%d.json", c.baseURL, season)

	var stats []PlayerStatsRecord
	if err := c.getJSON(ctx, url, &stats); err != nil {
		return nil, fmt.Errorf("failed to fetch %d player stats: %w", season, err)
	}

	c.logger.Infof("Fetched %d player stat records for season %d", len(stats), season)
	return stats, nil
}

func (c *NRLDataClient) getJSON(ctx context.Context, url string, dest interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("failed to decode feed: %w", err)
		}
		return nil, nil
	})

	return err
}
