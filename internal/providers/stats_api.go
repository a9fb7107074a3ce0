package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// StatsAPIClient implements StatProvider against a JSON season-stats
// endpoint. Requests are paced by a token bucket so bursts of cache misses
// cannot hammer the upstream API.
type StatsAPIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewStatsAPIClient creates a stats API client
func NewStatsAPIClient(baseURL string, timeout time.Duration, requestsPerSecond int, logger *logrus.Logger) *StatsAPIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}

	return &StatsAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
		logger:  logger,
	}
}

func (c *StatsAPIClient) Name() string {
	return "stats-api"
}

// FetchPlayers fetches every player's season history for the given season
func (c *StatsAPIClient) FetchPlayers(ctx context.Context, seasonYear int) ([]draft.PlayerSeasonData, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("stats API base URL not configured")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	url := fmt.Sprintf("%s/v1/seasons/%d/players", c.baseURL, seasonYear)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats API returned status %d", resp.StatusCode)
	}

	var players []draft.PlayerSeasonData
	if err := json.NewDecoder(resp.Body).Decode(&players); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}

	cleaned := c.normalize(players)
	c.logger.WithFields(logrus.Fields{
		"season_year": seasonYear,
		"players":     len(cleaned),
	}).Debug("Fetched players from stats API")

	return cleaned, nil
}

// normalize drops unusable entries and enforces the most-recent-first
// season ordering the rest of the engine assumes.
func (c *StatsAPIClient) normalize(players []draft.PlayerSeasonData) []draft.PlayerSeasonData {
	cleaned := make([]draft.PlayerSeasonData, 0, len(players))
	for _, p := range players {
		p.Name = strings.TrimSpace(p.Name)
		if p.Name == "" {
			c.logger.Warn("Skipping stats entry without a player name")
			continue
		}
		p.Position = draft.Position(strings.ToUpper(string(p.Position)))

		sort.Slice(p.Seasons, func(i, j int) bool {
			return p.Seasons[i].SeasonYear > p.Seasons[j].SeasonYear
		})
		cleaned = append(cleaned, p)
	}
	return cleaned
}
