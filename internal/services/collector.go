package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/providers"
)

// CollectorService pulls season stat lines from the primary provider and
// falls back to the bundled sample dataset when the primary is unavailable.
// The circuit breaker stops us from hammering a provider that is down.
type CollectorService struct {
	primary        providers.StatProvider
	fallback       providers.StatProvider
	circuitBreaker *gobreaker.CircuitBreaker
	logger         *logrus.Logger
}

func NewCollectorService(primary, fallback providers.StatProvider, failureThreshold int, logger *logrus.Logger) *CollectorService {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "stat-collector",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > uint32(failureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"circuit":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Info("Stat collector circuit breaker state changed")
		},
	})

	return &CollectorService{
		primary:        primary,
		fallback:       fallback,
		circuitBreaker: cb,
		logger:         logger,
	}
}

// Collect fetches stat lines for a season. The degraded flag reports that
// the fallback dataset served the request instead of the primary provider.
func (s *CollectorService) Collect(ctx context.Context, seasonYear int) ([]draft.PlayerSeasonData, bool, error) {
	result, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		players, err := s.primary.FetchPlayers(ctx, seasonYear)
		if err != nil {
			return nil, err
		}
		// An empty dataset is as useless as a failed request and must
		// count against the breaker.
		if len(players) == 0 {
			return nil, fmt.Errorf("provider %s returned no players for season %d", s.primary.Name(), seasonYear)
		}
		return players, nil
	})
	if err == nil {
		return result.([]draft.PlayerSeasonData), false, nil
	}

	s.logger.WithError(err).WithFields(logrus.Fields{
		"provider":    s.primary.Name(),
		"season_year": seasonYear,
	}).Warn("Primary stat provider failed, trying fallback")

	if s.fallback == nil {
		return nil, false, fmt.Errorf("stat collection failed for season %d: %w", seasonYear, err)
	}

	players, fallbackErr := s.fallback.FetchPlayers(ctx, seasonYear)
	if fallbackErr != nil {
		return nil, false, fmt.Errorf("stat collection failed for season %d (fallback: %v): %w", seasonYear, fallbackErr, err)
	}

	s.logger.WithFields(logrus.Fields{
		"provider":    s.fallback.Name(),
		"season_year": seasonYear,
		"players":     len(players),
	}).Info("Serving sample dataset in place of live stats")

	return players, true, nil
}

// IsHealthy reports whether the primary provider path is usable.
func (s *CollectorService) IsHealthy() bool {
	return s.circuitBreaker.State() == gobreaker.StateClosed
}

// CircuitState exposes the breaker state for health reporting.
func (s *CollectorService) CircuitState() string {
	return s.circuitBreaker.State().String()
}
