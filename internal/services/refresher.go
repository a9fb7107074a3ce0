package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefresherService re-collects the current season on a schedule so the
// cache never ages past its staleness window during draft season, and
// purges long-expired rows overnight.
type RefresherService struct {
	playerCache     *PlayerCacheService
	logger          *logrus.Logger
	cron            *cron.Cron
	mu              sync.Mutex
	isRunning       bool
	refreshInterval time.Duration
	currentSeason   int
}

func NewRefresherService(
	playerCache *PlayerCacheService,
	refreshInterval time.Duration,
	currentSeason int,
	logger *logrus.Logger,
) *RefresherService {
	if refreshInterval <= 0 {
		refreshInterval = 6 * time.Hour
	}
	return &RefresherService{
		playerCache:     playerCache,
		logger:          logger,
		cron:            cron.New(),
		refreshInterval: refreshInterval,
		currentSeason:   currentSeason,
	}
}

// Start schedules the refresh and cleanup jobs and warms the cache once.
func (s *RefresherService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("@every %s", s.refreshInterval.String())
	_, err := s.cron.AddFunc(schedule, s.refreshCurrentSeason)
	if err != nil {
		return fmt.Errorf("failed to schedule season refresh: %w", err)
	}

	// Daily cleanup at 3 AM
	_, err = s.cron.AddFunc("0 3 * * *", s.purgeExpired)
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.isRunning = true

	// Warm the cache so the first request does not pay for collection
	go s.refreshCurrentSeason()

	s.logger.Info("Season refresher started")
	return nil
}

// Stop halts the schedule and waits for any running job to finish.
func (s *RefresherService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.logger.Info("Season refresher stopped")
}

// RefreshOnDemand repopulates a season in the background, for use after an
// explicit invalidation.
func (s *RefresherService) RefreshOnDemand(seasonYear int) {
	go s.refreshSeason(seasonYear)
}

func (s *RefresherService) refreshCurrentSeason() {
	s.refreshSeason(s.currentSeason)
}

func (s *RefresherService) refreshSeason(seasonYear int) {
	s.logger.WithField("season_year", seasonYear).Info("Starting scheduled season refresh")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	data, err := s.playerCache.Refresh(ctx, seasonYear)
	if err != nil {
		s.logger.WithError(err).WithField("season_year", seasonYear).Error("Scheduled season refresh failed")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"season_year": seasonYear,
		"players":     len(data.Records),
		"degraded":    data.Degraded,
	}).Info("Completed scheduled season refresh")
}

func (s *RefresherService) purgeExpired() {
	s.logger.Info("Starting daily cache cleanup")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	purged, err := s.playerCache.PurgeExpired(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Daily cache cleanup failed")
		return
	}

	s.logger.WithField("purged", purged).Info("Daily cache cleanup finished")
}

// Status reports scheduler state for the health endpoint.
func (s *RefresherService) Status() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	nextRuns := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		nextRuns = append(nextRuns, entry.Next)
	}

	return map[string]interface{}{
		"is_running":       s.isRunning,
		"refresh_interval": s.refreshInterval.String(),
		"next_runs":        nextRuns,
		"cron_jobs":        len(entries),
	}
}
