package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/models"
	"github.com/kickoffkings/draft-engine/pkg/database"
	"github.com/kickoffkings/draft-engine/pkg/utils"
)

// SeasonData is the unit the cache stores and serves: every record for one
// season, scored and projected together. Degraded reports that the records
// came from the fallback dataset or from a stale tier after a failed refresh.
type SeasonData struct {
	SeasonYear int                  `json:"season_year"`
	Records    []draft.PlayerRecord `json:"records"`
	Degraded   bool                 `json:"degraded"`
	CachedAt   time.Time            `json:"cached_at"`
}

// PlayerCacheService layers Redis over Postgres for scored player records.
// Population runs through a singleflight group so concurrent requests for
// the same season trigger exactly one collection.
type PlayerCacheService struct {
	db            *database.DB
	cache         *CacheService
	collector     *CollectorService
	rules         draft.ScoringRules
	predictor     *draft.Predictor
	ttl           time.Duration
	currentSeason int
	logger        *logrus.Logger
	group         singleflight.Group
}

func NewPlayerCacheService(
	db *database.DB,
	cache *CacheService,
	collector *CollectorService,
	rules draft.ScoringRules,
	predictor *draft.Predictor,
	ttl time.Duration,
	currentSeason int,
	logger *logrus.Logger,
) *PlayerCacheService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PlayerCacheService{
		db:            db,
		cache:         cache,
		collector:     collector,
		rules:         rules,
		predictor:     predictor,
		ttl:           ttl,
		currentSeason: currentSeason,
		logger:        logger,
	}
}

// GetOrPopulate returns the season's records, populating the cache when they
// are missing or stale. Concurrent callers for the same season share one
// population.
func (s *PlayerCacheService) GetOrPopulate(ctx context.Context, seasonYear int) (*SeasonData, error) {
	if data, ok := s.lookupFresh(ctx, seasonYear); ok {
		return data, nil
	}

	key := PlayersCacheKey(seasonYear)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		// A waiter that lost the race may arrive after the winner already
		// wrote fresh data.
		if data, ok := s.lookupFresh(ctx, seasonYear); ok {
			return data, nil
		}
		return s.populate(ctx, seasonYear)
	})
	if err != nil {
		return nil, err
	}
	return result.(*SeasonData), nil
}

// Refresh repopulates a season regardless of freshness. The scheduled
// refresher uses it so live stats land before the staleness window expires.
// Concurrent GetOrPopulate callers share the same flight.
func (s *PlayerCacheService) Refresh(ctx context.Context, seasonYear int) (*SeasonData, error) {
	key := PlayersCacheKey(seasonYear)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.populate(ctx, seasonYear)
	})
	if err != nil {
		return nil, err
	}
	return result.(*SeasonData), nil
}

// GetPlayer returns a single scored record by name. Name matching is
// case-insensitive because drafted-player lists arrive hand-typed.
func (s *PlayerCacheService) GetPlayer(ctx context.Context, name string, seasonYear int) (draft.PlayerRecord, error) {
	data, err := s.GetOrPopulate(ctx, seasonYear)
	if err != nil {
		return draft.PlayerRecord{}, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, record := range data.Records {
		if strings.ToLower(record.Name) == needle {
			return record, nil
		}
	}
	return draft.PlayerRecord{}, fmt.Errorf("player %q not cached for season %d: %w", name, seasonYear, utils.ErrNotFound)
}

// Invalidate drops both cache tiers for a season. The next request
// repopulates from the collector.
func (s *PlayerCacheService) Invalidate(ctx context.Context, seasonYear int) error {
	if err := s.cache.Delete(ctx, PlayersCacheKey(seasonYear)); err != nil {
		s.logger.WithError(err).WithField("season_year", seasonYear).Warn("Failed to drop Redis tier during invalidation")
	}

	if err := s.db.WithContext(ctx).
		Where("season_year = ?", seasonYear).
		Delete(&models.PlayerCacheEntry{}).Error; err != nil {
		return fmt.Errorf("failed to invalidate season %d: %w", seasonYear, err)
	}

	s.logger.WithField("season_year", seasonYear).Info("Player cache invalidated")
	return nil
}

// PurgeExpired removes database rows whose cached_at predates the staleness
// window. Redis entries carry their own TTL.
func (s *PlayerCacheService) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-2 * s.ttl)
	result := s.db.WithContext(ctx).
		Where("cached_at < ?", cutoff).
		Delete(&models.PlayerCacheEntry{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge expired cache entries: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// lookupFresh checks both tiers and returns data only when it is still
// inside the staleness window.
func (s *PlayerCacheService) lookupFresh(ctx context.Context, seasonYear int) (*SeasonData, bool) {
	var data SeasonData
	err := s.cache.Get(ctx, PlayersCacheKey(seasonYear), &data)
	if err == nil && !s.isStale(&data) {
		return &data, true
	}
	if err != nil && !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).WithField("season_year", seasonYear).Warn("Redis tier unavailable, checking Postgres")
	}

	stored, loadErr := s.loadFromDatabase(ctx, seasonYear)
	if loadErr != nil || stored == nil || s.isStale(stored) {
		return nil, false
	}

	// Rehydrate Redis so the next lookup skips Postgres.
	if setErr := s.cache.Set(ctx, PlayersCacheKey(seasonYear), stored, 2*s.ttl); setErr != nil {
		s.logger.WithError(setErr).Warn("Failed to rehydrate Redis tier")
	}
	return stored, true
}

// populate collects raw stat lines, scores and projects every player, and
// writes both tiers. On collection failure it degrades to whatever stale
// data either tier still holds before giving up.
func (s *PlayerCacheService) populate(ctx context.Context, seasonYear int) (*SeasonData, error) {
	players, degraded, err := s.collector.Collect(ctx, seasonYear)
	if err != nil {
		if stale := s.lookupStale(ctx, seasonYear); stale != nil {
			s.logger.WithError(err).WithField("season_year", seasonYear).
				Warn("Collection failed, serving stale player data")
			stale.Degraded = true
			return stale, nil
		}
		return nil, fmt.Errorf("season %d: %v: %w", seasonYear, err, utils.ErrIngestionFailed)
	}

	data := s.buildSeasonData(seasonYear, players, degraded)

	// Entries outlive the staleness window so a failed refresh can still
	// fall back to them.
	if setErr := s.cache.SetWithRetry(ctx, PlayersCacheKey(seasonYear), data, 2*s.ttl, 3); setErr != nil {
		s.logger.WithError(setErr).WithField("season_year", seasonYear).Warn("Failed to write Redis tier")
	}
	s.storeInDatabase(ctx, data)

	s.logger.WithFields(logrus.Fields{
		"season_year": seasonYear,
		"players":     len(data.Records),
		"degraded":    data.Degraded,
	}).Info("Player cache populated")

	return data, nil
}

// buildSeasonData turns raw stat lines into finished records. Fantasy and
// predicted points are computed in the same pass so no reader ever sees one
// without the other.
func (s *PlayerCacheService) buildSeasonData(seasonYear int, players []draft.PlayerSeasonData, degraded bool) *SeasonData {
	now := time.Now().UTC()
	records := make([]draft.PlayerRecord, 0, len(players))

	for _, player := range players {
		if len(player.Seasons) == 0 {
			continue
		}

		history := make([]draft.SeasonScore, 0, len(player.Seasons))
		for _, season := range player.Seasons {
			history = append(history, draft.SeasonScore{
				SeasonYear: season.SeasonYear,
				Games:      season.GamesPlayed,
				Points:     draft.CalculatePoints(s.rules, season),
			})
		}

		latest := player.Seasons[0]
		records = append(records, draft.PlayerRecord{
			Name:            player.Name,
			Team:            player.Team,
			Position:        player.Position,
			SeasonYear:      seasonYear,
			GamesPlayed:     latest.GamesPlayed,
			Seasons:         player.Seasons,
			FantasyPoints:   history[0].Points,
			PredictedPoints: s.predictor.Project(player.Position, history),
			CachedAt:        now,
		})
	}

	return &SeasonData{
		SeasonYear: seasonYear,
		Records:    records,
		Degraded:   degraded,
		CachedAt:   now,
	}
}

// lookupStale returns season data from either tier regardless of age.
func (s *PlayerCacheService) lookupStale(ctx context.Context, seasonYear int) *SeasonData {
	var data SeasonData
	if err := s.cache.Get(ctx, PlayersCacheKey(seasonYear), &data); err == nil && len(data.Records) > 0 {
		return &data
	}

	stored, err := s.loadFromDatabase(ctx, seasonYear)
	if err != nil || stored == nil {
		return nil
	}
	return stored
}

func (s *PlayerCacheService) loadFromDatabase(ctx context.Context, seasonYear int) (*SeasonData, error) {
	var entries []models.PlayerCacheEntry
	if err := s.db.WithContext(ctx).
		Where("season_year = ?", seasonYear).
		Order("player_name asc").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load cache entries: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	data := &SeasonData{SeasonYear: seasonYear}
	oldest := time.Time{}
	for _, entry := range entries {
		record, err := entry.ToRecord()
		if err != nil {
			s.logger.WithError(err).WithField("player", entry.PlayerName).Warn("Skipping corrupt cache entry")
			continue
		}
		data.Records = append(data.Records, record)
		if oldest.IsZero() || entry.CachedAt.Before(oldest) {
			oldest = entry.CachedAt
		}
	}
	if len(data.Records) == 0 {
		return nil, nil
	}

	// The oldest row decides staleness for the whole set: records are only
	// ever written together, so a gap means a partial failure.
	data.CachedAt = oldest
	return data, nil
}

func (s *PlayerCacheService) storeInDatabase(ctx context.Context, data *SeasonData) {
	for _, record := range data.Records {
		entry, err := models.NewPlayerCacheEntry(record)
		if err != nil {
			s.logger.WithError(err).WithField("player", record.Name).Error("Failed to encode cache entry")
			continue
		}

		var existing models.PlayerCacheEntry
		err = s.db.WithContext(ctx).
			Where("player_name = ? AND season_year = ?", record.Name, record.SeasonYear).
			First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
				s.logger.WithError(err).WithField("player", record.Name).Error("Failed to create cache entry")
			}
			continue
		}
		if err != nil {
			s.logger.WithError(err).WithField("player", record.Name).Error("Failed to look up cache entry")
			continue
		}

		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
			s.logger.WithError(err).WithField("player", record.Name).Error("Failed to update cache entry")
		}
	}
}

// isStale reports whether data has aged past the refresh window or was
// written before its season rolled over. Entries written during a season
// that has since ended refresh once more to pick up final stat lines, then
// follow the normal window.
func (s *PlayerCacheService) isStale(data *SeasonData) bool {
	if time.Since(data.CachedAt) > s.ttl {
		return true
	}
	return data.SeasonYear < s.currentSeason && data.CachedAt.Year() <= data.SeasonYear
}
