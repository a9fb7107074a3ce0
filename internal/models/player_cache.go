package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/kickoffkings/draft-engine/internal/draft"
)

// PlayerCacheEntry is the durable tier of the player cache: one computed
// record per (player_name, season_year). Rows are written whole by cache
// population and replaced on refresh; fantasy and predicted points always
// land in the same write.
type PlayerCacheEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PlayerName      string         `gorm:"not null;uniqueIndex:idx_player_season" json:"player_name"`
	SeasonYear      int            `gorm:"not null;uniqueIndex:idx_player_season" json:"season_year"`
	Team            string         `json:"team"`
	Position        string         `gorm:"index" json:"position"`
	GamesPlayed     int            `json:"games_played"`
	SeasonStats     datatypes.JSON `gorm:"type:jsonb" json:"season_stats"`
	FantasyPoints   float64        `gorm:"not null" json:"fantasy_points"`
	PredictedPoints float64        `gorm:"not null" json:"predicted_points"`
	CachedAt        time.Time      `gorm:"not null;index" json:"cached_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (PlayerCacheEntry) TableName() string {
	return "player_cache_entries"
}

// NewPlayerCacheEntry builds a cache row from a computed player record
func NewPlayerCacheEntry(record draft.PlayerRecord) (PlayerCacheEntry, error) {
	stats, err := json.Marshal(record.Seasons)
	if err != nil {
		return PlayerCacheEntry{}, fmt.Errorf("failed to marshal season stats: %w", err)
	}

	return PlayerCacheEntry{
		PlayerName:      record.Name,
		SeasonYear:      record.SeasonYear,
		Team:            record.Team,
		Position:        string(record.Position),
		GamesPlayed:     record.GamesPlayed,
		SeasonStats:     datatypes.JSON(stats),
		FantasyPoints:   record.FantasyPoints,
		PredictedPoints: record.PredictedPoints,
		CachedAt:        record.CachedAt,
	}, nil
}

// ToRecord converts a cache row back into the domain record
func (e *PlayerCacheEntry) ToRecord() (draft.PlayerRecord, error) {
	var seasons []draft.SeasonStats
	if len(e.SeasonStats) > 0 {
		if err := json.Unmarshal(e.SeasonStats, &seasons); err != nil {
			return draft.PlayerRecord{}, fmt.Errorf("failed to unmarshal season stats for %s: %w", e.PlayerName, err)
		}
	}

	return draft.PlayerRecord{
		Name:            e.PlayerName,
		Team:            e.Team,
		Position:        draft.Position(e.Position),
		SeasonYear:      e.SeasonYear,
		GamesPlayed:     e.GamesPlayed,
		Seasons:         seasons,
		FantasyPoints:   e.FantasyPoints,
		PredictedPoints: e.PredictedPoints,
		CachedAt:        e.CachedAt,
	}, nil
}
