package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kickoffkings/draft-engine/internal/draft"
	"github.com/kickoffkings/draft-engine/internal/models"
	"github.com/kickoffkings/draft-engine/internal/providers"
	"github.com/kickoffkings/draft-engine/pkg/config"
	"github.com/kickoffkings/draft-engine/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db, cfg); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Enable UUID extension for PostgreSQL
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.PlayerCacheEntry{},
		&models.DraftSession{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_player_cache_entries_season ON player_cache_entries(season_year)",
		"CREATE INDEX IF NOT EXISTS idx_player_cache_entries_points ON player_cache_entries(season_year, predicted_points DESC)",
		"CREATE INDEX IF NOT EXISTS idx_draft_sessions_user_updated ON draft_sessions(user_id, updated_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"draft_sessions",
		"player_cache_entries",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

// seedData scores the bundled sample stat lines and writes them into the
// player cache for the configured season, so the API can serve
// recommendations before the first live collection runs.
func seedData(db *database.DB, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	provider := providers.NewSampleProvider()
	players, err := provider.FetchPlayers(ctx, cfg.SeasonYear)
	if err != nil {
		return fmt.Errorf("failed to load sample players: %w", err)
	}

	rules := draft.DefaultScoringRules()
	predictor := draft.NewPredictor(cfg.TargetGames)
	now := time.Now().UTC()

	seeded := 0
	for _, player := range players {
		if len(player.Seasons) == 0 {
			continue
		}

		history := make([]draft.SeasonScore, 0, len(player.Seasons))
		for _, season := range player.Seasons {
			history = append(history, draft.SeasonScore{
				SeasonYear: season.SeasonYear,
				Games:      season.GamesPlayed,
				Points:     draft.CalculatePoints(rules, season),
			})
		}

		record := draft.PlayerRecord{
			Name:            player.Name,
			Team:            player.Team,
			Position:        player.Position,
			SeasonYear:      cfg.SeasonYear,
			GamesPlayed:     player.Seasons[0].GamesPlayed,
			Seasons:         player.Seasons,
			FantasyPoints:   history[0].Points,
			PredictedPoints: predictor.Project(player.Position, history),
			CachedAt:        now,
		}

		entry, err := models.NewPlayerCacheEntry(record)
		if err != nil {
			return fmt.Errorf("failed to encode entry for %s: %w", player.Name, err)
		}

		if err := db.Where("player_name = ? AND season_year = ?", record.Name, record.SeasonYear).
			FirstOrCreate(&entry).Error; err != nil {
			return fmt.Errorf("failed to seed player %s: %w", player.Name, err)
		}
		seeded++
	}

	logrus.Infof("Seeded %d players for season %d", seeded, cfg.SeasonYear)
	return nil
}
