package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/nrl-fantasy-edge/internal/models"
	"github.com/jstittsworth/nrl-fantasy-edge/internal/scoring"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/config"
	"github.com/jstittsworth/nrl-fantasy-edge/pkg/database"
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
		if err := seedData(db, cfg.CurrentSeason); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := db.AutoMigrate(
		&models.Player{},
		&models.Match{},
		&models.PlayerMatchStats{},
		&models.ScoringRule{},
		&models.FantasyScore{},
		&models.PriceHistory{},
		&models.Projection{},
		&models.FantasyTeam{},
		&models.SquadSlot{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_stats_player_match ON player_match_stats(player_id, match_id)",
		"CREATE INDEX IF NOT EXISTS idx_scores_match ON fantasy_scores(match_id)",
		"CREATE INDEX IF NOT EXISTS idx_prices_player_round ON fantasy_price_history(player_id, season, round)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []interface{}{
		&models.SquadSlot{},
		&models.FantasyTeam{},
		&models.Projection{},
		&models.PriceHistory{},
		&models.FantasyScore{},
		&models.ScoringRule{},
		&models.PlayerMatchStats{},
		&models.Match{},
		&models.Player{},
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	return nil
}

// seedData loads the season's scoring rule set. Seeding is idempotent: an
// already-seeded season is left untouched.
func seedData(db *database.DB, season int) error {
	var count int64
	db.Model(&models.ScoringRule{}).Where("season = ?", season).Count(&count)
	if count > 0 {
		logrus.Infof("Scoring rules for season %d already seeded (%d rules)", season, count)
		return nil
	}

	rules := scoring.Rules2024()
	for _, rule := range rules {
		if rule.Season != season {
			continue
		}
		if err := db.Create(&rule).Error; err != nil {
			return fmt.Errorf("failed to seed rule %s: %w", rule.StatKey, err)
		}
	}

	logrus.Infof("Seeded %d scoring rules for season %d", len(rules), season)
	return nil
}
