package main

import (
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/prop-sheet/internal/models"
	"github.com/jstittsworth/prop-sheet/pkg/config"
	"github.com/jstittsworth/prop-sheet/pkg/database"
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
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	return db.DB.AutoMigrate(
		&models.EnrichedProp{},
		&models.ScheduleEntry{},
		&models.PlayerIdentifier{},
		&models.PlayerTeam{},
		&models.GameLogSnapshot{},
	)
}

func dropTables(db *database.DB) error {
	return db.DB.Migrator().DropTable(
		&models.EnrichedProp{},
		&models.ScheduleEntry{},
		&models.PlayerIdentifier{},
		&models.PlayerTeam{},
		&models.GameLogSnapshot{},
	)
}

// seedData loads a minimal slate so a fresh local database can run the
// pipeline end to end.
func seedData(db *database.DB) error {
	kickoff := time.Date(2025, time.September, 7, 17, 0, 0, 0, time.UTC)
	games := []models.ScheduleEntry{
		{Season: 2025, Week: 1, Kickoff: kickoff, HomeTeam: "KC", AwayTeam: "BUF", Matchup: "BUF @ KC"},
		{Season: 2025, Week: 1, Kickoff: kickoff, HomeTeam: "DAL", AwayTeam: "PHI", Matchup: "PHI @ DAL"},
		{Season: 2025, Week: 1, Kickoff: kickoff, HomeTeam: "SF", AwayTeam: "LAR", Matchup: "LAR @ SF"},
	}
	for _, g := range games {
		if err := db.DB.FirstOrCreate(&g, models.ScheduleEntry{Season: g.Season, Week: g.Week, Matchup: g.Matchup}).Error; err != nil {
			return err
		}
	}

	identifiers := []models.PlayerIdentifier{
		{PlayerKey: "josh allen", StatsID: "AlleJo02"},
		{PlayerKey: "saquon barkley", StatsID: "BarkSa00"},
		{PlayerKey: "ceedee lamb", StatsID: "LambCe00"},
		{PlayerKey: "christian mccaffrey", StatsID: "McCaCh01"},
	}
	for _, ident := range identifiers {
		if err := db.DB.FirstOrCreate(&ident, models.PlayerIdentifier{PlayerKey: ident.PlayerKey}).Error; err != nil {
			return err
		}
	}

	teams := []models.PlayerTeam{
		{PlayerKey: "josh allen", Team: "BUF", Position: "QB"},
		{PlayerKey: "saquon barkley", Team: "PHI", Position: "RB"},
		{PlayerKey: "ceedee lamb", Team: "DAL", Position: "WR"},
		{PlayerKey: "christian mccaffrey", Team: "SF", Position: "RB"},
	}
	for _, t := range teams {
		if err := db.DB.FirstOrCreate(&t, models.PlayerTeam{PlayerKey: t.PlayerKey}).Error; err != nil {
			return err
		}
	}

	return nil
}
