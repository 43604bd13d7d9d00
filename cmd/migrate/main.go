package main

import (
	"fmt"
	"os"

	"github.com/zfogg/trellis/internal/config"
	"github.com/zfogg/trellis/internal/database"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/models"
	"go.uber.org/zap"
)

func usage() {
	fmt.Println("Usage: migrate [up|status]")
	fmt.Println("  up     - Run all pending migrations")
	fmt.Println("  status - Show which tables exist")
}

func main() {
	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.LogLevel, "-"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Log.Info("Connecting to database...", zap.String("driver", cfg.DatabaseDriver))
	db, err := database.Open(cfg)
	if err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close(db)

	switch command {
	case "up":
		logger.Log.Info("Running migrations...")
		if err := database.Migrate(db); err != nil {
			logger.FatalWithFields("Migration failed", err)
		}
		logger.Log.Info("All migrations completed successfully")
	case "status":
		for _, model := range models.All() {
			stmt := db.Model(model).Statement
			if err := stmt.Parse(model); err != nil {
				logger.FatalWithFields("Failed to parse model", err)
			}
			state := "missing"
			if db.Migrator().HasTable(model) {
				state = "ok"
			}
			fmt.Printf("  %-16s %s\n", stmt.Schema.Table, state)
		}
	default:
		usage()
		os.Exit(1)
	}
}
