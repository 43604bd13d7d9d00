package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/zfogg/trellis/internal/chat"
	"github.com/zfogg/trellis/internal/config"
	"github.com/zfogg/trellis/internal/database"
	"github.com/zfogg/trellis/internal/logger"
	"github.com/zfogg/trellis/internal/seed"
	"go.uber.org/zap"
)

func usage() {
	fmt.Println("Usage: seed [dev|test|clean|verify] [random-seed]")
	fmt.Println("  dev    - Seed development database with realistic data")
	fmt.Println("  test   - Seed a small fixed set of users")
	fmt.Println("  clean  - Remove all seed data (use with caution)")
	fmt.Println("  verify - Print row counts of every seeded table")
}

func main() {
	command := "dev"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	randomSeed := time.Now().UnixNano()
	if len(os.Args) > 2 {
		n, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			usage()
			os.Exit(1)
		}
		randomSeed = n
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

	db, err := database.Open(cfg)
	if err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	seeder := seed.NewSeeder(db, randomSeed)
	if client, err := chat.NewStreamClient(cfg.StreamAPIKey, cfg.StreamAPISecret); err == nil {
		seeder.SetChatClient(client)
		logger.Log.Info("Chat client configured, seeded users will be mirrored")
	}

	ctx := context.Background()
	switch command {
	case "dev":
		logger.Log.Info("Seeding development database", zap.Int64("seed", randomSeed))
		err = seeder.SeedDev(ctx, seed.DevCounts())
	case "test":
		logger.Log.Info("Seeding test users")
		_, err = seeder.SeedTest(ctx)
	case "clean":
		logger.Log.Info("Cleaning seed data")
		err = seeder.Clean(ctx)
	case "verify":
		var counts seed.Counts
		counts, err = seeder.Verify(ctx)
		if err == nil {
			fmt.Printf("Users:     %d\nPosts:     %d\nComments:  %d\nFollows:   %d\nLikes:     %d\nBookmarks: %d\n",
				counts.Users, counts.Posts, counts.Comments, counts.Follows, counts.Likes, counts.Bookmarks)
		}
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		logger.FatalWithFields("Seeding failed", err)
	}
	logger.Log.Info("Done", zap.String("command", command))
}
