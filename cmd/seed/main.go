package main

import (
	"context"
	"flag"
	"log"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/observability"
	"github.com/anonto42/pixora/backend/internal/seed"
	"github.com/anonto42/pixora/backend/pkg/config"
)

func main() {
	users := flag.Int("users", 20, "Number of users to create")
	postsPerUser := flag.Int("posts", 5, "Posts per user")
	clean := flag.Bool("clean", false, "Delete existing rows before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := observability.NewLogger(cfg.Env)

	db, err := config.InitDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	ctx := context.Background()
	opts := seed.Options{Users: *users, PostsPerUser: *postsPerUser, Seed: *randSeed}
	s := seed.NewSeeder(db.Postgres, opts, logger)

	if *clean {
		if err := s.Clear(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if _, err := s.Run(ctx, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("All seeded accounts use the password %q", seed.DemoPassword)
}
