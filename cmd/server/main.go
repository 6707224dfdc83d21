package main

import (
	"log"

	"github.com/densitymap/densitymap/internal/bootstrap"
	"github.com/densitymap/densitymap/internal/config"
	"github.com/densitymap/densitymap/internal/hexgrid"
	"github.com/densitymap/densitymap/internal/server"
	"github.com/densitymap/densitymap/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedDemoUser(db); err != nil {
			log.Fatalf("failed to seed demo user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, tally cache disabled")
	}

	grid, err := hexgrid.Load(cfg.DataDir)
	if err != nil {
		log.Fatalf("failed to load hex grid data: %v", err)
	}

	srv := server.NewServer(cfg, db, redisClient, grid)

	log.Printf("listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
