package main

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/torchlight-safety/warden/internal/config"
	"github.com/torchlight-safety/warden/internal/db"
	"github.com/torchlight-safety/warden/internal/events"
	"github.com/torchlight-safety/warden/internal/jobs"
	"github.com/torchlight-safety/warden/internal/redis"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	store := db.NewStore(db.DB)

	// Redis caches derived schedule values; optional
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}

	// live dashboard events; optional
	if err := events.Init(cfg.MQTTBrokerURL); err != nil {
		log.Fatal().Err(err).Msg("mqtt init")
	}
	defer events.Cleanup()

	storageSystem := InitStorage(cfg)

	// nightly missed check-in sweep
	sweeper := jobs.NewSweeper(store, cfg.DailySweepSpec)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start sweeper")
	}
	defer sweeper.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	RegisterRoutes(r, cfg, store, storageSystem)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
