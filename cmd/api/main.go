package main

import (
	"context"
	"os"

	"barterzone-backend/internal/config"
	"barterzone-backend/internal/interfaces/router"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	app, db, rdb, err := router.CreateApp(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("app create failed")
	}

	// Verify connections before accepting traffic
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatal().Err(err).Msg("database handle unavailable")
		}
		if err := sqlDB.Ping(); err != nil {
			log.Fatal().Err(err).Msg("database connection failed")
		}
		log.Info().Msg("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		log.Info().Msg("Redis connected")
	}

	log.Info().Str("port", cfg.Port).Msg("server listening")
	log.Info().Msgf("health check: http://localhost:%s/health/json", cfg.Port)

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
