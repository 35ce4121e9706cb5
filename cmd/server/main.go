package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/itemtrace/custody-backend-go/internal/api"
	"github.com/itemtrace/custody-backend-go/internal/config"
	"github.com/itemtrace/custody-backend-go/internal/database"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	if err := database.NewMigrationManager(database.GetDB()).RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	router := api.SetupRouter(cfg, database.GetDB())

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
