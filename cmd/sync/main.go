package main

import (
	"context"
	"os"

	"github.com/cluckmap/shop-server/internal/config"
	"github.com/cluckmap/shop-server/internal/datasync"
	"github.com/cluckmap/shop-server/internal/fsa"
	"github.com/cluckmap/shop-server/internal/storage/postgres"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// A one-shot synchronization run against the configured PostgreSQL database
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.PostgresDSN == "" {
		log.Fatal().Msg("a PostgreSQL DSN is required for a standalone synchronization run")
	}

	driver := postgres.New(cfg.PostgresDSN)
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the database connection")
	}
	defer driver.Close()

	service := &datasync.Service{
		Client:       fsa.NewClient(cfg.FSABaseURL),
		Shops:        driver.Shops(),
		SearchTerm:   cfg.FSASearchTerm,
		AuthorityIDs: cfg.FSAAuthorityIDs,
		RequestDelay: cfg.FSARequestDelay,
	}
	stats, err := service.Run(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("the shop synchronization failed")
	}
	log.Info().
		Int("fetched", stats.Fetched).
		Int("kept", stats.Kept).
		Uint64("deleted", stats.Deleted).
		Msg("done!")
}
