package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/cluckmap/shop-server/internal/api"
	"github.com/cluckmap/shop-server/internal/config"
	"github.com/cluckmap/shop-server/internal/datasync"
	"github.com/cluckmap/shop-server/internal/fsa"
	"github.com/cluckmap/shop-server/internal/shop"
	"github.com/cluckmap/shop-server/internal/storage"
	"github.com/cluckmap/shop-server/internal/storage/cache"
	"github.com/cluckmap/shop-server/internal/storage/inmem"
	"github.com/cluckmap/shop-server/internal/storage/postgres"
	"github.com/cluckmap/shop-server/internal/task"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("config", fmt.Sprintf("%+v", cfg)).Msg("")

	// Initialize the storage driver.
	// An empty PostgreSQL DSN selects the volatile in-memory driver.
	var underlying storage.Driver
	if cfg.PostgresDSN != "" {
		log.Info().Msg("initializing database connection...")
		underlying = postgres.New(cfg.PostgresDSN)
	} else {
		log.Warn().Msg("no PostgreSQL DSN configured; using the volatile in-memory driver")
		underlying = inmem.New()
	}
	driver := cache.New(underlying)
	if err := driver.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("could not initialize the storage driver")
	}
	defer driver.Close()

	// Schedule the repeating FSA synchronization task if it is enabled
	if cfg.SyncInterval > 0 {
		syncService := &datasync.Service{
			Client:       fsa.NewClient(cfg.FSABaseURL),
			Shops:        driver.Shops(),
			SearchTerm:   cfg.FSASearchTerm,
			AuthorityIDs: cfg.FSAAuthorityIDs,
			RequestDelay: cfg.FSARequestDelay,
		}
		syncTask := task.NewRepeating(func() {
			if _, err := syncService.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("the shop synchronization failed")
			}
		}, cfg.SyncInterval)
		syncTask.Start()
		defer syncTask.Stop(false)
	}

	// Start up the listing API
	log.Info().Str("listing_api", cfg.APIListenAddress).Msg("starting up the listing API...")
	apis := &api.Service{
		Config: cfg,
		Shops:  shop.NewService(driver.Shops()),
	}
	apiErrs := make(chan error, 1)
	apis.Startup(apiErrs)
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the listing API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt)
	<-shutdown
}
