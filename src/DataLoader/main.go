package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/streampulse/streampulse/src/internal/adapters/postgres"
	"github.com/streampulse/streampulse/src/internal/config"
	"github.com/streampulse/streampulse/src/internal/services"
)

// One-shot seeding tool: reads a JSON fixture and loads it in dependency
// order. Exits non-zero on any failure; it never retries or resumes.
func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().Str("service", "data-loader").Logger()

	configFile := "config.yaml"
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	var cfg config.DataLoaderConfig
	if err := config.Load(configFile, &cfg); err != nil {
		log.Warn().Err(err).Str("file", configFile).Msg("No config file, using env")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.SSLRootCert == "" {
		cfg.SSLRootCert = os.Getenv("SSL_ROOT_CERT")
	}
	if cfg.FixturePath == "" {
		cfg.FixturePath = os.Getenv("FIXTURE_PATH")
	}
	if cfg.FixturePath == "" {
		cfg.FixturePath = "dataset.json"
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := postgres.NewConnection(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer db.Close()

	store := postgres.NewSeedStore(db)
	if err := store.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to init schema")
	}

	ctx := context.Background()

	lock := postgres.NewSeedLock(db)
	acquired, err := lock.TryAcquire(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to acquire seed lock")
	}
	if !acquired {
		log.Fatal().Msg("Another loader is already running against this database")
	}
	defer lock.Release(ctx)

	loader := services.NewBulkLoader(store, log)
	log.Info().Str("fixture", cfg.FixturePath).Msg("Loading fixture")
	if err := loader.LoadFile(ctx, cfg.FixturePath); err != nil {
		log.Fatal().Err(err).Msg("Load failed")
	}
	log.Info().Msg("Fixture loaded")
}
