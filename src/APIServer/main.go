package main

import (
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/streampulse/streampulse/src/internal/adapters/postgres"
	"github.com/streampulse/streampulse/src/internal/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().
		Timestamp().Str("service", "api-server").Logger()

	log.Info().Msg("Starting StreamPulse API server...")

	configFile := "config.yaml"
	if len(os.Args) > 1 {
		configFile = os.Args[1]
	}

	var cfg config.APIServerConfig
	if err := config.Load(configFile, &cfg); err != nil {
		log.Warn().Err(err).Str("file", configFile).Msg("No config file, using env")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.SSLRootCert == "" {
		cfg.SSLRootCert = os.Getenv("SSL_ROOT_CERT")
	}
	if cfg.Port == "" {
		cfg.Port = os.Getenv("PORT")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	dsn, err := cfg.DSN()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	db, err := postgres.NewConnection(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}

	// Schema init is idempotent; running it here means a fresh database
	// serves empty results instead of relation-does-not-exist errors.
	if err := postgres.NewSeedStore(db).InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to init schema")
	}
	log.Info().Msg("Connected to Postgres")

	repo := postgres.NewAnalyticsRepo(db)
	router := NewRouter(repo, db, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info().Str("port", cfg.Port).Msg("API server listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}
