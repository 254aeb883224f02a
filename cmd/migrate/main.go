package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/kiliankoe/rummypool/internal/config"
	"github.com/kiliankoe/rummypool/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Applies the embedded schema to the postgres database in DATABASE_URL.
// The sqlite store migrates itself on open and needs none of this.
func main() {
	down := flag.Bool("down", false, "Roll back all migrations instead of applying them")
	envFile := flag.String("env", ".env", "Path to a .env file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := config.LoadDotEnv(*envFile); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.FromEnv()
	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	src, err := iofs.New(store.Migrations, "migrations")
	if err != nil {
		log.Fatal().Err(err).Msg("unable to read embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("migration setup failed")
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Bool("down", *down).Msg("database migration failed")
	}
	version, dirty, _ := m.Version()
	log.Info().Uint("version", version).Bool("dirty", dirty).Bool("down", *down).Msg("database migrations applied")
}
