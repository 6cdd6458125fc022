// Package helper drives golang-migrate against the write database.
package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"tablebook/config"
	"tablebook/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type step func(*migrate.Migrate) error

var steps = map[string]step{
	"up":      (*migrate.Migrate).Up,
	"drop":    (*migrate.Migrate).Down,
	"down":    func(m *migrate.Migrate) error { return m.Steps(-1) },
	"step-up": func(m *migrate.Migrate) error { return m.Steps(1) },
}

func databaseURL(cfg *config.Config) string {
	dsn := postgres.DSN(cfg.DB.Postgres.Write, cfg.DB.Postgres.Prefix)

	if table := cfg.DB.Postgres.MigrationTable; table != "" {
		dsn += "&x-migrations-table=" + url.QueryEscape(table)
	}

	return dsn
}

// Runner applies one of up, down, step-up or drop.
func Runner(cfg *config.Config, action string) error {
	run, ok := steps[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q", action)
	}

	mig, err := migrate.New(cfg.DB.Postgres.MigrationPath, databaseURL(cfg))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("error reading migration version: %w", err)
	}

	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("database migration finished")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, "up")
}

func StepUp(cfg *config.Config) error {
	return Runner(cfg, "step-up")
}

func Down(cfg *config.Config) error {
	return Runner(cfg, "down")
}

func Drop(cfg *config.Config) error {
	return Runner(cfg, "drop")
}
