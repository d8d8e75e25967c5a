package migrate

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/mpapenbr/rsim/log"
)

//go:embed migrations
var migrations embed.FS

// MigrateDB applies all pending migrations to the database at dbURI.
func MigrateDB(dbURI string) error {
	m, err := newMigrate(dbURI)
	if err != nil {
		return err
	}
	defer m.Close()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Debug("No migration required")
		return nil
	}
	if err != nil {
		return err
	}
	v, _, _ := m.Version()
	log.Info("Database migrated", log.Int("version", int(v)))
	return nil
}

// DropDB reverts all migrations.
func DropDB(dbURI string) error {
	m, err := newMigrate(dbURI)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func newMigrate(dbURI string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, migrationURL(dbURI))
	if err != nil {
		return nil, fmt.Errorf("could not create migration: %w", err)
	}
	return m, nil
}

// migrationURL switches the scheme to the pgx migration driver.
func migrationURL(dbURI string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURI, prefix) {
			return "pgx5://" + strings.TrimPrefix(dbURI, prefix)
		}
	}
	return dbURI
}
