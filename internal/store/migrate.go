package store

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/matheus3301/parley/internal/logging"
	"github.com/matheus3301/parley/internal/store/migrations"
	"go.uber.org/zap"
)

// ErrDirty is returned when a previous migration of state.db stopped
// halfway. Removing the profile's state.db signs the profile out and
// resets its preferences.
var ErrDirty = errors.New("state database schema is dirty")

// MigrateResult reports the schema version of state.db before and after
// Migrate. From is zero for a database that had no schema yet.
type MigrateResult struct {
	From uint
	To   uint
}

// Changed reports whether any migration was applied.
func (r MigrateResult) Changed() bool {
	return r.From != r.To
}

// Migrate brings the kv schema up to date.
func (db *DB) Migrate(logger *zap.Logger) (MigrateResult, error) {
	logger = logging.OrNop(logger)

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migration source: %w", err)
	}
	// The driver owns db.DB; closing m would close the caller's handle.
	driver, err := sqlite3.WithInstance(db.DB, &sqlite3.Config{})
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return MigrateResult{}, fmt.Errorf("migration instance: %w", err)
	}

	from, err := schemaVersion(m)
	if err != nil {
		return MigrateResult{}, err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrateResult{From: from}, fmt.Errorf("migration up from %d: %w", from, err)
	}
	to, err := schemaVersion(m)
	if err != nil {
		return MigrateResult{From: from}, err
	}

	res := MigrateResult{From: from, To: to}
	if res.Changed() {
		logger.Info("state schema migrated", zap.Uint("from", from), zap.Uint("to", to))
	}
	return res, nil
}

func schemaVersion(m *migrate.Migrate) (uint, error) {
	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("migration version: %w", err)
	case dirty:
		return v, fmt.Errorf("%w at version %d", ErrDirty, v)
	}
	return v, nil
}
