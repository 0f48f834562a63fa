package migration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/bookmint/inkwell/internal/config"
	"github.com/bookmint/inkwell/internal/database"
)

const migrationsDir = "db/migrations/sql"

// Migrator runs the goose SQL migrations against the writer connection.
type Migrator struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a goose-backed migrator for the configured driver.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	var dialect string
	switch cfg.Database.Driver {
	case "postgres", "pg":
		dialect = "postgres"
	case "mysql":
		dialect = "mysql"
	case "sqlite", "sqlite3":
		dialect = "sqlite3"
	default:
		return nil, fmt.Errorf("unsupported goose dialect for driver %s", cfg.Database.Driver)
	}
	if err := goose.SetDialect(dialect); err != nil {
		return nil, err
	}

	return &Migrator{db: conns.Writer, logger: logger}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db.DB, migrationsDir); err != nil {
		if exhausted(err) {
			m.logger.Info("no migrations to apply")
			return nil
		}
		return err
	}
	m.logger.Info("migrations applied")
	return nil
}

// Down rolls back migrations. Steps <= 0 defaults to one; all rolls back to
// the initial state.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if all {
		if err := goose.DownToContext(ctx, m.db.DB, migrationsDir, 0); err != nil && !exhausted(err) {
			return err
		}
		m.logger.Info("migrations rolled back", zap.String("mode", "all"))
		return nil
	}

	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, m.db.DB, migrationsDir); err != nil {
			if exhausted(err) {
				break
			}
			return err
		}
	}
	m.logger.Info("migrations rolled back", zap.Int("steps", steps))
	return nil
}

// exhausted reports the goose errors that mean "nothing left to do".
func exhausted(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}
	return strings.Contains(err.Error(), "no migrations")
}
