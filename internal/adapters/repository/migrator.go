package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"go.uber.org/zap"

	"github.com/comitanigiacomo/kanso-planner/internal/logger"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// Migrator applies the SQL files under migrationsPath to the archive database.
type Migrator struct {
	db             *sql.DB
	migrationsPath string
	log            *logger.Logger
}

func NewMigrator(db *sql.DB, migrationsPath string, log *logger.Logger) *Migrator {
	return &Migrator{
		db:             db,
		migrationsPath: migrationsPath,
		log:            log.Named("migrator"),
	}
}

func (m *Migrator) WaitForDatabase() error {
	for i := 0; i < maxRetries; i++ {
		err := m.db.Ping()
		if err == nil {
			return nil
		}
		m.log.Warn("database not ready", zap.Int("attempt", i+1), zap.Int("max", maxRetries), zap.Error(err))
		time.Sleep(retryInterval)
	}
	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (m *Migrator) instance() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(m.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(m.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	mg, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return mg, nil
}

// Up applies every pending migration. A missing directory is not an error.
func (m *Migrator) Up() error {
	if _, err := os.Stat(m.migrationsPath); os.IsNotExist(err) {
		m.log.Warn("migrations directory not found, skipping", zap.String("path", m.migrationsPath))
		return nil
	}

	mg, err := m.instance()
	if err != nil {
		return err
	}

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	if dirty {
		m.log.Warn("database is dirty, forcing version", zap.Uint("version", version))
		if err := mg.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	err = mg.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.log.Info("no new migrations to apply", zap.Uint("version", version))
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := mg.Version()
	m.log.Info("migrations applied", zap.Uint("version", newVersion))
	return nil
}

func (m *Migrator) Status() (uint, bool, error) {
	if _, err := os.Stat(m.migrationsPath); os.IsNotExist(err) {
		return 0, false, fmt.Errorf("migrations directory not found")
	}
	mg, err := m.instance()
	if err != nil {
		return 0, false, err
	}
	return mg.Version()
}
