// Package db opens the SQL database behind the record stores and keeps its
// schema current.
package db

import (
	"embed"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/facio/facio/internal/models"
	"github.com/goccy/go-json"
	migrate "github.com/golang-migrate/migrate/v4"
	// registers the postgres driver for golang-migrate
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Options for Open.
type Options struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
	// SQLMigrations runs the embedded golang-migrate files instead of
	// AutoMigrate. Postgres only.
	SQLMigrations bool
	// Retries is the number of connection attempts; 0 means 10 for
	// postgres and 1 for sqlite.
	Retries    int
	RetryDelay time.Duration
	Debug      bool
}

// Open connects, retrying while the server starts, and migrates.
func Open(opts Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	dsn := opts.DSN
	retries := opts.Retries
	switch opts.Driver {
	case "sqlite":
		if dsn == "" {
			return nil, errors.New("sqlite path is empty")
		}
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
		if retries == 0 {
			retries = 1
		}
	case "postgres":
		dsn = NormalizeDSN(dsn)
		if dsn == "" {
			return nil, errors.New("DATABASE_DSN is empty, check the environment")
		}
		dialector = postgres.Open(dsn)
		if retries == 0 {
			retries = 10
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	delay := opts.RetryDelay
	if delay == 0 {
		delay = 2 * time.Second
	}

	logLevel := logger.Silent
	if opts.Debug || os.Getenv("DB_DEBUG") == "1" {
		logLevel = logger.Info
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logLevel)}

	var conn *gorm.DB
	var err error
	for i := 0; i < retries; i++ {
		conn, err = gorm.Open(dialector, cfg)
		if err == nil {
			break
		}
		log.Printf("[DB] connection attempt %d/%d failed: %v", i+1, retries, err)
		if i < retries-1 {
			time.Sleep(delay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database after retries: %w", err)
	}
	if pingErr := conn.Exec("SELECT 1").Error; pingErr != nil {
		return nil, fmt.Errorf("db ping failed: %w", pingErr)
	}
	log.Printf("[DB] Using %s: %s", opts.Driver, MaskDSN(dsn))

	if opts.SQLMigrations && opts.Driver == "postgres" {
		if err := RunSQLMigrations(ToURLDSN(dsn)); err != nil {
			return nil, fmt.Errorf("sql migrations failed: %w", err)
		}
	} else if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate applies the gorm schema.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.KVEntry{}); err != nil {
		return fmt.Errorf("automigrate %T: %w", &models.KVEntry{}, err)
	}
	if !conn.Migrator().HasTable(&models.KVEntry{}) {
		return errors.New("missing table after migration: kv_entries")
	}
	return nil
}

// RunSQLMigrations applies the embedded migration files with golang-migrate.
func RunSQLMigrations(dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// Seed stores the default business settings when none exist yet. Existing
// settings are never touched.
func Seed(conn *gorm.DB) error {
	blob, err := json.Marshal(models.DefaultBusinessConfig())
	if err != nil {
		return err
	}
	entry := models.KVEntry{Key: "businessConfig", Value: blob, UpdatedAt: time.Now().UTC()}
	return conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&entry).Error
}
