// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends understood by Load.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Output  OutputConfig
	App     AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// StorageConfig selects where clients, history and settings are kept.
type StorageConfig struct {
	Backend    string
	DataDir    string
	SQLitePath string
	Database   DatabaseConfig
	Redis      RedisConfig
}

// DatabaseConfig holds PostgreSQL connection settings. RawDSN, when set,
// wins over the individual fields.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	RawDSN   string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// OutputConfig holds where generated files go when the business settings
// leave the folders empty, and the optional S3 mirror.
type OutputConfig struct {
	InvoiceDir string
	StampedDir string
	S3Bucket   string
	S3Region   string
	S3Prefix   string
	S3Endpoint string
	S3KeyID    string
	S3Secret   string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev            bool
	Migrations     bool
	Seed           bool
	DefaultLang    string
	StaticDir      string
	ResourcesDir   string
	PreviewDelayMs int
}

// DSN returns the PostgreSQL connection string in key=value format.
func (d DatabaseConfig) DSN() string {
	if d.RawDSN != "" {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the PostgreSQL connection string in URL format.
func (d DatabaseConfig) URL() string {
	if strings.HasPrefix(strings.ToLower(d.RawDSN), "postgres") && strings.Contains(d.RawDSN, "://") {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SQLDriver reports the gorm dialect for the backend, or "" when the
// backend is not SQL.
func (s StorageConfig) SQLDriver() string {
	switch s.Backend {
	case BackendSQLite, BackendPostgres:
		return s.Backend
	}
	return ""
}

// SQLDSN is the connection string handed to the SQL driver.
func (s StorageConfig) SQLDSN() string {
	if s.Backend == BackendSQLite {
		return s.SQLitePath
	}
	return s.Database.DSN()
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	dataDir := getEnv("FACIO_DATA_DIR", "data")
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "5000"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Storage: StorageConfig{
			Backend:    NormalizeBackend(getEnv("STORAGE_BACKEND", BackendFile)),
			DataDir:    dataDir,
			SQLitePath: getEnv("SQLITE_PATH", filepath.Join(dataDir, "facio.db")),
			Database: DatabaseConfig{
				Host:     getEnv("DB_HOST", "localhost"),
				Port:     getEnvInt("DB_PORT", 5432),
				User:     getEnv("DB_USER", "facio"),
				Password: getEnv("DB_PASSWORD", "facio"),
				DBName:   getEnv("DB_NAME", "facio"),
				SSLMode:  getEnv("DB_SSLMODE", "disable"),
				RawDSN:   os.Getenv("DATABASE_DSN"),
			},
			Redis: RedisConfig{
				Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
				Password: os.Getenv("REDIS_PASSWORD"),
				DB:       getEnvInt("REDIS_DB", 0),
				Prefix:   getEnv("REDIS_PREFIX", "facio:"),
			},
		},
		Output: OutputConfig{
			InvoiceDir: os.Getenv("INVOICE_DIR"),
			StampedDir: os.Getenv("STAMPED_DIR"),
			S3Bucket:   os.Getenv("S3_BUCKET"),
			S3Region:   getEnv("AWS_REGION", "eu-north-1"),
			S3Prefix:   os.Getenv("S3_PREFIX"),
			S3Endpoint: os.Getenv("S3_ENDPOINT"),
			S3KeyID:    os.Getenv("AWS_ACCESS_KEY_ID"),
			S3Secret:   os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		App: AppConfig{
			Dev:            getEnvBool("DEV", false),
			Migrations:     getEnvBool("MIGRATIONS", false),
			Seed:           getEnvBool("DB_SEED", false),
			DefaultLang:    getEnv("DEFAULT_LANG", "en"),
			StaticDir:      os.Getenv("STATIC_DIR"),
			ResourcesDir:   os.Getenv("RESOURCES_PATH"),
			PreviewDelayMs: getEnvInt("PREVIEW_DELAY_MS", 1000),
		},
	}
}

// NormalizeBackend maps aliases like "pg" to a backend constant; unknown
// values select the file backend.
func NormalizeBackend(v string) string {
	switch b := strings.ToLower(strings.TrimSpace(v)); b {
	case BackendMemory, BackendSQLite, BackendPostgres, BackendRedis:
		return b
	case "postgresql", "pg":
		return BackendPostgres
	default:
		return BackendFile
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
