package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kdimtricp/geoclips/internal/database"
)

type Config struct {
	Server   ServerConfig
	Upload   UploadConfig
	Log      LogConfig
	Database database.Config

	RunMigrations bool
}

type ServerConfig struct {
	Port            string
	StaticDir       string
	ShutdownTimeout time.Duration
}

type UploadConfig struct {
	MaxFileSize       int64 // bytes, 0 disables the limit
	StrictCoordinates bool
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []string
	p := parser{errs: &errs}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3000"),
			StaticDir:       getEnv("STATIC_DIR", ""),
			ShutdownTimeout: p.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Upload: UploadConfig{
			MaxFileSize:       p.getInt64("MAX_UPLOAD_SIZE", 100*1024*1024),
			StrictCoordinates: p.getBool("STRICT_COORDINATES", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Database: database.Config{
			Type:            getEnv("DB_TYPE", database.TypePostgres),
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            p.getInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "geoclips"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			SQLitePath:      getEnv("DB_PATH", "./geoclips.db"),
			MaxOpenConns:    p.getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    p.getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		RunMigrations: p.getBool("RUN_MIGRATIONS", true),
	}

	if cfg.Upload.MaxFileSize < 0 {
		errs = append(errs, "MAX_UPLOAD_SIZE must not be negative")
	}
	switch cfg.Database.Type {
	case database.TypePostgres, database.TypeSQLite:
	default:
		errs = append(errs, fmt.Sprintf("DB_TYPE must be %q or %q, got %q", database.TypePostgres, database.TypeSQLite, cfg.Database.Type))
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parser collects every malformed variable instead of stopping at the first.
type parser struct {
	errs *[]string
}

func (p parser) fail(key, value, kind string) {
	*p.errs = append(*p.errs, fmt.Sprintf("%s=%q is not a valid %s", key, value, kind))
}

func (p parser) getInt(key string, defaultValue int) int {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, "integer")
		return defaultValue
	}
	return parsed
}

func (p parser) getInt64(key string, defaultValue int64) int64 {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		p.fail(key, value, "integer")
		return defaultValue
	}
	return parsed
}

func (p parser) getBool(key string, defaultValue bool) bool {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, "boolean")
		return defaultValue
	}
	return parsed
}

func (p parser) getDuration(key string, defaultValue time.Duration) time.Duration {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		p.fail(key, value, "duration")
		return defaultValue
	}
	return parsed
}
