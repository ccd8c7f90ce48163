package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

type DB struct {
	conn   *sql.DB
	orm    *gorm.DB
	dbType string
}

type Config struct {
	Type     string
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the driver connection string for the configured database type.
func (c Config) DSN() (string, error) {
	switch c.Type {
	case TypePostgres:
		if c.URL != "" {
			return c.URL, nil
		}
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
		}
		return u.String(), nil
	case TypeSQLite:
		if c.SQLitePath == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", c.SQLitePath), nil
	default:
		return "", fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

// NewDB opens a bounded connection pool and layers GORM on top of it. Every
// statement borrows one pooled connection and hands it back when it is done.
func NewDB(ctx context.Context, config Config) (*DB, error) {
	dsn, err := config.DSN()
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	var dialector gorm.Dialector

	switch config.Type {
	case TypePostgres:
		conn, err = sql.Open("pgx", dsn)
		if err == nil {
			dialector = postgres.New(postgres.Config{Conn: conn})
		}
	case TypeSQLite:
		conn, err = sql.Open("sqlite3", dsn)
		if err == nil {
			dialector = sqlite.Dialector{Conn: conn}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if config.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(config.MaxOpenConns)
	}
	if config.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(config.MaxIdleConns)
	}
	if config.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(config.ConnMaxLifetime)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	orm, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	return &DB{conn: conn, orm: orm, dbType: config.Type}, nil
}

// Acquire borrows a single connection from the pool, waiting while the pool is
// exhausted. Closing the returned connection hands it back.
func (db *DB) Acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := db.conn.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return conn, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) Conn() *sql.DB {
	return db.conn
}

func (db *DB) GORM() *gorm.DB {
	return db.orm
}

func (db *DB) Dialect() string {
	return db.dbType
}

// RunMigrations applies every pending embedded migration for this database.
func (db *DB) RunMigrations(ctx context.Context) ([]MigrationInfo, error) {
	return NewMigrator(db.conn, db.dbType).Run(ctx)
}
