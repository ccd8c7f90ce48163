package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupSQLiteDB(t *testing.T) *DB {
	t.Helper()
	ctx := context.Background()

	db, err := NewDB(ctx, Config{
		Type:         TypeSQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func setupPostgresDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping PostgreSQL container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("geoclips_test"),
		postgres.WithUsername("geoclips_test"),
		postgres.WithPassword("geoclips_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := pgContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	db, err := NewDB(ctx, Config{
		Type:         TypePostgres,
		Host:         host,
		Port:         port.Int(),
		User:         "geoclips_test",
		Password:     "geoclips_test_password",
		Name:         "geoclips_test",
		MaxOpenConns: 4,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.RunMigrations(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

// backends runs fn once per supported database.
func backends(t *testing.T, fn func(t *testing.T, db *DB)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupSQLiteDB(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, setupPostgresDB(t)) })
}
