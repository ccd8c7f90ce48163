package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/pressly/goose/v3"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationInfo describes one embedded migration and whether it has been applied.
type MigrationInfo struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

type Migrator struct {
	db     *sql.DB
	dbType string
}

func NewMigrator(db *sql.DB, dbType string) *Migrator {
	return &Migrator{
		db:     db,
		dbType: dbType,
	}
}

func (m *Migrator) provider() (*goose.Provider, error) {
	var dialect goose.Dialect
	switch m.dbType {
	case TypePostgres:
		dialect = goose.DialectPostgres
	case TypeSQLite:
		dialect = goose.DialectSQLite3
	default:
		return nil, fmt.Errorf("unsupported database type: %s", m.dbType)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+m.dbType)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s migrations: %w", m.dbType, err)
	}

	provider, err := goose.NewProvider(dialect, m.db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}

// Run applies all pending migrations and returns the ones it applied.
func (m *Migrator) Run(ctx context.Context) ([]MigrationInfo, error) {
	provider, err := m.provider()
	if err != nil {
		return nil, err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	applied := make([]MigrationInfo, 0, len(results))
	for _, res := range results {
		applied = append(applied, MigrationInfo{
			Version:   res.Source.Version,
			Name:      filepath.Base(res.Source.Path),
			Applied:   true,
			AppliedAt: time.Now(),
		})
	}
	return applied, nil
}

// Status lists every embedded migration in version order.
func (m *Migrator) Status(ctx context.Context) ([]MigrationInfo, error) {
	provider, err := m.provider()
	if err != nil {
		return nil, err
	}

	statuses, err := provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	migrations := make([]MigrationInfo, 0, len(statuses))
	for _, st := range statuses {
		migrations = append(migrations, MigrationInfo{
			Version:   st.Source.Version,
			Name:      filepath.Base(st.Source.Path),
			Applied:   st.State == goose.StateApplied,
			AppliedAt: st.AppliedAt,
		})
	}
	return migrations, nil
}
