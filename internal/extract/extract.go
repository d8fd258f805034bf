// Package extract pulls parameter metadata out of a running PostgreSQL
// server and assembles it into per-version snapshots.
package extract

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/alfredjeanlab/pgconfig/internal/idgen"
	"github.com/alfredjeanlab/pgconfig/internal/snapshot"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Extractor reads parameter metadata from one database connection.
type Extractor struct {
	db *sql.DB
}

// Open connects to the database at dsn and verifies the connection.
// Call Prepare before the first extraction against a given server.
func Open(dsn string) (*Extractor, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Extractor{db: db}, nil
}

// NewWithDB wraps an existing connection. The caller keeps ownership.
func NewWithDB(db *sql.DB) *Extractor {
	return &Extractor{db: db}
}

// Close closes the underlying database connection.
func (e *Extractor) Close() error {
	return e.db.Close()
}

// Prepare ensures the pgconfig schema and the pgconfig.settings view
// exist on the server, applying any pending migrations. Migration state
// lives in its own pgconfig_schema_migrations table so it cannot collide
// with the host database's own migration tooling.
func (e *Extractor) Prepare() error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(e.db, &postgres.Config{
		MigrationsTable: "pgconfig_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// BuildSnapshot queries the server and assembles the full snapshot for
// its major version, stamped with a fresh ref.
func (e *Extractor) BuildSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	major, full, err := e.ServerVersion(ctx)
	if err != nil {
		return nil, err
	}
	params, err := e.Settings(ctx)
	if err != nil {
		return nil, err
	}
	ref, err := idgen.Generate()
	if err != nil {
		return nil, err
	}
	return &snapshot.Snapshot{
		Version:       major,
		Ref:           ref,
		ServerVersion: full,
		CreatedAt:     time.Now().UTC(),
		Parameters:    params,
	}, nil
}
