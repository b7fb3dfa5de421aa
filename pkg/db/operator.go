package db

import (
	"context"

	"github.com/gnames/gnlineage/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator defines the interface for basic PostgreSQL management
// operations. It provides connection lifecycle management and exposes the
// pgxpool.Pool for components (schema manager, taxonomy store) that run
// their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil before a
	// successful Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables in the public schema.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables in the public schema.
	// Used when the schema is recreated from scratch.
	DropAllTables(ctx context.Context) error
}

// SchemaManager creates and updates the tables of the taxonomy store.
type SchemaManager interface {
	// Create creates nodes and links tables with their indexes.
	Create(ctx context.Context) error

	// Migrate brings existing tables up to date. It is safe to run it
	// on every connection.
	Migrate(ctx context.Context) error
}
