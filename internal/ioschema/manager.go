// Package ioschema creates and migrates the tables of the taxonomy store.
// PostgreSQL schema is handled by GORM AutoMigrate, SQLite schema is
// created from the DDL generated by pkg/schema models.
package ioschema

import (
	"context"
	"database/sql"

	"github.com/gnames/gnlineage/pkg/db"
	"github.com/gnames/gnlineage/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// manager implements db.SchemaManager for PostgreSQL using GORM.
type manager struct {
	operator db.Operator
}

// NewManager creates a PostgreSQL SchemaManager on top of a connected
// operator.
func NewManager(op db.Operator) db.SchemaManager {
	return &manager{operator: op}
}

// Create creates the schema and sets "C" collation on name columns, so
// that name lookups compare bytes exactly.
func (m *manager) Create(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}

	return m.setCollation(ctx)
}

// Migrate updates the schema to the current models.
func (m *manager) Migrate(ctx context.Context) error {
	gormDB, err := m.gorm()
	if err != nil {
		return err
	}

	if err := schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}

func (m *manager) gorm() (*gorm.DB, error) {
	pool := m.operator.Pool()
	if pool == nil {
		return nil, NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return nil, GORMConnectionError(err)
	}
	return gormDB, nil
}

func (m *manager) setCollation(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	columns := []struct{ table, column string }{
		{schema.Node{}.TableName(), "name"},
	}

	qStr := `ALTER TABLE %s ALTER COLUMN %s TYPE TEXT COLLATE "C"`
	for _, col := range columns {
		q := formatCollationSQL(qStr, col.table, col.column)
		if _, err := pool.Exec(ctx, q); err != nil {
			return CollationError(col.table, col.column, err)
		}
	}
	return nil
}

// sqliteManager implements db.SchemaManager for SQLite.
type sqliteManager struct {
	db *sql.DB
}

// NewSQLiteManager creates a SchemaManager for an open SQLite database.
func NewSQLiteManager(sqlDB *sql.DB) db.SchemaManager {
	return &sqliteManager{db: sqlDB}
}

// Create runs all table and index statements. They use IF NOT EXISTS,
// so Create is idempotent.
func (m *sqliteManager) Create(ctx context.Context) error {
	if m.db == nil {
		return NotConnectedError()
	}
	for _, stmt := range schema.AllDDL() {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return CreateSchemaError(err)
		}
	}
	return nil
}

// Migrate is the same as Create for SQLite.
func (m *sqliteManager) Migrate(ctx context.Context) error {
	if err := m.Create(ctx); err != nil {
		return MigrateSchemaError(err)
	}
	return nil
}
