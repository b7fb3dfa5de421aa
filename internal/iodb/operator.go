// Package iodb implements PostgreSQL connection management using pgxpool.
// It is the impure counterpart of the db.Operator contract.
package iodb

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// DSN builds a PostgreSQL connection string from the configuration.
func DSN(cfg *config.DatabaseConfig) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Database,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

// Connect establishes a connection pool to PostgreSQL and verifies it with
// a ping. The operator keeps the pool only after the ping succeeds.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	return nil
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the public schema.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return exists, nil
}

// HasTables checks if the public schema has any tables.
func (p *pgxOperator) HasTables(ctx context.Context) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
		)
	`

	var hasTables bool
	if err := p.pool.QueryRow(ctx, query).Scan(&hasTables); err != nil {
		return false, TableCheckError(err)
	}
	return hasTables, nil
}

// DropAllTables drops all tables in the public schema.
func (p *pgxOperator) DropAllTables(ctx context.Context) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	query := `
		SELECT tablename
		FROM pg_tables
		WHERE schemaname = 'public'
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return QueryTablesError(err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return ScanTableError(err)
		}
		tables = append(tables, tableName)
	}
	if err := rows.Err(); err != nil {
		return ScanTableError(err)
	}

	for _, table := range tables {
		dropSQL := fmt.Sprintf("DROP TABLE IF EXISTS %q CASCADE", table)
		if _, err := p.pool.Exec(ctx, dropSQL); err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}
