package ioschema_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gnames/gnlineage/internal/iodb"
	"github.com/gnames/gnlineage/internal/ioschema"
	"github.com/gnames/gnlineage/internal/iotesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schema.sqlite")
	sqlDB, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func tableNames(t *testing.T, sqlDB *sql.DB, kind string) []string {
	t.Helper()
	rows, err := sqlDB.Query(
		"SELECT name FROM sqlite_master WHERE type = ? ORDER BY name", kind)
	require.NoError(t, err)
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		res = append(res, name)
	}
	require.NoError(t, rows.Err())
	return res
}

func TestSQLiteManager(t *testing.T) {
	ctx := context.Background()
	sqlDB := openSQLite(t)
	mgr := ioschema.NewSQLiteManager(sqlDB)

	require.NoError(t, mgr.Create(ctx))
	// repeated runs are harmless
	require.NoError(t, mgr.Create(ctx))
	require.NoError(t, mgr.Migrate(ctx))

	assert.Equal(t, []string{"links", "nodes"}, tableNames(t, sqlDB, "table"))
	assert.Contains(t, tableNames(t, sqlDB, "index"), "idx_nodes_name")
}

func TestSQLiteManagerNotConnected(t *testing.T) {
	mgr := ioschema.NewSQLiteManager(nil)
	assert.Error(t, mgr.Create(context.Background()))
}

func TestManagerNotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewPgxOperator())
	ctx := context.Background()
	assert.Error(t, mgr.Create(ctx))
	assert.Error(t, mgr.Migrate(ctx))
}

func TestManagerPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, iotesting.GetTestDatabaseConfig()))
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx))
	require.NoError(t, mgr.Migrate(ctx))

	for _, v := range []string{"nodes", "links"} {
		exists, err := op.TableExists(ctx, v)
		require.NoError(t, err)
		assert.True(t, exists, v)
	}
}
