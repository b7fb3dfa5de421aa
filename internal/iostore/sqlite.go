package iostore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gnames/gnlineage/internal/ioschema"
	"github.com/gnames/gnlineage/pkg/config"
	_ "modernc.org/sqlite"
)

// sqlitePragmas wait for a lock instead of failing at once and allow
// readers during writes.
const sqlitePragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

type sqliteBackend struct {
	db *sql.DB
}

func openSQLite(ctx context.Context, path string) (*sqliteBackend, error) {
	sqlDB, err := sql.Open("sqlite", path+sqlitePragmas)
	if err != nil {
		return nil, OpenSQLiteError(path, err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, OpenSQLiteError(path, err)
	}
	return &sqliteBackend{db: sqlDB}, nil
}

func (b *sqliteBackend) name() string {
	return config.BackendSQLite
}

func (b *sqliteBackend) placeholder(int) string {
	return "?"
}

func (b *sqliteBackend) exec(
	ctx context.Context,
	query string,
	args ...any,
) (int64, error) {
	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (b *sqliteBackend) queryRow(
	ctx context.Context,
	query string,
	args []any,
	dest ...any,
) error {
	err := b.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return errNoRows
	}
	return err
}

func (b *sqliteBackend) migrate(ctx context.Context) error {
	return ioschema.NewSQLiteManager(b.db).Migrate(ctx)
}

func (b *sqliteBackend) close() error {
	return b.db.Close()
}
