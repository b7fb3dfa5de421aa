package iostore

import (
	"context"
	"errors"
)

// errNoRows is returned by backends when a lookup finds nothing.
var errNoRows = errors.New("no rows in result set")

// backend hides the differences between database drivers. SQL text is
// shared, only placeholders differ.
type backend interface {
	// name is used in logs.
	name() string

	// placeholder returns the i-th (1-based) query parameter marker.
	placeholder(i int) string

	// exec runs a statement and returns the number of affected rows.
	exec(ctx context.Context, query string, args ...any) (int64, error)

	// queryRow scans a single row into dest. It returns errNoRows if
	// the query has no result.
	queryRow(ctx context.Context, query string, args []any, dest ...any) error

	// migrate makes sure that nodes and links tables exist.
	migrate(ctx context.Context) error

	close() error
}
