package iostore

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

func UnknownBackendError(backend string) error {
	msg := `Unknown store backend <em>%s</em>

Use "postgres" or "sqlite" for database.backend.`

	return &gn.Error{
		Code: errcode.DBUnknownBackendError,
		Msg:  msg,
		Vars: []any{backend},
		Err:  fmt.Errorf("unknown backend %q", backend),
	}
}

func OpenSQLiteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  "Cannot open SQLite database <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open sqlite %s: %w", path, err),
	}
}

// QueryError is returned when a lookup fails for a reason other than a
// missing record or an unreachable store.
func QueryError(op, key string, err error) error {
	return &gn.Error{
		Code: errcode.StoreQueryError,
		Msg:  "Store lookup <em>%s</em> failed for <em>%s</em>",
		Vars: []any{op, key},
		Err:  fmt.Errorf("%s(%q): %w", op, key, err),
	}
}

func InsertError(table string, err error) error {
	return &gn.Error{
		Code: errcode.StoreInsertError,
		Msg:  "Cannot insert records into <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("insert into %s: %w", table, err),
	}
}

func CacheError(size int, err error) error {
	return &gn.Error{
		Code: errcode.UnknownError,
		Msg:  "Cannot create node cache of size <em>%d</em>",
		Vars: []any{size},
		Err:  fmt.Errorf("lru cache of size %d: %w", size, err),
	}
}
