package iodb

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

// ConnectionError is returned when the PostgreSQL pool cannot be created
// or does not answer a ping.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL at <em>%s:%d</em>

<em>How to fix:</em>
  1. Check that PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify that database <em>%s</em> exists and user <em>%s</em> can
     access it
  3. Review <em>~/.config/gnlineage/config.yaml</em> or the
     GNLINEAGE_DATABASE_* environment variables`

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: []any{host, port, host, port, database, user},
		Err: fmt.Errorf(
			"failed to connect to %s:%d/%s as %s: %w",
			host, port, database, user, err,
		),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without a connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when the public schema cannot be inspected.
func TableCheckError(err error) error {
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  "Cannot verify database state",
		Err:  fmt.Errorf("failed to check database tables: %w", err),
	}
}

// TableExistsCheckError is returned when checking a single table fails.
func TableExistsCheckError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  "Cannot check if table <em>%s</em> exists",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

func QueryTablesError(err error) error {
	return &gn.Error{
		Code: errcode.DBQueryTablesError,
		Msg:  "Cannot list database tables",
		Err:  fmt.Errorf("failed to query tables: %w", err),
	}
}

func ScanTableError(err error) error {
	return &gn.Error{
		Code: errcode.DBScanTableError,
		Msg:  "Cannot read table names",
		Err:  fmt.Errorf("failed to scan table name: %w", err),
	}
}

func DropTableError(table string, err error) error {
	return &gn.Error{
		Code: errcode.DBDropTableError,
		Msg:  "Cannot drop table <em>%s</em>",
		Vars: []any{table},
		Err:  fmt.Errorf("failed to drop table %s: %w", table, err),
	}
}
