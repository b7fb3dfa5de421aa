package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

// NotConnectedError is returned when a schema operation runs without
// a database connection.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Schema operation attempted without database connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// GORMConnectionError is returned when GORM cannot use the pgx pool.
func GORMConnectionError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  "Cannot connect to database with GORM",
		Err:  fmt.Errorf("failed to connect with GORM: %w", err),
	}
}

// CreateSchemaError is returned when nodes and links tables cannot be
// created.
func CreateSchemaError(err error) error {
	msg := `Cannot create taxonomy tables

<em>How to fix:</em>
  1. Check that the database user has CREATE permissions
  2. Run <em>gnlineage create --force</em> to start from scratch`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("failed to create schema: %w", err),
	}
}

func MigrateSchemaError(err error) error {
	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  "Cannot update taxonomy tables",
		Err:  fmt.Errorf("failed to migrate schema: %w", err),
	}
}

func CollationError(table, column string, err error) error {
	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  "Cannot set collation on <em>%s.%s</em>",
		Vars: []any{table, column},
		Err: fmt.Errorf(
			"failed to set collation on %s.%s: %w",
			table, column, err),
	}
}
