package iostore

import (
	"context"
	"errors"
	"strconv"

	"github.com/gnames/gnlineage/internal/iodb"
	"github.com/gnames/gnlineage/internal/ioschema"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/db"
	"github.com/jackc/pgx/v5"
)

type pgBackend struct {
	op db.Operator
}

func openPostgres(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) (*pgBackend, error) {
	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}
	return &pgBackend{op: op}, nil
}

func (b *pgBackend) name() string {
	return config.BackendPostgres
}

func (b *pgBackend) placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}

func (b *pgBackend) exec(
	ctx context.Context,
	query string,
	args ...any,
) (int64, error) {
	tag, err := b.op.Pool().Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (b *pgBackend) queryRow(
	ctx context.Context,
	query string,
	args []any,
	dest ...any,
) error {
	err := b.op.Pool().QueryRow(ctx, query, args...).Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return errNoRows
	}
	return err
}

func (b *pgBackend) migrate(ctx context.Context) error {
	return ioschema.NewManager(b.op).Migrate(ctx)
}

func (b *pgBackend) close() error {
	return b.op.Close()
}
