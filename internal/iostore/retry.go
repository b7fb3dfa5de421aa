package iostore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// RetryPolicy describes how store operations react to transient failures.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Delay is the pause between attempts. Zero retries immediately.
	Delay time.Duration

	// IsTransient decides if an error is worth another attempt.
	IsTransient func(error) bool
}

// NewRetryPolicy creates a policy from database settings.
func NewRetryPolicy(cfg config.DatabaseConfig) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: max(cfg.RetryAttempts, 1),
		Delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		IsTransient: IsTransient,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if p.Delay > 0 {
		b = backoff.NewConstantBackOff(p.Delay)
	}
	retries := uint64(max(p.MaxAttempts-1, 0))
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// IsTransient reports connectivity failures: refused or reset sockets,
// timeouts, broken PostgreSQL connections and busy SQLite databases.
// Missing records and constraint violations are not transient.
func IsTransient(err error) bool {
	if err == nil || taxdb.IsUnavailable(err) {
		return false
	}
	err = cause(err)

	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, errNoRows) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 08: connection exception, 57P0x: server shutting down.
		return strings.HasPrefix(pgErr.Code, "08") ||
			strings.HasPrefix(pgErr.Code, "57P0")
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code() & 0xff
		return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// cause returns the error wrapped by a *gn.Error, so that driver errors
// can be inspected behind user-facing messages.
func cause(err error) error {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) && gnErr.Err != nil {
		return gnErr.Err
	}
	return err
}

// withRetry runs fn until it succeeds, fails with a non-transient error or
// runs out of attempts. Running out of attempts gives StoreUnavailable.
func withRetry[T any](
	ctx context.Context,
	s *store,
	op string,
	fn func(context.Context) (T, error),
) (T, error) {
	var attempts int
	operation := func() (T, error) {
		attempts++
		res, err := fn(ctx)
		if err != nil && !s.policy.IsTransient(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	notify := func(err error, d time.Duration) {
		s.metrics.Retries.Inc()
		slog.Warn("Transient store failure, retrying",
			"operation", op,
			"attempt", attempts,
			"delay", d,
			"error", err,
		)
	}

	res, err := backoff.RetryNotifyWithData(operation, s.policy.backOff(ctx), notify)
	if err == nil || !s.policy.IsTransient(err) {
		return res, err
	}

	s.metrics.Unavailable.Inc()
	slog.Error("Store is unavailable",
		"operation", op,
		"attempts", attempts,
		"error", err,
	)
	var zero T
	return zero, taxdb.UnavailableError(op, attempts, err)
}
