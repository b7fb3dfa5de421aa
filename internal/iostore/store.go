// Package iostore implements taxdb.Store on PostgreSQL (pgx) and SQLite
// (modernc.org/sqlite). Both backends share SQL statements, retry policy
// and metrics.
package iostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnames/gnlineage/internal/iometrics"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/schema"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
)

// maxRowsPerStatement keeps the number of query parameters of one INSERT
// below the limits of both databases.
const maxRowsPerStatement = 5_000

type store struct {
	db      backend
	policy  RetryPolicy
	metrics *iometrics.Metrics
}

// Option configures a store created by Connect.
type Option func(*store)

// OptMetrics makes the store report to the given metrics.
func OptMetrics(m *iometrics.Metrics) Option {
	return func(s *store) {
		if m != nil {
			s.metrics = m
		}
	}
}

// OptRetryPolicy replaces the policy built from configuration.
func OptRetryPolicy(p RetryPolicy) Option {
	return func(s *store) {
		if p.IsTransient == nil {
			p.IsTransient = IsTransient
		}
		s.policy = p
	}
}

// Connect opens the configured backend, verifies the connection and makes
// sure that nodes and links tables exist. The store is returned only when
// all of it succeeded; callers close it when done. With a positive
// lineage cache size, node lookups by ID go through an LRU cache.
func Connect(
	ctx context.Context,
	cfg *config.Config,
	opts ...Option,
) (taxdb.Store, error) {
	s := newStore(nil, NewRetryPolicy(cfg.Database), opts...)

	b, err := withRetry(ctx, s, "Connect",
		func(ctx context.Context) (backend, error) {
			switch cfg.Database.Backend {
			case config.BackendPostgres:
				return openPostgres(ctx, &cfg.Database)
			case config.BackendSQLite:
				return openSQLite(ctx, cfg.SQLiteFile())
			default:
				return nil, UnknownBackendError(cfg.Database.Backend)
			}
		})
	if err != nil {
		return nil, err
	}
	s.db = b

	_, err = withRetry(ctx, s, "Migrate",
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.db.migrate(ctx)
		})
	if err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("Connected to taxonomy store", "backend", s.db.name())

	if size := cfg.Lineage.CacheSize; size > 0 {
		return NewCached(s, size)
	}
	return s, nil
}

func newStore(b backend, p RetryPolicy, opts ...Option) *store {
	res := &store{
		db:      b,
		policy:  p,
		metrics: iometrics.New(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (s *store) UpsertNode(ctx context.Context, node taxon.Node) (bool, error) {
	n, err := s.UpsertNodes(ctx, []taxon.Node{node})
	if err != nil {
		return false, err
	}
	if n == 0 {
		slog.Debug("Node already exists, not inserted", "taxon_id", node.ID)
	}
	return n == 1, nil
}

func (s *store) UpsertNodes(ctx context.Context, nodes []taxon.Node) (int, error) {
	rows := make([][]any, len(nodes))
	for i, v := range nodes {
		row := schema.NewNode(v)
		rows[i] = []any{row.TaxonID, row.ParentID, row.Name}
	}
	cols := []string{"taxon_id", "parent_id", "name"}
	return s.insert(ctx, "UpsertNodes", "nodes", cols, rows)
}

func (s *store) UpsertLink(ctx context.Context, link taxon.Link) (bool, error) {
	n, err := s.UpsertLinks(ctx, []taxon.Link{link})
	if err != nil {
		return false, err
	}
	if n == 0 {
		slog.Debug("Link already exists, not inserted",
			"accession", link.Accession)
	}
	return n == 1, nil
}

func (s *store) UpsertLinks(ctx context.Context, links []taxon.Link) (int, error) {
	rows := make([][]any, len(links))
	for i, v := range links {
		row := schema.NewLink(v)
		rows[i] = []any{row.Accession, row.TaxonID}
	}
	cols := []string{"accession", "taxon_id"}
	return s.insert(ctx, "UpsertLinks", "links", cols, rows)
}

// insert writes rows with INSERT ... ON CONFLICT DO NOTHING, so existing
// keys stay untouched. It returns the number of new rows.
func (s *store) insert(
	ctx context.Context,
	op, table string,
	cols []string,
	rows [][]any,
) (int, error) {
	var res int
	for start := 0; start < len(rows); start += maxRowsPerStatement {
		end := min(start+maxRowsPerStatement, len(rows))
		chunk := rows[start:end]

		query := s.insertSQL(table, cols, len(chunk))
		args := make([]any, 0, len(chunk)*len(cols))
		for _, row := range chunk {
			args = append(args, row...)
		}

		n, err := withRetry(ctx, s, op,
			func(ctx context.Context) (int64, error) {
				return s.db.exec(ctx, query, args...)
			})
		if err != nil {
			if taxdb.IsUnavailable(err) {
				return res, err
			}
			return res, InsertError(table, err)
		}
		res += int(n)
	}

	s.metrics.Inserted.WithLabelValues(table).Add(float64(res))
	s.metrics.Skipped.WithLabelValues(table).Add(float64(len(rows) - res))
	return res, nil
}

func (s *store) insertSQL(table string, cols []string, rowsNum int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ",
		table, strings.Join(cols, ", "))

	idx := 1
	for i := range rowsNum {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j := range cols {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(s.db.placeholder(idx))
			idx++
		}
		sb.WriteByte(')')
	}
	fmt.Fprintf(&sb, " ON CONFLICT (%s) DO NOTHING", cols[0])
	return sb.String()
}

func (s *store) NodeByID(ctx context.Context, id string) (taxon.Node, error) {
	q := "SELECT taxon_id, parent_id, name FROM nodes WHERE taxon_id = " +
		s.db.placeholder(1)
	return s.node(ctx, "NodeByID", "id", q, id)
}

func (s *store) NodeByName(ctx context.Context, name string) (taxon.Node, error) {
	q := "SELECT taxon_id, parent_id, name FROM nodes WHERE name = " +
		s.db.placeholder(1) + " LIMIT 1"
	return s.node(ctx, "NodeByName", "name", q, name)
}

func (s *store) node(
	ctx context.Context,
	op, kind, query, key string,
) (taxon.Node, error) {
	row, err := withRetry(ctx, s, op,
		func(ctx context.Context) (schema.Node, error) {
			var res schema.Node
			err := s.db.queryRow(ctx, query, []any{key},
				&res.TaxonID, &res.ParentID, &res.Name)
			return res, err
		})

	switch {
	case err == nil:
		s.lookup(kind, "found")
		return row.ToTaxon(), nil
	case errors.Is(err, errNoRows):
		s.lookup(kind, "not_found")
		return taxon.Node{}, taxdb.NotFoundError(key)
	case taxdb.IsUnavailable(err):
		s.lookup(kind, "error")
		return taxon.Node{}, err
	default:
		s.lookup(kind, "error")
		return taxon.Node{}, QueryError(op, key, err)
	}
}

func (s *store) TaxonID(ctx context.Context, accession string) (string, error) {
	q := "SELECT taxon_id FROM links WHERE accession = " + s.db.placeholder(1)
	id, err := withRetry(ctx, s, "TaxonID",
		func(ctx context.Context) (string, error) {
			var res string
			err := s.db.queryRow(ctx, q, []any{accession}, &res)
			return res, err
		})

	switch {
	case err == nil:
		s.lookup("accession", "found")
		return id, nil
	case errors.Is(err, errNoRows):
		s.lookup("accession", "not_found")
		return "", taxdb.NoLinkError(accession)
	case taxdb.IsUnavailable(err):
		s.lookup("accession", "error")
		return "", err
	default:
		s.lookup("accession", "error")
		return "", QueryError("TaxonID", accession, err)
	}
}

func (s *store) Stats(ctx context.Context) (nodes, links int, err error) {
	count := func(table string) (int, error) {
		q := "SELECT count(*) FROM " + table
		return withRetry(ctx, s, "Stats",
			func(ctx context.Context) (int, error) {
				var res int
				err := s.db.queryRow(ctx, q, nil, &res)
				return res, err
			})
	}
	wrap := func(err error) error {
		if taxdb.IsUnavailable(err) {
			return err
		}
		return QueryError("Stats", "", err)
	}

	if nodes, err = count("nodes"); err != nil {
		return 0, 0, wrap(err)
	}
	if links, err = count("links"); err != nil {
		return 0, 0, wrap(err)
	}
	return nodes, links, nil
}

func (s *store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.close()
}

func (s *store) lookup(kind, outcome string) {
	s.metrics.Lookups.WithLabelValues(kind, outcome).Inc()
}
