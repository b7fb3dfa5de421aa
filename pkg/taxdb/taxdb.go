// Package taxdb defines contracts for the taxonomy mirror: a store of
// nodes and accession links, and the ingestion of taxonomy dumps into it.
package taxdb

import (
	"context"
	"time"

	"github.com/gnames/gnlineage/pkg/taxon"
)

// Store provides access to the persisted nodes and links.
//
// All writes are insert-if-absent: a record whose key already exists is
// left untouched and the write is reported as not inserted, never as an
// error. Implementations retry operations that fail because the store is
// temporarily unreachable and return a StoreUnavailable error when the
// retry budget is exhausted.
type Store interface {
	// UpsertNode inserts a node unless a node with the same ID exists.
	// Returns true if the node was inserted.
	UpsertNode(ctx context.Context, node taxon.Node) (bool, error)

	// UpsertNodes inserts a batch of nodes with UpsertNode semantics and
	// returns how many of them were actually inserted.
	UpsertNodes(ctx context.Context, nodes []taxon.Node) (int, error)

	// UpsertLink inserts a link unless a link with the same accession
	// exists. Returns true if the link was inserted.
	UpsertLink(ctx context.Context, link taxon.Link) (bool, error)

	// UpsertLinks inserts a batch of links with UpsertLink semantics and
	// returns how many of them were actually inserted.
	UpsertLinks(ctx context.Context, links []taxon.Link) (int, error)

	// NodeByID returns the node with the given identifier or a NotFound
	// error.
	NodeByID(ctx context.Context, id string) (taxon.Node, error)

	// NodeByName returns a node with exactly the given scientific name or
	// a NotFound error. When several nodes share the name, an arbitrary
	// one of them is returned; callers must not rely on which.
	NodeByName(ctx context.Context, name string) (taxon.Node, error)

	// TaxonID returns the node identifier linked to the accession or a
	// NoLink error.
	TaxonID(ctx context.Context, accession string) (string, error)

	// Stats returns the number of stored nodes and links.
	Stats(ctx context.Context) (nodes, links int, err error)

	// Close releases the underlying connection.
	Close() error
}

// Ingester loads taxonomy dumps into a Store. Ingestion is idempotent:
// running it again against the same or a newer dump never duplicates or
// modifies records that are already stored.
type Ingester interface {
	// IngestNodes reads names and nodes dumps and stores a node for every
	// identifier of the nodes dump.
	IngestNodes(ctx context.Context, namesPath, nodesPath string) (*Report, error)

	// IngestLinks streams an accession-to-taxid file into the store.
	IngestLinks(ctx context.Context, linksPath string) (*Report, error)
}

// Report summarises one ingestion run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"runId" yaml:"run_id"`

	// Entity is "nodes" or "links".
	Entity string `json:"entity" yaml:"entity"`

	// Parsed is the number of records read from dumps.
	Parsed int `json:"parsed" yaml:"parsed"`

	// Inserted is the number of new records in the store.
	Inserted int `json:"inserted" yaml:"inserted"`

	// Skipped is the number of records that were already stored.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Duration of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}
