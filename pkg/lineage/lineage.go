// Package lineage resolves full ancestor chains of taxonomy nodes.
//
// A lineage is the list of scientific names from the forest root down to
// and including the queried node. The walk reads one node at a time from
// a taxdb.Store and keeps no state between queries.
package lineage

import (
	"context"
	"log/slog"
	"slices"

	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
)

// Resolver answers lineage queries.
type Resolver interface {
	// Lineage returns root-to-leaf scientific names for the node with
	// the given identifier. A missing starting node is a NotFound error.
	Lineage(ctx context.Context, id string) ([]string, error)

	// LineageByName finds a node by its scientific name and returns its
	// lineage.
	LineageByName(ctx context.Context, name string) ([]string, error)

	// LineageByAccession follows the accession link and returns the
	// lineage of the linked node. An unlinked accession is a NoLink
	// error.
	LineageByAccession(ctx context.Context, accession string) ([]string, error)

	// Nodes returns root-to-leaf nodes for the node with the given
	// identifier.
	Nodes(ctx context.Context, id string) ([]taxon.Node, error)
}

type resolver struct {
	store    taxdb.Store
	maxDepth int
}

// Option configures a Resolver.
type Option func(*resolver)

// OptMaxDepth limits the number of nodes in one lineage. Longer chains
// are reported as cyclic.
func OptMaxDepth(i int) Option {
	return func(r *resolver) {
		if i > 0 {
			r.maxDepth = i
		}
	}
}

// New creates a Resolver that reads nodes from the store.
func New(store taxdb.Store, opts ...Option) Resolver {
	res := &resolver{store: store, maxDepth: 1_000}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Lineage implements Resolver.
func (r *resolver) Lineage(ctx context.Context, id string) ([]string, error) {
	nodes, err := r.Nodes(ctx, id)
	if err != nil {
		return nil, err
	}
	return Names(nodes), nil
}

// LineageByName implements Resolver.
func (r *resolver) LineageByName(
	ctx context.Context,
	name string,
) ([]string, error) {
	node, err := r.store.NodeByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.Lineage(ctx, node.ID)
}

// LineageByAccession implements Resolver.
func (r *resolver) LineageByAccession(
	ctx context.Context,
	accession string,
) ([]string, error) {
	id, err := r.store.TaxonID(ctx, accession)
	if err != nil {
		return nil, err
	}
	return r.Lineage(ctx, id)
}

// Nodes walks parent references starting from id. It stops at a node
// that is its own parent, or quietly at the last found node when a
// parent is missing from the store (the unstored parent of the top
// node, or a dangling reference after partial ingestion).
func (r *resolver) Nodes(ctx context.Context, id string) ([]taxon.Node, error) {
	node, err := r.store.NodeByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// collected leaf first, reversed once at the end
	res := []taxon.Node{node}
	visited := map[string]struct{}{node.ID: {}}

	for !node.IsRoot() {
		parent, err := r.store.NodeByID(ctx, node.ParentID)
		if taxdb.IsNotFound(err) {
			slog.Debug("Lineage stops at a node without stored parent",
				"taxon_id", id,
				"last_id", node.ID,
				"parent_id", node.ParentID,
			)
			break
		}
		if err != nil {
			return nil, err
		}

		if _, ok := visited[parent.ID]; ok {
			return nil, CycleError(id, parent.ID)
		}
		if len(res) >= r.maxDepth {
			return nil, DepthError(id, r.maxDepth)
		}
		visited[parent.ID] = struct{}{}
		res = append(res, parent)
		node = parent
	}

	slices.Reverse(res)
	return res, nil
}

// Names returns scientific names of nodes keeping their order.
func Names(nodes []taxon.Node) []string {
	res := make([]string, len(nodes))
	for i := range nodes {
		res[i] = nodes[i].Name
	}
	return res
}
