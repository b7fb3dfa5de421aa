package iostore

import (
	"context"

	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cachedStore keeps recently requested nodes in memory. Annotation of
// many records from the same clade asks for the same ancestors again and
// again. Only found nodes are cached, and writes go straight to the
// wrapped store (a node never changes once inserted).
type cachedStore struct {
	taxdb.Store
	nodes *lru.Cache[string, taxon.Node]
}

// NewCached wraps a store with an LRU cache of the given size for
// NodeByID lookups.
func NewCached(s taxdb.Store, size int) (taxdb.Store, error) {
	cache, err := lru.New[string, taxon.Node](size)
	if err != nil {
		return nil, CacheError(size, err)
	}
	return &cachedStore{Store: s, nodes: cache}, nil
}

func (c *cachedStore) NodeByID(ctx context.Context, id string) (taxon.Node, error) {
	if node, ok := c.nodes.Get(id); ok {
		return node, nil
	}

	node, err := c.Store.NodeByID(ctx, id)
	if err != nil {
		return node, err
	}
	c.nodes.Add(id, node)
	return node, nil
}
