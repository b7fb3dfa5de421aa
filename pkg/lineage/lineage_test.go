package lineage_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
	"github.com/gnames/gnlineage/pkg/lineage"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapStore is an in-memory taxdb.Store for resolver tests.
type mapStore struct {
	nodes   map[string]taxon.Node
	links   map[string]string
	failIDs map[string]error
	calls   int
}

func newMapStore(nodes ...taxon.Node) *mapStore {
	res := &mapStore{
		nodes:   make(map[string]taxon.Node),
		links:   make(map[string]string),
		failIDs: make(map[string]error),
	}
	for _, v := range nodes {
		res.nodes[v.ID] = v
	}
	return res
}

func (m *mapStore) UpsertNode(_ context.Context, n taxon.Node) (bool, error) {
	if _, ok := m.nodes[n.ID]; ok {
		return false, nil
	}
	m.nodes[n.ID] = n
	return true, nil
}

func (m *mapStore) UpsertNodes(ctx context.Context, nn []taxon.Node) (int, error) {
	var res int
	for _, n := range nn {
		if ok, _ := m.UpsertNode(ctx, n); ok {
			res++
		}
	}
	return res, nil
}

func (m *mapStore) UpsertLink(_ context.Context, l taxon.Link) (bool, error) {
	if _, ok := m.links[l.Accession]; ok {
		return false, nil
	}
	m.links[l.Accession] = l.TaxonID
	return true, nil
}

func (m *mapStore) UpsertLinks(ctx context.Context, ll []taxon.Link) (int, error) {
	var res int
	for _, l := range ll {
		if ok, _ := m.UpsertLink(ctx, l); ok {
			res++
		}
	}
	return res, nil
}

func (m *mapStore) NodeByID(_ context.Context, id string) (taxon.Node, error) {
	m.calls++
	if err, ok := m.failIDs[id]; ok {
		return taxon.Node{}, err
	}
	n, ok := m.nodes[id]
	if !ok {
		return taxon.Node{}, taxdb.NotFoundError(id)
	}
	return n, nil
}

func (m *mapStore) NodeByName(_ context.Context, name string) (taxon.Node, error) {
	for _, v := range m.nodes {
		if v.Name == name {
			return v, nil
		}
	}
	return taxon.Node{}, taxdb.NotFoundError(name)
}

func (m *mapStore) TaxonID(_ context.Context, acc string) (string, error) {
	id, ok := m.links[acc]
	if !ok {
		return "", taxdb.NoLinkError(acc)
	}
	return id, nil
}

func (m *mapStore) Stats(context.Context) (int, int, error) {
	return len(m.nodes), len(m.links), nil
}

func (m *mapStore) Close() error { return nil }

// chain creates nodes 0 <- 1 <- ... <- n where node 0 is its own parent.
func chain(n int) []taxon.Node {
	res := make([]taxon.Node, 0, n+1)
	for i := 0; i <= n; i++ {
		parent := i - 1
		if i == 0 {
			parent = 0
		}
		res = append(res, taxon.Node{
			ID:       strconv.Itoa(i),
			Name:     fmt.Sprintf("Species_lvl_%d", i),
			ParentID: strconv.Itoa(parent),
		})
	}
	return res
}

func TestLineageChain(t *testing.T) {
	ctx := context.Background()
	store := newMapStore(chain(10)...)
	r := lineage.New(store)

	res, err := r.Lineage(ctx, "10")
	require.NoError(t, err)

	exp := make([]string, 0, 11)
	for i := 0; i <= 10; i++ {
		exp = append(exp, fmt.Sprintf("Species_lvl_%d", i))
	}
	assert.Equal(t, exp, res)

	res, err = r.Lineage(ctx, "0")
	require.NoError(t, err)
	assert.Equal(t, []string{"Species_lvl_0"}, res)
}

func TestLineageUnstoredRoot(t *testing.T) {
	ctx := context.Background()
	store := newMapStore(
		taxon.Node{ID: "2", Name: "Bacteria", ParentID: "131567"},
		taxon.Node{ID: "131567", Name: "cellular organisms", ParentID: "1"},
	)
	r := lineage.New(store)

	res, err := r.Lineage(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"cellular organisms", "Bacteria"}, res)
}

func TestLineageDanglingParent(t *testing.T) {
	ctx := context.Background()
	store := newMapStore(
		taxon.Node{ID: "X", Name: "Lonely", ParentID: "Y"},
	)
	r := lineage.New(store)

	res, err := r.Lineage(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, []string{"Lonely"}, res)
}

func TestLineageMissingStart(t *testing.T) {
	store := newMapStore(chain(3)...)
	r := lineage.New(store)

	res, err := r.Lineage(context.Background(), "404")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, taxdb.IsNotFound(err))
}

func TestLineageStoreFailure(t *testing.T) {
	store := newMapStore(chain(5)...)
	store.failIDs["2"] = taxdb.UnavailableError("NodeByID", 3,
		errors.New("connection reset"))
	r := lineage.New(store)

	res, err := r.Lineage(context.Background(), "5")
	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, taxdb.IsUnavailable(err),
		"store failures are not treated as a missing parent")
}

func TestLineageCycle(t *testing.T) {
	store := newMapStore(
		taxon.Node{ID: "a", Name: "A", ParentID: "b"},
		taxon.Node{ID: "b", Name: "B", ParentID: "c"},
		taxon.Node{ID: "c", Name: "C", ParentID: "a"},
	)
	r := lineage.New(store)

	_, err := r.Lineage(context.Background(), "a")
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.LineageCycleError, gnErr.Code)
	assert.Less(t, store.calls, 10, "walk must stop on the first repeat")
}

func TestLineageMaxDepth(t *testing.T) {
	store := newMapStore(chain(20)...)

	r := lineage.New(store, lineage.OptMaxDepth(5))
	_, err := r.Lineage(context.Background(), "20")
	require.Error(t, err)

	r = lineage.New(store, lineage.OptMaxDepth(21))
	res, err := r.Lineage(context.Background(), "20")
	require.NoError(t, err)
	assert.Len(t, res, 21)
}

func TestLineageByName(t *testing.T) {
	ctx := context.Background()
	store := newMapStore(chain(4)...)
	r := lineage.New(store)

	res, err := r.LineageByName(ctx, "Species_lvl_2")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"Species_lvl_0", "Species_lvl_1", "Species_lvl_2"}, res)

	_, err = r.LineageByName(ctx, "Homo sapiens")
	assert.True(t, taxdb.IsNotFound(err))
}

func TestLineageByAccession(t *testing.T) {
	ctx := context.Background()
	store := newMapStore(chain(3)...)
	store.links["P3"] = "3"
	store.links["P99"] = "99"
	r := lineage.New(store)

	res, err := r.LineageByAccession(ctx, "P3")
	require.NoError(t, err)
	assert.Len(t, res, 4)
	assert.Equal(t, "Species_lvl_3", res[3])

	_, err = r.LineageByAccession(ctx, "UNKNOWN_ACC")
	require.Error(t, err)
	assert.True(t, taxdb.IsNoLink(err))

	_, err = r.LineageByAccession(ctx, "P99")
	assert.True(t, taxdb.IsNotFound(err),
		"link to a node that was never ingested")
}

func TestNodes(t *testing.T) {
	store := newMapStore(chain(2)...)
	r := lineage.New(store)

	res, err := r.Nodes(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, "0", res[0].ID)
	assert.True(t, res[0].IsRoot())
	assert.Equal(t, "2", res[2].ID)
	assert.Equal(t, []string{"Species_lvl_0", "Species_lvl_1", "Species_lvl_2"},
		lineage.Names(res))
}
