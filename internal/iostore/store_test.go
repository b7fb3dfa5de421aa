package iostore

import (
	"context"
	"fmt"
	"testing"

	"github.com/gnames/gnlineage/internal/iometrics"
	"github.com/gnames/gnlineage/internal/iotesting"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteStore(t *testing.T, m *iometrics.Metrics) taxdb.Store {
	t.Helper()
	cfg := iotesting.SQLiteConfig(t)
	s, err := Connect(context.Background(), cfg, OptMetrics(m))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestConnectUnknownBackend(t *testing.T) {
	cfg := iotesting.SQLiteConfig(t)
	cfg.Database.Backend = "mongo"
	_, err := Connect(context.Background(), cfg)
	require.Error(t, err)
	assert.False(t, taxdb.IsUnavailable(err))
}

func TestConnectReopen(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)

	s, err := Connect(ctx, cfg)
	require.NoError(t, err)
	_, err = s.UpsertNode(ctx, taxon.Node{ID: "2", ParentID: "131567", Name: "Bacteria"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Connect(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()
	node, err := s.NodeByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Bacteria", node.Name)
}

func TestUpsertNode(t *testing.T) {
	ctx := context.Background()
	m := iometrics.New()
	s := sqliteStore(t, m)

	node := taxon.Node{ID: "7", ParentID: "6", Name: "Azorhizobium caulinodans"}
	ok, err := s.UpsertNode(ctx, node)
	require.NoError(t, err)
	assert.True(t, ok)

	// existing key is a no-op, not an error
	ok, err = s.UpsertNode(ctx, taxon.Node{ID: "7", ParentID: "1", Name: "changed"})
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := s.NodeByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, node, res)

	_, err = s.NodeByID(ctx, "8")
	assert.True(t, taxdb.IsNotFound(err))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Inserted.WithLabelValues("nodes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Skipped.WithLabelValues("nodes")))
	assert.Equal(t, 1.0,
		testutil.ToFloat64(m.Lookups.WithLabelValues("id", "not_found")))
}

func TestUpsertNodesBatch(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t, nil)

	n, err := s.UpsertNodes(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	nodes := []taxon.Node{
		{ID: "2", ParentID: "131567", Name: "Bacteria"},
		{ID: "131567", ParentID: "1", Name: "cellular organisms"},
		// duplicate inside the batch
		{ID: "2", ParentID: "131567", Name: "Bacteria"},
	}
	n, err = s.UpsertNodes(ctx, nodes)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.UpsertNodes(ctx, nodes)
	require.NoError(t, err)
	assert.Zero(t, n)

	// more rows than fit into one statement
	var many []taxon.Node
	for i := range maxRowsPerStatement*2 + 10 {
		many = append(many, taxon.Node{
			ID:       fmt.Sprintf("n%d", i),
			ParentID: "2",
			Name:     fmt.Sprintf("Species_%d", i),
		})
	}
	n, err = s.UpsertNodes(ctx, many)
	require.NoError(t, err)
	assert.Equal(t, len(many), n)

	nodesNum, linksNum, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(many)+2, nodesNum)
	assert.Zero(t, linksNum)
}

func TestNodeByName(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t, nil)

	nodes := []taxon.Node{
		{ID: "2", ParentID: "131567", Name: "Bacteria"},
		{ID: "629395", ParentID: "33208", Name: "Bacteria"},
		{ID: "9606", ParentID: "9605", Name: "Homo sapiens"},
	}
	_, err := s.UpsertNodes(ctx, nodes)
	require.NoError(t, err)

	node, err := s.NodeByName(ctx, "Homo sapiens")
	require.NoError(t, err)
	assert.Equal(t, "9606", node.ID)

	// shared names give any of the matches
	node, err = s.NodeByName(ctx, "Bacteria")
	require.NoError(t, err)
	assert.Contains(t, []string{"2", "629395"}, node.ID)

	_, err = s.NodeByName(ctx, "homo sapiens")
	assert.True(t, taxdb.IsNotFound(err), "match is exact")
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	s := sqliteStore(t, nil)

	ok, err := s.UpsertLink(ctx, taxon.Link{Accession: "P06912", TaxonID: "9986"})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.UpsertLink(ctx, taxon.Link{Accession: "P06912", TaxonID: "1"})
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.UpsertLinks(ctx, []taxon.Link{
		{Accession: "P18902", TaxonID: "9913"},
		{Accession: "P06912", TaxonID: "9986"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	id, err := s.TaxonID(ctx, "P06912")
	require.NoError(t, err)
	assert.Equal(t, "9986", id)

	_, err = s.TaxonID(ctx, "UNKNOWN_ACC")
	assert.True(t, taxdb.IsNoLink(err))
	assert.False(t, taxdb.IsNotFound(err))

	_, links, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, links)
}

func TestCachedStore(t *testing.T) {
	ctx := context.Background()
	m := iometrics.New()
	cfg := iotesting.SQLiteConfig(t)
	cfg.Update([]config.Option{config.OptLineageCacheSize(10)})

	s, err := Connect(ctx, cfg, OptMetrics(m))
	require.NoError(t, err)
	defer s.Close()
	_, ok := s.(*cachedStore)
	require.True(t, ok)

	_, err = s.UpsertNode(ctx, taxon.Node{ID: "2", ParentID: "131567", Name: "Bacteria"})
	require.NoError(t, err)

	for range 3 {
		node, err := s.NodeByID(ctx, "2")
		require.NoError(t, err)
		assert.Equal(t, "Bacteria", node.Name)
	}
	found := m.Lookups.WithLabelValues("id", "found")
	assert.Equal(t, 1.0, testutil.ToFloat64(found))

	// misses are not cached
	for range 2 {
		_, err = s.NodeByID(ctx, "3")
		assert.True(t, taxdb.IsNotFound(err))
	}
	missed := m.Lookups.WithLabelValues("id", "not_found")
	assert.Equal(t, 2.0, testutil.ToFloat64(missed))

	_, err = NewCached(s, 0)
	assert.Error(t, err)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	s, err := Connect(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()

	node := taxon.Node{ID: "pg-test-2", ParentID: "131567", Name: "Bacteria"}
	_, err = s.UpsertNode(ctx, node)
	require.NoError(t, err)
	ok, err := s.UpsertNode(ctx, node)
	require.NoError(t, err)
	assert.False(t, ok)

	res, err := s.NodeByID(ctx, node.ID)
	require.NoError(t, err)
	assert.Equal(t, node, res)

	_, err = s.TaxonID(ctx, "UNKNOWN_ACC")
	assert.True(t, taxdb.IsNoLink(err))
}
