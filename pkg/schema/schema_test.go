package schema_test

import (
	"strings"
	"testing"

	"github.com/gnames/gnlineage/pkg/schema"
	"github.com/gnames/gnlineage/pkg/taxon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNodeTableDDL tests DDL generation for Node model
func TestNodeTableDDL(t *testing.T) {
	n := schema.Node{}
	ddl := n.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS nodes")
	assert.Contains(t, ddl, "taxon_id TEXT PRIMARY KEY")
	assert.Contains(t, ddl, "parent_id TEXT NOT NULL")
	assert.Contains(t, ddl, "name TEXT NOT NULL DEFAULT ''")
}

// TestNodeIndexDDL tests index generation for Node model
func TestNodeIndexDDL(t *testing.T) {
	indexes := schema.Node{}.IndexDDL()
	require.NotEmpty(t, indexes, "name lookups need an index")
	assert.Contains(t, strings.Join(indexes, "\n"), "nodes(name)")
}

// TestLinkTableDDL tests DDL generation for Link model
func TestLinkTableDDL(t *testing.T) {
	l := schema.Link{}
	ddl := l.TableDDL()

	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS links")
	assert.Contains(t, ddl, "accession TEXT PRIMARY KEY")
	assert.Contains(t, ddl, "taxon_id TEXT NOT NULL")
	assert.Empty(t, l.IndexDDL())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "nodes", schema.Node{}.TableName())
	assert.Equal(t, "links", schema.Link{}.TableName())
}

func TestAllDDL(t *testing.T) {
	ddl := schema.AllDDL()
	require.Len(t, ddl, 3)
	assert.Contains(t, ddl[0], "nodes")
	assert.Contains(t, ddl[1], "idx_nodes_name")
	assert.Contains(t, ddl[2], "links")
}

func TestAllModels(t *testing.T) {
	assert.Len(t, schema.AllModels(), 2)
}

func TestConversions(t *testing.T) {
	n := taxon.Node{ID: "2", Name: "Bacteria", ParentID: "131567"}
	row := schema.NewNode(n)
	assert.Equal(t, "2", row.TaxonID)
	assert.Equal(t, "131567", row.ParentID)
	assert.Equal(t, n, row.ToTaxon())

	l := taxon.Link{Accession: "P06912", TaxonID: "9986"}
	assert.Equal(t, l, schema.NewLink(l).ToTaxon())
}
