// Package schema provides database schema models for gnlineage.
//
// Models carry two sets of tags: `gorm` tags drive AutoMigrate on
// PostgreSQL, `db`/`ddl` tags generate plain DDL for SQLite.
package schema

import (
	"github.com/gnames/gnlineage/pkg/taxon"
)

// DDLGenerator defines how Go models generate DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// Node is a row of the nodes table. There is at most one row per
// taxonomy identifier.
type Node struct {
	// TaxonID is the taxonomy identifier of the node.
	TaxonID string `db:"taxon_id" ddl:"TEXT PRIMARY KEY" gorm:"type:varchar(255);primaryKey"`

	// ParentID is the taxonomy identifier of the parent node. It is not
	// a foreign key: a parent might be missing from the store.
	ParentID string `db:"parent_id" ddl:"TEXT NOT NULL" gorm:"type:varchar(255);not null"`

	// Name is the scientific name of the node.
	Name string `db:"name" ddl:"TEXT NOT NULL DEFAULT ''" gorm:"type:text;not null;default:'';index:idx_nodes_name"`
}

// Link is a row of the links table. There is at most one row per
// accession.
type Link struct {
	// Accession of an external record.
	Accession string `db:"accession" ddl:"TEXT PRIMARY KEY" gorm:"type:varchar(255);primaryKey"`

	// TaxonID of the linked node. The node does not have to exist.
	TaxonID string `db:"taxon_id" ddl:"TEXT NOT NULL" gorm:"type:varchar(255);not null"`
}

// NewNode converts a taxon.Node to its row.
func NewNode(n taxon.Node) Node {
	return Node{TaxonID: n.ID, ParentID: n.ParentID, Name: n.Name}
}

// ToTaxon converts the row to a taxon.Node.
func (n Node) ToTaxon() taxon.Node {
	return taxon.Node{ID: n.TaxonID, ParentID: n.ParentID, Name: n.Name}
}

// NewLink converts a taxon.Link to its row.
func NewLink(l taxon.Link) Link {
	return Link{Accession: l.Accession, TaxonID: l.TaxonID}
}

// ToTaxon converts the row to a taxon.Link.
func (l Link) ToTaxon() taxon.Link {
	return taxon.Link{Accession: l.Accession, TaxonID: l.TaxonID}
}
