// Package taxon contains the records kept in the taxonomy mirror.
package taxon

// Node is a taxonomy node. Its ParentID points to the next node
// up the classification. The forest root is its own parent.
type Node struct {
	// ID is the taxonomy identifier (NCBI taxid).
	ID string `json:"id" yaml:"id"`

	// Name is the scientific name of the node. It is empty if the
	// names dump has no 'scientific name' row for the identifier.
	Name string `json:"name" yaml:"name"`

	// ParentID is the identifier of the parent node.
	ParentID string `json:"parentId" yaml:"parent_id"`
}

// IsRoot returns true for a self-referencing node.
func (n Node) IsRoot() bool {
	return n.ID == n.ParentID
}

// Link connects an external record accession to a taxonomy node.
// The node does not have to exist when the link is stored.
type Link struct {
	// Accession of a record, for example a protein accession
	// without version.
	Accession string `json:"accession" yaml:"accession"`

	// TaxonID is the identifier of the linked Node.
	TaxonID string `json:"taxonId" yaml:"taxon_id"`
}
