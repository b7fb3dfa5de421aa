// Package gnlineage keeps a local mirror of a taxonomy dump and resolves
// full ancestor chains (lineages) for taxonomy identifiers and accessions.
package gnlineage

var (
	// Version of gnlineage, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
