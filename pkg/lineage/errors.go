package lineage

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

// CycleError is returned when the parent chain of a node comes back to a
// node it already visited. Stored taxonomy must be a forest, so this
// points to a corrupted store.
func CycleError(id, repeatedID string) error {
	msg := `Cycle in stored taxonomy

<em>Lineage of:</em> %s
<em>Repeated node:</em> %s

Reload the taxonomy from a consistent dump.`
	vars := []any{id, repeatedID}
	return &gn.Error{
		Code: errcode.LineageCycleError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("lineage of %s revisits node %s",
			id, repeatedID),
	}
}

// DepthError is returned when a lineage is longer than the allowed
// maximum.
func DepthError(id string, maxDepth int) error {
	msg := "Lineage of <em>%s</em> is longer than %d nodes"
	vars := []any{id, maxDepth}
	return &gn.Error{
		Code: errcode.LineageCycleError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("lineage of %s exceeds %d nodes",
			id, maxDepth),
	}
}
