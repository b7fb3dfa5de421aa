package ioingest

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

// MissingNameError is returned when the nodes dump has taxa absent from
// the names dump. Such dumps are inconsistent and are not ingested.
func MissingNameError(nodesPath string, ids []string) error {
	sample := ids[:min(len(ids), 5)]
	msg := `<em>%d</em> taxa from <em>%s</em> have no scientific name

First of them: %s
Make sure names.dmp and nodes.dmp come from the same dump.`

	return &gn.Error{
		Code: errcode.IngestMissingNameError,
		Msg:  msg,
		Vars: []any{len(ids), nodesPath, strings.Join(sample, ", ")},
		Err: fmt.Errorf("%d taxa without scientific name, first %s",
			len(ids), ids[0]),
	}
}

func CancelledError(entity string, err error) error {
	return &gn.Error{
		Code: errcode.IngestCancelledError,
		Msg:  "Ingestion of <em>%s</em> was cancelled",
		Vars: []any{entity},
		Err:  fmt.Errorf("ingest %s: %w", entity, err),
	}
}
