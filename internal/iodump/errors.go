package iodump

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

func OpenError(path string, err error) error {
	return &gn.Error{
		Code: errcode.DumpOpenError,
		Msg:  "Cannot open dump file <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot open %s: %w", path, err),
	}
}

// ReadError is returned when reading stops before the end of a file.
func ReadError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read dump file <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot read %s: %w", path, err),
	}
}

// ParseError is returned for a malformed dump line. It aborts ingestion
// of the file.
func ParseError(path string, lineNum int, line string) error {
	if len(line) > 80 {
		line = line[:80] + "..."
	}
	return &gn.Error{
		Code: errcode.DumpParseError,
		Msg:  "Malformed line <em>%d</em> in <em>%s</em>",
		Vars: []any{lineNum, path},
		Err:  fmt.Errorf("%s:%d: not enough fields in %q", path, lineNum, line),
	}
}

// DuplicateIDError is returned when a nodes dump gives a second parent
// to the same taxon ID.
func DuplicateIDError(path string, lineNum int, id, parentID string) error {
	msg := `Taxon <em>%s</em> appears more than once in <em>%s</em> (line %d)

The dump is corrupt or was not deduplicated, ingestion is aborted.`

	return &gn.Error{
		Code: errcode.DumpDuplicateIDError,
		Msg:  msg,
		Vars: []any{id, path, lineNum},
		Err: fmt.Errorf(
			"%s:%d: duplicate taxon %s (parent %s)",
			path, lineNum, id, parentID,
		),
	}
}
