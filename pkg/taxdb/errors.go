package taxdb

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

// NotFoundError is returned when no node matches an identifier or a
// scientific name.
func NotFoundError(key string) error {
	msg := "Taxonomy node <em>%s</em> not found"
	vars := []any{key}
	return &gn.Error{
		Code: errcode.StoreNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("node %q not found", key),
	}
}

// NoLinkError is returned when an accession is not linked to any node.
func NoLinkError(accession string) error {
	msg := "Accession <em>%s</em> is not linked to a taxonomy node"
	vars := []any{accession}
	return &gn.Error{
		Code: errcode.StoreNoLinkError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no link for accession %q", accession),
	}
}

// UnavailableError is returned when the store stays unreachable after
// all retry attempts.
func UnavailableError(op string, attempts int, err error) error {
	msg := `Taxonomy store is unavailable

<em>Operation:</em> %s
<em>Attempts:</em> %d

<em>How to fix:</em>
  1. Check that the database server is running
  2. Review connection settings in the config file`
	vars := []any{op, attempts}
	return &gn.Error{
		Code: errcode.StoreUnavailableError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("%s failed after %d attempts: %w",
			op, attempts, err),
	}
}

// IsNotFound reports whether err signals a missing node.
func IsNotFound(err error) bool {
	return hasCode(err, errcode.StoreNotFoundError)
}

// IsNoLink reports whether err signals a missing accession link.
func IsNoLink(err error) bool {
	return hasCode(err, errcode.StoreNoLinkError)
}

// IsUnavailable reports whether err signals an exhausted retry budget.
func IsUnavailable(err error) bool {
	return hasCode(err, errcode.StoreUnavailableError)
}

func hasCode(err error, code gn.ErrorCode) bool {
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code == code
	}
	return false
}
