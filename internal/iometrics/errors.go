package iometrics

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

func WriteError(path string, err error) error {
	return &gn.Error{
		Code: errcode.MetricsWriteError,
		Msg:  "Cannot write metrics to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("cannot write metrics textfile %s: %w", path, err),
	}
}
