package output

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

func FormatError(s string) error {
	msg := `Unknown output format <em>%s</em>

Use one of: csv, tsv, compact, pretty, yaml.`
	return &gn.Error{
		Code: errcode.OutputFormatError,
		Msg:  msg,
		Vars: []any{s},
		Err:  fmt.Errorf("unknown output format %q", s),
	}
}

func EncodeError(f Format, err error) error {
	return &gn.Error{
		Code: errcode.OutputEncodeError,
		Msg:  "Cannot encode results as <em>%s</em>",
		Vars: []any{f},
		Err:  fmt.Errorf("encode %s: %w", f, err),
	}
}
