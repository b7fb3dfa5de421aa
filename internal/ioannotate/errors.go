package ioannotate

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/errcode"
)

func ReadError(err error) error {
	return &gn.Error{
		Code: errcode.AnnotateReadError,
		Msg:  "Cannot read input for annotation",
		Err:  fmt.Errorf("annotate read: %w", err),
	}
}

func WriteError(err error) error {
	return &gn.Error{
		Code: errcode.AnnotateWriteError,
		Msg:  "Cannot write annotated output",
		Err:  fmt.Errorf("annotate write: %w", err),
	}
}
