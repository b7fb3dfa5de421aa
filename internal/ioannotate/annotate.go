// Package ioannotate appends taxonomic lineages to definition lines of
// FASTA-like files.
//
// An annotated definition line keeps its original text and gets the
// lineage between "#|" and "|#" markers, with names joined by "<->":
//
//	>sp|P06912|... #| cellular organisms<->Eukaryota<->... |#
package ioannotate

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/gnames/gnlineage/pkg/accession"
	"github.com/gnames/gnlineage/pkg/lineage"
	"github.com/gnames/gnlineage/pkg/taxdb"
)

const (
	openMark  = " #| "
	closeMark = " |#"
	nameSep   = "<->"
)

// Result counts processed definition lines.
type Result struct {
	// Annotated is the number of definition lines that got a lineage.
	Annotated int `json:"annotated" yaml:"annotated"`

	// Passed is the number of definition lines copied unchanged because
	// their accession or taxon is not in the store.
	Passed int `json:"passed" yaml:"passed"`
}

// Annotator writes lineages into FASTA-like files.
type Annotator struct {
	resolver lineage.Resolver
}

// New creates an Annotator that resolves accessions with the given
// resolver.
func New(resolver lineage.Resolver) *Annotator {
	return &Annotator{resolver: resolver}
}

// Annotate copies r to w. Lines starting with '>' get the lineage of
// their accession. Unknown accessions and taxa leave the line as is. Any
// other lookup failure stops the run.
func (a *Annotator) Annotate(
	ctx context.Context,
	r io.Reader,
	w io.Writer,
) (*Result, error) {
	res := &Result{}
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, ReadError(err)
		}
		if line == "" {
			break
		}

		out, annotated, lerr := a.annotateLine(ctx, line)
		if lerr != nil {
			return nil, lerr
		}
		if strings.HasPrefix(line, ">") {
			if annotated {
				res.Annotated++
			} else {
				res.Passed++
			}
		}
		if _, werr := bw.WriteString(out); werr != nil {
			return nil, WriteError(werr)
		}

		if err != nil {
			break
		}
	}

	if err := bw.Flush(); err != nil {
		return nil, WriteError(err)
	}
	slog.Info("Annotation finished",
		"annotated", res.Annotated,
		"passed", res.Passed,
	)
	return res, nil
}

func (a *Annotator) annotateLine(
	ctx context.Context,
	line string,
) (string, bool, error) {
	if !strings.HasPrefix(line, ">") {
		return line, false, nil
	}

	acc := accession.FromDefline(line[1:])
	if acc == "" {
		slog.Debug("No accession in definition line", "line", line)
		return line, false, nil
	}

	names, err := a.resolver.LineageByAccession(ctx, acc)
	switch {
	case taxdb.IsNoLink(err), taxdb.IsNotFound(err):
		slog.Debug("No lineage for accession", "accession", acc)
		return line, false, nil
	case err != nil:
		return "", false, err
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(line))
	sb.WriteString(openMark)
	sb.WriteString(strings.Join(names, nameSep))
	sb.WriteString(closeMark)
	sb.WriteString("\n")
	return sb.String(), true, nil
}
