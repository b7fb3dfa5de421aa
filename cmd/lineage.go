/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/pkg/accession"
	"github.com/gnames/gnlineage/pkg/lineage"
	"github.com/gnames/gnlineage/pkg/output"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
	"github.com/spf13/cobra"
)

// Kinds of lineage queries.
const (
	byID        = "id"
	byName      = "name"
	byAccession = "accession"
)

// getLineageCmd returns the lineage command.
func getLineageCmd() *cobra.Command {
	var (
		by      string
		format  string
		withIDs bool
	)

	lineageCmd := &cobra.Command{
		Use:   "lineage [query...]",
		Short: "Print lineages of taxa",
		Long: `Print root-to-leaf lineages of taxa from the taxonomy store.

Queries are taxon IDs by default. Use --by to query by scientific name or
by protein accession. Without arguments queries are read from STDIN, one
per line.

Output formats: csv, tsv, compact (JSON lines), pretty (JSON), yaml.

Examples:
  gnlineage lineage 9606
  gnlineage lineage --by name "Homo sapiens" "Bos taurus"
  gnlineage lineage --by accession P06912.2 -f pretty --ids
  cat ids.txt | gnlineage lineage -f tsv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLineage(cmd, args, by, format, withIDs)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	lineageCmd.Flags().StringVarP(&by, "by", "b", byID,
		"query kind: id, name or accession")
	lineageCmd.Flags().StringVarP(&format, "format", "f", "csv",
		"output format: csv, tsv, compact, pretty, yaml")
	lineageCmd.Flags().BoolVarP(&withIDs, "ids", "i", false,
		"add taxon IDs of the lineage")
	lineageCmd.Flags().IntP("cache-size", "c", 0,
		"number of nodes kept in memory cache")

	return lineageCmd
}

func runLineage(
	cmd *cobra.Command,
	args []string,
	by, format string,
	withIDs bool,
) error {
	applyFlags(cmd, cacheSizeFlag)

	f, err := output.NewFormat(format)
	if err != nil {
		return err
	}
	if err = checkQueryKind(by); err != nil {
		return err
	}

	queries := args
	if len(queries) == 0 {
		if queries, err = readQueries(cmd.InOrStdin()); err != nil {
			return err
		}
	}

	ctx := context.Background()
	s, err := openStore(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	r := lineage.New(s, lineage.OptMaxDepth(cfg.Lineage.MaxDepth))
	recs := make([]output.Record, 0, len(queries))
	for _, q := range queries {
		rec, err := lineageRecord(ctx, s, r, by, q)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	out, err := output.Output(recs, f, withIDs)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func checkQueryKind(by string) error {
	switch by {
	case byID, byName, byAccession:
		return nil
	default:
		return fmt.Errorf("unknown query kind %q, use id, name or accession", by)
	}
}

// lineageRecord resolves one query. Unknown taxa and accessions become
// records with an error message, other failures are returned.
func lineageRecord(
	ctx context.Context,
	s taxdb.Store,
	r lineage.Resolver,
	by, q string,
) (output.Record, error) {
	res := output.Record{Query: q}
	nodes, err := queryNodes(ctx, s, r, by, q)
	switch {
	case taxdb.IsNotFound(err):
		res.Error = "taxon not found"
		return res, nil
	case taxdb.IsNoLink(err):
		res.Error = "accession is not linked to a taxon"
		return res, nil
	case err != nil:
		return res, err
	}

	res.Lineage = lineage.Names(nodes)
	res.IDs = make([]string, len(nodes))
	for i := range nodes {
		res.IDs[i] = nodes[i].ID
	}
	return res, nil
}

func queryNodes(
	ctx context.Context,
	s taxdb.Store,
	r lineage.Resolver,
	by, q string,
) ([]taxon.Node, error) {
	id := q
	switch by {
	case byName:
		node, err := s.NodeByName(ctx, q)
		if err != nil {
			return nil, err
		}
		id = node.ID
	case byAccession:
		var err error
		id, err = s.TaxonID(ctx, accession.FromVersion(q))
		if err != nil {
			return nil, err
		}
	}
	return r.Nodes(ctx, id)
}

func readQueries(r io.Reader) ([]string, error) {
	var res []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if q := strings.TrimSpace(sc.Text()); q != "" {
			res = append(res, q)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
