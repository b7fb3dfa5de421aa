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
	"context"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnlineage/internal/ioannotate"
	"github.com/gnames/gnlineage/internal/iofs"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/lineage"
	"github.com/spf13/cobra"
)

// getAnnotateCmd returns the annotate command.
func getAnnotateCmd() *cobra.Command {
	var input, output string

	annotateCmd := &cobra.Command{
		Use:   "annotate",
		Short: "Append lineages to definition lines of a FASTA-like file",
		Long: `Annotate appends taxonomic lineages to definition lines of a
FASTA-like file.

The lineage is added between '#|' and '|#' markers, names are separated
with '<->':

  >sp|P06912|UROK_RABIT ... #| cellular organisms<->Eukaryota<->... |#

Definition lines with unknown accessions are copied unchanged, as are
all other lines.

Examples:
  gnlineage annotate -i proteins.fasta
  gnlineage annotate -i proteins.fasta -o proteins.annotated.fasta`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runAnnotate(cmd, input, output)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	annotateCmd.Flags().StringVarP(&input, "input-file", "i", "",
		"input file with FASTA-like definition lines")
	annotateCmd.Flags().StringVarP(&output, "output-file", "o",
		"annotated.txt", "output file with lineages")
	annotateCmd.Flags().IntP("cache-size", "c", 100_000,
		"number of nodes kept in memory cache")
	_ = annotateCmd.MarkFlagRequired("input-file")

	return annotateCmd
}

func runAnnotate(cmd *cobra.Command, input, output string) error {
	// cache is on for annotation unless configured
	size, _ := cmd.Flags().GetInt("cache-size")
	if cmd.Flags().Changed("cache-size") || cfg.Lineage.CacheSize == 0 {
		cfg.Update([]config.Option{config.OptLineageCacheSize(size)})
	}

	in, err := iofs.OpenFile(input)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := iofs.CreateFile(output)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx := context.Background()
	s, err := openStore(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()

	r := lineage.New(s, lineage.OptMaxDepth(cfg.Lineage.MaxDepth))
	res, err := ioannotate.New(r).Annotate(ctx, in, out)
	if err != nil {
		return err
	}
	if err = out.Close(); err != nil {
		return iofs.WriteFileError(output, err)
	}

	gn.Info("Annotated <em>%s</em> definition lines, "+
		"<em>%s</em> left without lineage. Output: <em>%s</em>",
		humanize.Comma(int64(res.Annotated)),
		humanize.Comma(int64(res.Passed)),
		output,
	)
	return nil
}
