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
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnlineage/internal/ioingest"
	"github.com/gnames/gnlineage/internal/iometrics"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/spf13/cobra"
)

// Default file names inside an NCBI taxdump directory.
const (
	namesFile = "names.dmp"
	nodesFile = "nodes.dmp"
	linksFile = "prot.accession2taxid"
)

// getIngestCmd returns the ingest command with nodes, links and all
// subcommands.
func getIngestCmd() *cobra.Command {
	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load NCBI taxonomy dumps into the taxonomy store",
		Long: `Ingest loads NCBI taxonomy dumps into the taxonomy store.

Ingestion only adds records that are not stored yet. Running it again
with the same or a newer dump never duplicates or changes stored
records.

Examples:
  gnlineage ingest nodes names.dmp nodes.dmp
  gnlineage ingest links prot.accession2taxid
  gnlineage ingest all ~/ncbi/taxdump
  gnlineage ingest all ~/ncbi/taxdump --metrics-file ingest.prom`,
		Aliases: []string{"import"},
	}

	ingestCmd.PersistentFlags().BoolP("progress", "p", true,
		"show progress bar")
	ingestCmd.PersistentFlags().IntP("batch-size", "b", 0,
		"number of records written at once")
	ingestCmd.PersistentFlags().StringP("metrics-file", "m", "",
		"write metrics in Prometheus textfile format")

	ingestCmd.AddCommand(
		getIngestNodesCmd(),
		getIngestLinksCmd(),
		getIngestAllCmd(),
	)
	return ingestCmd
}

func getIngestNodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nodes <names.dmp> <nodes.dmp>",
		Short: "Load taxonomy nodes with their scientific names",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, ing taxdb.Ingester) error {
				res, err := ing.IngestNodes(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				printReport(res)
				return nil
			})
		},
	}
}

func getIngestLinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links <prot.accession2taxid>",
		Short: "Load links from protein accessions to taxonomy nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, ing taxdb.Ingester) error {
				res, err := ing.IngestLinks(ctx, args[0])
				if err != nil {
					return err
				}
				printReport(res)
				return nil
			})
		},
	}
}

func getIngestAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all <taxdump dir>",
		Short: "Load links, then nodes from a taxdump directory",
		Long: `Load links, then nodes from a taxdump directory.

The directory must contain ` + linksFile + `, ` + namesFile + ` and
` + nodesFile + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, func(ctx context.Context, ing taxdb.Ingester) error {
				links, names, nodes := dumpPaths(args[0])
				res, err := ing.IngestLinks(ctx, links)
				if err != nil {
					return err
				}
				printReport(res)

				res, err = ing.IngestNodes(ctx, names, nodes)
				if err != nil {
					return err
				}
				printReport(res)
				return nil
			})
		},
	}
}

// dumpPaths returns paths of links, names and nodes files in dir.
func dumpPaths(dir string) (links, names, nodes string) {
	return filepath.Join(dir, linksFile),
		filepath.Join(dir, namesFile),
		filepath.Join(dir, nodesFile)
}

func runIngest(
	cmd *cobra.Command,
	run func(context.Context, taxdb.Ingester) error,
) error {
	err := ingest(cmd, run)
	if err != nil {
		gn.PrintErrorMessage(err)
	}
	return err
}

func ingest(
	cmd *cobra.Command,
	run func(context.Context, taxdb.Ingester) error,
) error {
	applyFlags(cmd, progressFlag, batchSizeFlag, metricsFileFlag)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := iometrics.New()
	s, err := openStore(ctx, m)
	if err != nil {
		return err
	}
	defer s.Close()

	ing := ioingest.New(cfg, s, ioingest.OptMetrics(m))
	if err = run(ctx, ing); err != nil {
		return err
	}

	nodes, links, err := s.Stats(ctx)
	if err != nil {
		return err
	}
	gn.Info("Taxonomy store has <em>%s</em> nodes and <em>%s</em> links",
		humanize.Comma(int64(nodes)), humanize.Comma(int64(links)))

	if path := cfg.Import.MetricsFile; path != "" {
		if err = m.WriteTextfile(path); err != nil {
			return err
		}
		gn.Info("Metrics are saved to <em>%s</em>", path)
	}
	return nil
}

func printReport(res *taxdb.Report) {
	gn.Info("Ingested %s: <em>%s</em> parsed, <em>%s</em> new, "+
		"<em>%s</em> already stored in %s",
		res.Entity,
		humanize.Comma(int64(res.Parsed)),
		humanize.Comma(int64(res.Inserted)),
		humanize.Comma(int64(res.Skipped)),
		gnfmt.TimeString(res.Duration.Seconds()),
	)
}
