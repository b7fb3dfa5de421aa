// Package ioingest loads NCBI taxonomy dumps into a taxonomy store.
// Every write is insert-if-absent, so a run can be repeated with the same
// or a newer dump without duplicating or changing stored records.
package ioingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/gnames/gnlineage/internal/iodump"
	"github.com/gnames/gnlineage/internal/iofs"
	"github.com/gnames/gnlineage/internal/iometrics"
	"github.com/gnames/gnlineage/pkg/config"
	"github.com/gnames/gnlineage/pkg/taxdb"
	"github.com/gnames/gnlineage/pkg/taxon"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type ingester struct {
	cfg     *config.Config
	store   taxdb.Store
	metrics *iometrics.Metrics
}

// Option configures an ingester.
type Option func(*ingester)

// OptMetrics sets metrics that receive ingestion durations and batch
// sizes. Usually they are the same metrics the store reports to.
func OptMetrics(m *iometrics.Metrics) Option {
	return func(ing *ingester) {
		if m != nil {
			ing.metrics = m
		}
	}
}

// New creates an Ingester that writes to the given store.
func New(
	cfg *config.Config,
	store taxdb.Store,
	opts ...Option,
) taxdb.Ingester {
	res := &ingester{
		cfg:     cfg,
		store:   store,
		metrics: iometrics.New(),
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// IngestNodes parses names and nodes dumps and upserts a node for every
// taxon of the nodes dump. Self-parented roots are stored with their own
// ID as parent. If any taxon has no scientific name, nothing is written.
func (ing *ingester) IngestNodes(
	ctx context.Context,
	namesPath, nodesPath string,
) (*taxdb.Report, error) {
	start := time.Now()
	res := newReport("nodes")
	log := slog.With("run_id", res.RunID, "entity", res.Entity)
	log.Info("Reading taxonomy dumps", "names", namesPath, "nodes", nodesPath)

	names, err := iodump.Names(namesPath)
	if err != nil {
		return nil, err
	}
	parents, roots, err := iodump.Tree(nodesPath)
	if err != nil {
		return nil, err
	}
	for _, id := range roots {
		parents[id] = id
	}

	// sorted for reproducible batches
	ids := slices.Sorted(maps.Keys(parents))
	if missing := missingNames(ids, names); len(missing) > 0 {
		log.Error("Taxa without scientific name", "count", len(missing))
		return nil, MissingNameError(nodesPath, missing)
	}
	res.Parsed = len(ids)
	log.Info("Parsed taxonomy dumps",
		"names", len(names),
		"nodes", len(ids),
		"roots", len(roots),
	)

	bar := newProgress(ing.cfg.Import.WithProgress, len(ids), "Ingesting nodes: ")
	defer bar.finish()

	size := ing.cfg.Import.BatchSize
	batch := make([]taxon.Node, 0, min(size, len(ids)))
	for i, id := range ids {
		batch = append(batch, taxon.Node{
			ID:       id,
			ParentID: parents[id],
			Name:     names[id],
		})
		if len(batch) < size && i < len(ids)-1 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, CancelledError(res.Entity, err)
		}
		n, err := ing.store.UpsertNodes(ctx, batch)
		if err != nil {
			return nil, ing.writeError(res.Entity, err)
		}
		ing.metrics.BatchSize.Observe(float64(len(batch)))
		res.Inserted += n
		bar.add(len(batch))
		batch = batch[:0]
	}

	ing.finish(res, start, log)
	return res, nil
}

// IngestLinks streams an accession2taxid file into the store. One
// goroutine reads and groups links into batches, another one writes
// them, so memory use does not depend on the file size.
func (ing *ingester) IngestLinks(
	ctx context.Context,
	linksPath string,
) (*taxdb.Report, error) {
	start := time.Now()
	res := newReport("links")
	log := slog.With("run_id", res.RunID, "entity", res.Entity)
	log.Info("Reading links", "path", linksPath)

	f, err := iofs.OpenFile(linksPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	bar := newBytesProgress(ing.cfg.Import.WithProgress, f, "Ingesting links: ")
	defer bar.finish()
	r = bar.proxy(r)

	size := ing.cfg.Import.BatchSize
	chBatch := make(chan []taxon.Link)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chBatch)
		return readLinks(gctx, r, linksPath, size, chBatch, &res.Parsed)
	})

	g.Go(func() error {
		for batch := range chBatch {
			n, err := ing.store.UpsertLinks(gctx, batch)
			if err != nil {
				return ing.writeError(res.Entity, err)
			}
			ing.metrics.BatchSize.Observe(float64(len(batch)))
			res.Inserted += n
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil, CancelledError(res.Entity, err)
		}
		return nil, err
	}

	ing.finish(res, start, log)
	return res, nil
}

func readLinks(
	ctx context.Context,
	r io.Reader,
	name string,
	size int,
	chBatch chan<- []taxon.Link,
	parsed *int,
) error {
	send := func(batch []taxon.Link) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chBatch <- batch:
			return nil
		}
	}

	batch := make([]taxon.Link, 0, size)
	for link, err := range iodump.LinksFrom(r, name) {
		if err != nil {
			return err
		}
		*parsed++
		batch = append(batch, link)
		if len(batch) == size {
			if err := send(batch); err != nil {
				return err
			}
			batch = make([]taxon.Link, 0, size)
		}
	}

	if len(batch) > 0 {
		return send(batch)
	}
	return nil
}

func (ing *ingester) writeError(entity string, err error) error {
	if errors.Is(err, context.Canceled) {
		return CancelledError(entity, err)
	}
	return err
}

func (ing *ingester) finish(
	res *taxdb.Report,
	start time.Time,
	log *slog.Logger,
) {
	res.Duration = time.Since(start)
	res.Skipped = res.Parsed - res.Inserted
	ing.metrics.IngestSeconds.WithLabelValues(res.Entity).
		Set(res.Duration.Seconds())
	log.Info("Ingestion finished",
		"parsed", res.Parsed,
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"duration", res.Duration,
	)
}

func newReport(entity string) *taxdb.Report {
	return &taxdb.Report{
		RunID:  uuid.NewString(),
		Entity: entity,
	}
}

// missingNames returns IDs that have no scientific name.
func missingNames(ids []string, names map[string]string) []string {
	var res []string
	for _, id := range ids {
		if _, ok := names[id]; !ok {
			res = append(res, id)
		}
	}
	return res
}
