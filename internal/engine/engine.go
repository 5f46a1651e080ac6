// Package engine runs the batch pass: route records, cluster free text,
// extract per-category hooks, aggregate, export. One cluster's failure
// never aborts its siblings; only unreadable input or unwritable output is
// fatal.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"worldhooks/internal/aggregate"
	"worldhooks/internal/cluster"
	"worldhooks/internal/config"
	"worldhooks/internal/export"
	"worldhooks/internal/extract"
	"worldhooks/internal/record"
	"worldhooks/internal/source"
)

type Options struct {
	// Parallelism bounds concurrent cluster extractions. Zero picks
	// GOMAXPROCS; one runs fully sequentially.
	Parallelism int
	Logger      *slog.Logger
}

type Result struct {
	Records           int64
	Counters          record.Snapshot
	Clusters          int
	EntitiesWritten   int
	StructuredWritten int
	SummariesWritten  int
	Failures          []export.Failure
}

func Run(ctx context.Context, registry *config.NameRegistry, lexicons *config.Lexicons, src source.Source, exporter *export.Exporter, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	if err := exporter.EnsureLayout(); err != nil {
		return nil, err
	}

	counters := &record.Counters{}
	router := record.NewRouter(lexicons, counters)
	assigner := cluster.NewEngine(registry)
	clusters := cluster.NewSet()

	var cells []record.HexCell
	var blobs []*record.Structured

	err = src.Records(ctx, func(rec source.Record) error {
		routed := router.Route(record.Raw{ID: rec.ID, Content: rec.Content})
		switch routed.Kind {
		case record.KindEmpty:
			// Counted by the router, nothing else to do.
		case record.KindStructured:
			doc := routed.Structured
			if doc.Hex != nil && doc.Hex.RegionRef != "" {
				cells = append(cells, *doc.Hex)
			} else {
				blobs = append(blobs, doc)
			}
		case record.KindFreeText:
			refs := assigner.Assign(routed.Raw.Content)
			if len(refs) == 0 {
				counters.Unclustered.Add(1)
				return nil
			}
			for _, ref := range refs {
				clusters.Add(ref, routed.Raw)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	result := &Result{Records: total, Clusters: clusters.Len()}
	var files []string

	for _, blob := range blobs {
		path, err := exporter.WriteStructured(blob)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
		result.StructuredWritten++
	}

	extractors := map[config.Category]extract.Extractor{
		config.CategoryRegion:     extract.NewRegion(lexicons, cells),
		config.CategorySettlement: extract.NewSettlement(lexicons),
		config.CategoryFaction:    extract.NewFaction(lexicons, registry),
		config.CategoryDungeon:    extract.NewDungeon(lexicons),
	}

	outcomes := extractAll(ctx, extractors, clusters, parallelism, logger)

	// Join point reached: every cluster in every category is finalized, so
	// summaries and entity files can be written in a fixed order.
	for _, category := range config.Categories {
		outcome := outcomes[category]
		for _, res := range outcome.results {
			path, err := exporter.WriteEntity(export.Entity{
				Name:       res.Name,
				Category:   string(category),
				WorldHooks: res.Hooks,
				Confidence: res.Confidence,
			})
			if err != nil {
				return nil, err
			}
			files = append(files, path)
			result.EntitiesWritten++
		}

		summary := aggregate.Build(category, outcome.results)
		path, err := exporter.WriteSummary(summary)
		if err != nil {
			return nil, err
		}
		files = append(files, path)
		result.SummariesWritten++
		result.Failures = append(result.Failures, outcome.failures...)
	}

	result.Counters = counters.Snapshot()
	if _, err := exporter.WriteManifest(&export.Manifest{
		Files:    append(files, "manifest.json"),
		Counters: result.Counters,
		Clusters: result.Clusters,
		Failures: result.Failures,
	}); err != nil {
		return nil, err
	}

	return result, nil
}

type outcome struct {
	results  []aggregate.ClusterResult
	failures []export.Failure
}

// extractAll fans cluster extraction out across a bounded worker group and
// waits for everything to finish before returning; the caller's aggregation
// runs strictly after this barrier. Each goroutine writes only its own
// result slot, so no lock is needed.
func extractAll(ctx context.Context, extractors map[config.Category]extract.Extractor, clusters *cluster.Set, parallelism int, logger *slog.Logger) map[config.Category]*outcome {
	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	outcomes := make(map[config.Category]*outcome, len(config.Categories))
	perIndexFailures := make(map[config.Category][]*export.Failure, len(config.Categories))

	for _, category := range config.Categories {
		extractor := extractors[category]
		categoryClusters := clusters.ByCategory(category)
		out := &outcome{results: make([]aggregate.ClusterResult, len(categoryClusters))}
		outcomes[category] = out
		perIndexFailures[category] = make([]*export.Failure, len(categoryClusters))

		for i, c := range categoryClusters {
			group.Go(func() error {
				hooks, confidence, err := safeExtract(extractor, c)
				if err != nil {
					logger.Warn("cluster extraction failed",
						"category", category, "cluster", c.Name, "error", err)
					perIndexFailures[category][i] = &export.Failure{
						Cluster:  c.Name,
						Category: string(category),
						Reason:   err.Error(),
					}
				}
				out.results[i] = aggregate.ClusterResult{Name: c.Name, Hooks: hooks, Confidence: confidence}
				return nil
			})
		}
	}

	// Workers never return errors; failures are isolated per cluster.
	_ = group.Wait()

	for _, category := range config.Categories {
		for _, failure := range perIndexFailures[category] {
			if failure != nil {
				outcomes[category].failures = append(outcomes[category].failures, *failure)
			}
		}
	}
	return outcomes
}

// safeExtract isolates one cluster's extraction: a panicking extractor
// yields the category's empty hook set with confidence zero.
func safeExtract(x extract.Extractor, c *cluster.Cluster) (hooks extract.Hooks, confidence float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			hooks = extract.EmptyHooks(x.Category())
			confidence = 0
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	hooks, confidence = x.Extract(c)
	return hooks, confidence, nil
}
