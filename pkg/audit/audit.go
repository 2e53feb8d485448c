// Package audit runs the provenance half of a supply-chain audit: load the
// resolved build graph, classify every package by origin, and optionally
// narrow it to what ships without dev-dependencies.
//
// Ownership lookups and presentation happen elsewhere; see the publishers and
// report packages.
package audit

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/cargo"
	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/observability"
	"github.com/matzehuels/supplychain/pkg/provenance"
)

// GraphLoader produces the build graph for a set of metadata arguments.
// [*cargo.Loader] is the production implementation.
type GraphLoader interface {
	Load(ctx context.Context, args cargo.MetadataArgs) (*deps.Graph, error)
}

// Runner executes audits. It holds no per-run state and can be reused.
type Runner struct {
	Loader GraphLoader
	Logger *log.Logger
}

// NewRunner creates a runner. A nil loader runs cargo from PATH and a nil
// logger uses the default logger.
func NewRunner(loader GraphLoader, logger *log.Logger) *Runner {
	if loader == nil {
		loader = &cargo.Loader{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Loader: loader, Logger: logger}
}

// Result is the outcome of one audit.
type Result struct {
	Graph      *deps.Graph            // graph as returned by the loader
	Classified *provenance.Classified // classified packages, filtered when NoDev was set
	Stats      Stats
}

// Stats records counts and timings for a run.
type Stats struct {
	LoadTime   time.Duration
	FilterTime time.Duration
	Total      int // packages in the loaded graph
	Kept       int // packages after filtering (equal to Total without NoDev)
	Local      int
	Registry   int
	Foreign    int
}

// Packages returns the classified packages ordered by id.
func (r *Result) Packages() []provenance.SourcedPackage {
	return r.Classified.List()
}

// Execute loads, classifies and (with args.NoDev) filters the graph.
// Load failures are returned unchanged so callers can print cargo's output.
func (r *Runner) Execute(ctx context.Context, args cargo.MetadataArgs) (*Result, error) {
	hooks := observability.Audit()
	res := &Result{}

	hooks.OnLoadStart(ctx, args.ManifestPath)
	start := time.Now()
	g, err := r.Loader.Load(ctx, args)
	res.Stats.LoadTime = time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, args.ManifestPath, 0, res.Stats.LoadTime, err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, args.ManifestPath, g.Len(), res.Stats.LoadTime, nil)
	res.Graph = g
	res.Stats.Total = g.Len()

	r.Logger.Debug("loaded build graph",
		"packages", g.Len(),
		"workspace", len(g.Workspace),
		"duration", res.Stats.LoadTime)

	c := provenance.Classify(g)
	hooks.OnClassify(ctx, c.Count(provenance.Local), c.Count(provenance.Registry), c.Count(provenance.Foreign))

	if args.NoDev {
		start = time.Now()
		c = provenance.FilterNonDev(c)
		res.Stats.FilterTime = time.Since(start)
		hooks.OnFilter(ctx, g.Len(), c.Len(), res.Stats.FilterTime)
		r.Logger.Debug("dropped dev-only packages",
			"before", g.Len(),
			"after", c.Len())
	}

	res.Classified = c
	res.Stats.Kept = c.Len()
	res.Stats.Local = c.Count(provenance.Local)
	res.Stats.Registry = c.Count(provenance.Registry)
	res.Stats.Foreign = c.Count(provenance.Foreign)

	return res, nil
}

// SourcedDependencies loads the graph, classifies it, drops dev-only
// packages when args.NoDev is set and returns the result ordered by ID.
func (r *Runner) SourcedDependencies(ctx context.Context, args cargo.MetadataArgs) ([]provenance.SourcedPackage, error) {
	res, err := r.Execute(ctx, args)
	if err != nil {
		return nil, err
	}
	return res.Packages(), nil
}
