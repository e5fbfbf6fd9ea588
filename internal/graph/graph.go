// Package graph compiles an ownership dataset into a styled, layered
// diagram graph and renders it through two backends: Mermaid flowchart text
// and vis.js node/edge objects.
//
// The whole package is pure and transient: one Build call takes one dataset
// and returns one graph, with no shared state across calls. Data-quality
// problems never fail a build; they degrade it and surface as Issues.
package graph

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/hargabyte/eqg/internal/dataset"
)

// Options tunes a single build. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Direction is the Mermaid flow direction, TD or LR.
	Direction string

	// LevelIterations caps the level-assignment relaxation passes.
	LevelIterations int

	// NodeSpacing is the horizontal distance between sibling x hints.
	NodeSpacing float64

	// EdgeLabelLimit is the longest control description rendered verbatim;
	// anything longer falls back to the default "control" label.
	EdgeLabelLimit int

	// Logger receives debug traces. Algorithms never depend on it.
	Logger *log.Logger
}

func DefaultOptions() Options {
	return Options{
		Direction:       "TD",
		LevelIterations: 10,
		NodeSpacing:     300,
		EdgeLabelLimit:  30,
	}
}

// Graph is one compiled ownership structure, ready for either emitter.
type Graph struct {
	Core       string
	Controller string
	Registry   *Registry
	Equity     []Edge
	Control    []Edge
	Levels     map[string]int

	// Converged reports whether level assignment settled before its
	// iteration cap. False usually means cyclic extraction noise.
	Converged bool

	// Issues collects every non-fatal problem found during the build.
	Issues []Issue

	catalog map[string]dataset.Entity
	opts    Options
}

// Build compiles a dataset into a Graph. It never returns an error: bad
// entries are skipped, unplaceable entities get sentinel levels, and every
// problem is reported in the returned issue list (also kept on the Graph).
func Build(ds *dataset.Ownership, opts Options) (*Graph, []Issue) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.LevelIterations <= 0 {
		opts.LevelIterations = DefaultOptions().LevelIterations
	}
	if opts.NodeSpacing <= 0 {
		opts.NodeSpacing = DefaultOptions().NodeSpacing
	}
	if opts.EdgeLabelLimit <= 0 {
		opts.EdgeLabelLimit = DefaultOptions().EdgeLabelLimit
	}
	if opts.Direction == "" {
		opts.Direction = DefaultOptions().Direction
	}

	g := &Graph{
		Core:       ds.CoreCompany,
		Controller: ds.Controller,
		Registry:   NewRegistry(),
		catalog:    ds.Catalog(),
		opts:       opts,
	}

	cls := newClassifier(ds)

	equity, control, issues := normalize(ds, logger)
	g.Equity, g.Control = equity, control
	g.Issues = append(g.Issues, issues...)

	// Register entities in first-reference order: designations, holder
	// lists, edges, then any referenced catalog entries. Catalog entries
	// referenced by nothing are extraction artifacts and stay out.
	if ds.CoreCompany != "" {
		g.Registry.GetOrCreate(ds.CoreCompany)
	}
	if ds.Controller != "" {
		g.Registry.GetOrCreate(ds.Controller)
	}
	for _, h := range ds.Shareholders {
		if h.Name != "" {
			g.Registry.GetOrCreate(h.Name)
		}
	}
	for _, t := range ds.TopLevelEntities {
		if t.Name != "" {
			g.Registry.GetOrCreate(t.Name)
		}
	}
	for _, h := range ds.Subsidiaries {
		if h.Name != "" {
			g.Registry.GetOrCreate(h.Name)
		}
	}
	for _, e := range equity {
		g.Registry.GetOrCreate(e.Parent)
		g.Registry.GetOrCreate(e.Child)
	}
	for _, e := range control {
		g.Registry.GetOrCreate(e.Parent)
		g.Registry.GetOrCreate(e.Child)
	}
	referenced := ds.ReferencedNames()
	for _, e := range ds.AllEntities {
		if e.Name != "" && referenced[e.Name] {
			g.Registry.GetOrCreate(e.Name)
		}
	}

	for _, n := range g.Registry.Nodes() {
		n.Class = cls.StyleFor(n.Name)
	}

	names := make([]string, 0, g.Registry.Len())
	for _, n := range g.Registry.Nodes() {
		names = append(names, n.Name)
	}
	allEdges := make([]Edge, 0, len(equity)+len(control))
	allEdges = append(allEdges, equity...)
	allEdges = append(allEdges, control...)

	levels, converged, levelIssues := assignLevels(
		ds.CoreCompany, allEdges, names, ds.TopEntityNames(), opts.LevelIterations, logger)
	g.Levels = levels
	g.Converged = converged
	g.Issues = append(g.Issues, levelIssues...)

	for _, n := range g.Registry.Nodes() {
		if l, ok := levels[n.Name]; ok {
			n.Level = l
		} else {
			n.Level = OrphanLevel
		}
	}

	assignPositions(g.Registry, equity, opts.NodeSpacing)

	logger.Debug("graph built",
		"entities", g.Registry.Len(),
		"equity_edges", len(equity),
		"control_edges", len(control),
		"converged", converged,
		"issues", len(g.Issues))

	return g, g.Issues
}

// Entity returns the catalog metadata for a name, if any.
func (g *Graph) Entity(name string) (dataset.Entity, bool) {
	e, ok := g.catalog[name]
	return e, ok
}
